package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginCreateCollection_AssignsTemporaryID(t *testing.T) {
	s := NewSession("user-1", 0)

	tempID, _, err := s.BeginCreateCollection("  Дачи под Минском  ")
	require.NoError(t, err)
	assert.True(t, IsTemporaryID(tempID))

	views := s.Collections()
	require.Len(t, views, 1)
	assert.Equal(t, "Дачи под Минском", views[0].Name, "имя сохраняется без внешних пробелов")
	assert.Equal(t, 0, views[0].Count)
}

func TestBeginCreateCollection_RejectsEmptyAndDuplicateNames(t *testing.T) {
	s := NewSession("user-1", 0)

	var validation *ValidationError

	_, _, err := s.BeginCreateCollection("   ")
	require.ErrorAs(t, err, &validation)

	mustCreateCollection(t, s, "Море")

	// Дубликат без учета регистра
	_, _, err = s.BeginCreateCollection("мОрЕ")
	require.ErrorAs(t, err, &validation)
}

func TestSettleCreateCollection_SwapsTempIDForDurable(t *testing.T) {
	s := NewSession("user-1", 0)

	tempID, token, err := s.BeginCreateCollection("Центр")
	require.NoError(t, err)

	committed := s.SettleCreateCollection(token, "col-42", nil)
	assert.True(t, committed)

	_, ok := s.CollectionByID(tempID)
	assert.False(t, ok, "временный идентификатор исчезает после реконсиляции")

	view, ok := s.CollectionByID("col-42")
	require.True(t, ok)
	assert.Equal(t, "Центр", view.Name)
}

func TestSettleCreateCollection_RemovesCollectionOnError(t *testing.T) {
	s := NewSession("user-1", 0)

	tempID, token, err := s.BeginCreateCollection("Центр")
	require.NoError(t, err)

	committed := s.SettleCreateCollection(token, "", errors.New("server rejected"))
	assert.False(t, committed)

	_, ok := s.CollectionByID(tempID)
	assert.False(t, ok)
	assert.Empty(t, s.Collections())

	// Имя снова свободно
	_, _, err = s.BeginCreateCollection("Центр")
	assert.NoError(t, err)
}

func TestBeginAddToCollection_RequiresSavedProperty(t *testing.T) {
	s := NewSession("user-1", 0)
	colID := mustCreateCollection(t, s, "Коллекция")

	var precondition *PreconditionError
	_, _, err := s.BeginAddToCollection(colID, "not-saved")
	require.ErrorAs(t, err, &precondition)

	_, _, err = s.BeginAddToCollection("ghost-collection", "not-saved")
	require.ErrorAs(t, err, &precondition)
}

func TestBeginAddToCollection_DuplicateIsNoop(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	colID := mustCreateCollection(t, s, "Коллекция")
	mustAddToCollection(t, s, colID, "prop-1")

	_, changed, err := s.BeginAddToCollection(colID, "prop-1")
	require.NoError(t, err)
	assert.False(t, changed)

	view, _ := s.CollectionByID(colID)
	assert.Equal(t, 1, view.Count, "количество всегда равно размеру множества членов")
}

func TestSettleMembership_RollsBackAdd(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	colID := mustCreateCollection(t, s, "Коллекция")

	token, changed, err := s.BeginAddToCollection(colID, "prop-1")
	require.NoError(t, err)
	require.True(t, changed)

	committed := s.SettleMembership(token, errors.New("boom"))
	assert.False(t, committed)

	view, _ := s.CollectionByID(colID)
	assert.Equal(t, 0, view.Count)
	assert.True(t, s.IsSaved("prop-1"), "откат членства не трогает SavedState")
}

func TestSettleMembership_RollsBackRemoveOnlyIfStillSaved(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	colID := mustCreateCollection(t, s, "Коллекция")
	mustAddToCollection(t, s, colID, "prop-1")

	token, changed, err := s.BeginRemoveFromCollection(colID, "prop-1")
	require.NoError(t, err)
	require.True(t, changed)

	s.SettleMembership(token, errors.New("boom"))

	view, _ := s.CollectionByID(colID)
	assert.Equal(t, []string{"prop-1"}, view.MemberIDs, "неудавшееся удаление возвращает члена")
}

func TestSeedCollections_BackfillsSavedState(t *testing.T) {
	s := NewSession("user-1", 0)

	s.SeedCollections([]CollectionView{
		{ID: "col-1", Name: "С сервера", MemberIDs: []string{"prop-9"}},
	})

	view, ok := s.CollectionByID("col-1")
	require.True(t, ok)
	assert.Equal(t, 1, view.Count)
	assert.True(t, s.IsSaved("prop-9"), "члены коллекций всегда подмножество сохраненных")

	// Повторная гидратация не дублирует
	s.SeedCollections([]CollectionView{{ID: "col-1", Name: "С сервера"}})
	assert.Len(t, s.Collections(), 1)
}
