package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginSave_IsOptimisticAndIdempotent(t *testing.T) {
	s := NewSession("user-1", 0)

	token, changed := s.BeginSave("prop-1", &PropertySummary{ID: "prop-1", Title: "Квартира у парка"})
	require.True(t, changed)
	assert.True(t, s.IsSaved("prop-1"), "состояние должно измениться до подтверждения сервера")

	// Повторное сохранение - no-op без новой квитанции
	_, changedAgain := s.BeginSave("prop-1", nil)
	assert.False(t, changedAgain)

	committed := s.SettleSaveState(token, nil)
	assert.True(t, committed)
	assert.True(t, s.IsSaved("prop-1"))
}

func TestSettleSaveState_RollsBackOnRemoteError(t *testing.T) {
	s := NewSession("user-1", 0)

	token, changed := s.BeginSave("prop-1", nil)
	require.True(t, changed)
	require.True(t, s.IsSaved("prop-1"))

	committed := s.SettleSaveState(token, errors.New("boom"))
	assert.False(t, committed)
	assert.False(t, s.IsSaved("prop-1"), "сбой удаленного вызова должен откатить оптимистичное сохранение")
	assert.Empty(t, s.ListSaved())
}

func TestBeginUnsave_RollsBackToSavedOnError(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")

	token, changed, err := s.BeginUnsave("prop-1")
	require.NoError(t, err)
	require.True(t, changed)
	assert.False(t, s.IsSaved("prop-1"))

	s.SettleSaveState(token, errors.New("network down"))
	assert.True(t, s.IsSaved("prop-1"), "откат должен вернуть объект в сохраненные")
}

func TestBeginUnsave_UnsavedIsNoop(t *testing.T) {
	s := NewSession("user-1", 0)

	_, changed, err := s.BeginUnsave("ghost")
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestBeginUnsave_RejectedWhileInCollection(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	colID := mustCreateCollection(t, s, "Избранное у моря")
	mustAddToCollection(t, s, colID, "prop-1")

	_, changed, err := s.BeginUnsave("prop-1")
	assert.False(t, changed)

	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.True(t, s.IsSaved("prop-1"), "отклоненная операция не должна трогать состояние")

	view, ok := s.CollectionByID(colID)
	require.True(t, ok)
	assert.Equal(t, 1, view.Count)
}

func TestSettleSaveState_LastIntentWins(t *testing.T) {
	s := NewSession("user-1", 0)

	// Пользователь сохраняет, тут же передумывает и убирает
	saveToken, changed := s.BeginSave("prop-1", nil)
	require.True(t, changed)
	_, changed, err := s.BeginUnsave("prop-1")
	require.NoError(t, err)
	require.True(t, changed)

	// Сбой первого (уже устаревшего) вызова не должен откатить второе намерение
	committed := s.SettleSaveState(saveToken, errors.New("timeout"))
	assert.False(t, committed, "устаревшая квитанция не фиксируется")
	assert.False(t, s.IsSaved("prop-1"), "последнее намерение (unsave) должно победить")
}

func TestReplaceSaved_InvalidatesInFlightTokens(t *testing.T) {
	s := NewSession("user-1", 0)

	token, changed := s.BeginSave("prop-1", nil)
	require.True(t, changed)

	s.ReplaceSaved([]PropertySummary{{ID: "prop-2", Title: "Дом"}})

	// Разрешение мутации из прошлой эпохи игнорируется
	committed := s.SettleSaveState(token, errors.New("late failure"))
	assert.False(t, committed)
	assert.False(t, s.IsSaved("prop-1"))
	assert.True(t, s.IsSaved("prop-2"))

	items := s.ListSaved()
	require.Len(t, items, 1)
	assert.Equal(t, "Дом", items[0].Title)
}

func TestReplaceSaved_PrunesCollectionMembers(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	mustSave(t, s, "prop-2")
	colID := mustCreateCollection(t, s, "Для переезда")
	mustAddToCollection(t, s, colID, "prop-1")
	mustAddToCollection(t, s, colID, "prop-2")

	// Сервер знает только о prop-2
	s.ReplaceSaved([]PropertySummary{{ID: "prop-2"}})

	view, ok := s.CollectionByID(colID)
	require.True(t, ok)
	assert.Equal(t, []string{"prop-2"}, view.MemberIDs)
	assert.Equal(t, 1, view.Count)
}

func TestReset_ClearsEverythingAndInvalidatesTokens(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")
	mustCreateCollection(t, s, "Коллекция")
	s.AddRecentlyViewed("prop-1", "search")

	token, changed := s.BeginSave("prop-2", nil)
	require.True(t, changed)

	s.Reset()

	assert.False(t, s.IsSaved("prop-1"))
	assert.Empty(t, s.ListSaved())
	assert.Empty(t, s.Collections())
	assert.Empty(t, s.RecentlyViewed())

	committed := s.SettleSaveState(token, nil)
	assert.False(t, committed, "квитанции, выданные до Reset, мертвы")
	assert.False(t, s.IsSaved("prop-2"))
}

func TestAddRecentlyViewed_MovesRepeatViewToHead(t *testing.T) {
	s := NewSession("user-1", 0)

	s.AddRecentlyViewed("prop-1", "search")
	s.AddRecentlyViewed("prop-2", "search")
	s.AddRecentlyViewed("prop-1", "similar_properties")

	entries := s.RecentlyViewed()
	require.Len(t, entries, 2, "повторный просмотр не создает дубликат")
	assert.Equal(t, "prop-1", entries[0].PropertyID)
	assert.Equal(t, "similar_properties", entries[0].Source)
	assert.Equal(t, "prop-2", entries[1].PropertyID)
}

func TestAddRecentlyViewed_TrimsToLimit(t *testing.T) {
	s := NewSession("user-1", 3)

	s.AddRecentlyViewed("p1", "search")
	s.AddRecentlyViewed("p2", "search")
	s.AddRecentlyViewed("p3", "search")
	s.AddRecentlyViewed("p4", "search")

	entries := s.RecentlyViewed()
	require.Len(t, entries, 3)
	assert.Equal(t, "p4", entries[0].PropertyID)
	assert.Equal(t, "p2", entries[2].PropertyID, "самая старая запись вытесняется")
}

func TestRemoveRecentlyViewed(t *testing.T) {
	s := NewSession("user-1", 0)
	s.AddRecentlyViewed("p1", "search")
	s.AddRecentlyViewed("p2", "search")

	assert.True(t, s.RemoveRecentlyViewed("p1"))
	assert.False(t, s.RemoveRecentlyViewed("p1"))

	entries := s.RecentlyViewed()
	require.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].PropertyID)
}

func TestClearRecentlyViewed(t *testing.T) {
	s := NewSession("user-1", 0)
	s.AddRecentlyViewed("p1", "search")

	s.ClearRecentlyViewed()
	assert.Empty(t, s.RecentlyViewed())
}

func TestListSaved_FallsBackToBareIDWithoutProjection(t *testing.T) {
	s := NewSession("user-1", 0)
	mustSave(t, s, "prop-1")

	items := s.ListSaved()
	require.Len(t, items, 1)
	assert.Equal(t, "prop-1", items[0].ID)
	assert.Empty(t, items[0].Title)
}

// --- хелперы ---

func mustSave(t *testing.T, s *Session, propertyID string) {
	t.Helper()
	token, changed := s.BeginSave(propertyID, nil)
	require.True(t, changed)
	require.True(t, s.SettleSaveState(token, nil))
}

func mustCreateCollection(t *testing.T, s *Session, name string) string {
	t.Helper()
	tempID, token, err := s.BeginCreateCollection(name)
	require.NoError(t, err)
	durableID := "col-" + name
	require.True(t, s.SettleCreateCollection(token, durableID, nil))
	require.NotEqual(t, tempID, durableID)
	return durableID
}

func mustAddToCollection(t *testing.T, s *Session, collectionID, propertyID string) {
	t.Helper()
	token, changed, err := s.BeginAddToCollection(collectionID, propertyID)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, s.SettleMembership(token, nil))
}
