package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate_ReturnsSameSessionForUser(t *testing.T) {
	registry := NewSessionRegistryAdapter(0)

	first := registry.GetOrCreate("user-1")
	second := registry.GetOrCreate("user-1")
	other := registry.GetOrCreate("user-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "user-1", first.UserID())
}

func TestInvalidate_ResetsAndForgetsSession(t *testing.T) {
	registry := NewSessionRegistryAdapter(0)

	session := registry.GetOrCreate("user-1")
	token, changed := session.BeginSave("prop-1", nil)
	require.True(t, changed)

	registry.Invalidate("user-1")

	// Старая ссылка очищена, разрешение незавершенной мутации мертво
	assert.False(t, session.SettleSaveState(token, nil))
	assert.False(t, session.IsSaved("prop-1"))

	// Следующее обращение начинает с чистого листа
	fresh := registry.GetOrCreate("user-1")
	assert.NotSame(t, session, fresh)
	assert.Empty(t, fresh.ListSaved())
}

func TestInvalidate_UnknownUserIsNoop(t *testing.T) {
	registry := NewSessionRegistryAdapter(0)
	registry.Invalidate("ghost")
}
