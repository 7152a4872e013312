package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"engagement-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRecentlyViewed_RecordsLocallyAndLogsView(t *testing.T) {
	interactions := newFakeInteractionLogger()
	uc := NewAddRecentlyViewedUseCase(interactions)
	session := domain.NewSession("user-1", 0)

	uc.Execute(context.Background(), session, "prop-1", "search")

	entries := session.RecentlyViewed()
	require.Len(t, entries, 1)
	assert.Equal(t, "prop-1", entries[0].PropertyID)

	waitForEvent(t, interactions)
	events := interactions.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.InteractionView, events[0].Action)
	assert.Equal(t, "search", events[0].Metadata["source"])
}

func TestListRecentlyViewed_HydratesEmptySession(t *testing.T) {
	api := &fakeMarketplaceAPI{recentEntries: []domain.RecentlyViewedEntry{
		{PropertyID: "prop-1", ViewedAt: time.Now().UTC()},
		{PropertyID: "prop-2", ViewedAt: time.Now().UTC()},
	}}
	uc := NewListRecentlyViewedUseCase(api)
	session := domain.NewSession("user-1", 0)

	entries := uc.Execute(context.Background(), session)
	require.Len(t, entries, 2)
	assert.Equal(t, "prop-1", entries[0].PropertyID)
}

func TestListRecentlyViewed_PrefersLocalHistory(t *testing.T) {
	api := &fakeMarketplaceAPI{recentEntries: []domain.RecentlyViewedEntry{
		{PropertyID: "remote-only"},
	}}
	uc := NewListRecentlyViewedUseCase(api)
	session := domain.NewSession("user-1", 0)
	session.AddRecentlyViewed("local", "search")

	entries := uc.Execute(context.Background(), session)
	require.Len(t, entries, 1)
	assert.Equal(t, "local", entries[0].PropertyID, "непустая сессия не гидратируется повторно")
}

func TestListRecentlyViewed_HydrationFailureIsNotFatal(t *testing.T) {
	api := &fakeMarketplaceAPI{errFetchRecent: errors.New("unavailable")}
	uc := NewListRecentlyViewedUseCase(api)
	session := domain.NewSession("user-1", 0)

	entries := uc.Execute(context.Background(), session)
	assert.Empty(t, entries)
}

func TestClearRecentlyViewed_LocalClearSurvivesRemoteFailure(t *testing.T) {
	api := &fakeMarketplaceAPI{errClearRecent: errors.New("boom")}
	uc := NewClearRecentlyViewedUseCase(api)
	session := domain.NewSession("user-1", 0)
	session.AddRecentlyViewed("prop-1", "search")

	err := uc.Execute(context.Background(), session)
	require.Error(t, err)
	assert.Empty(t, session.RecentlyViewed(), "локальная очистка не откатывается из-за сбоя сервера")
}

func TestRemoveRecentlyViewed_LocalRemovalSurvivesRemoteFailure(t *testing.T) {
	api := &fakeMarketplaceAPI{errRemoveRecent: errors.New("boom")}
	uc := NewRemoveRecentlyViewedUseCase(api)
	session := domain.NewSession("user-1", 0)
	session.AddRecentlyViewed("prop-1", "search")
	session.AddRecentlyViewed("prop-2", "search")

	err := uc.Execute(context.Background(), session, "prop-1")
	require.Error(t, err)

	entries := session.RecentlyViewed()
	require.Len(t, entries, 1)
	assert.Equal(t, "prop-2", entries[0].PropertyID)
}
