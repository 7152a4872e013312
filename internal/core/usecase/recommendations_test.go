package usecase

import (
	"context"
	"errors"
	"testing"

	"engagement-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPersonalized_ResolvesWeightsBeforeSending(t *testing.T) {
	api := &fakeMarketplaceAPI{recommendations: []domain.PropertySummary{{ID: "prop-1"}}}
	uc := NewGetPersonalizedUseCase(api)

	weights := domain.PreferenceWeights{Price: 99, Location: -3, Size: 0, Amenities: 7}
	result, err := uc.Execute(context.Background(), "user-1", domain.SearchFilters{}, weights, 10)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Items, 1)

	require.Len(t, api.personalizedCalls, 1)
	sent := api.personalizedCalls[0]
	assert.Equal(t, domain.PreferenceWeights{Price: 10, Location: 1, Size: 5, Amenities: 7}, sent,
		"веса зажимаются в [1,10], незаданные становятся нейтральными")
}

func TestGetPersonalized_ApplicationErrorDegradesToEmptyResult(t *testing.T) {
	api := &fakeMarketplaceAPI{errPersonalized: &domain.ApplicationError{Op: "personalized", StatusCode: 500, Message: "ranking down"}}
	uc := NewGetPersonalizedUseCase(api)

	result, err := uc.Execute(context.Background(), "user-1", domain.SearchFilters{}, domain.PreferenceWeights{}, 10)
	require.NoError(t, err, "прикладной сбой не отдается как ошибка")
	assert.False(t, result.Success)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestGetPersonalized_NetworkErrorPropagates(t *testing.T) {
	api := &fakeMarketplaceAPI{errPersonalized: &domain.NetworkError{Op: "personalized", Err: errors.New("timeout")}}
	uc := NewGetPersonalizedUseCase(api)

	result, err := uc.Execute(context.Background(), "user-1", domain.SearchFilters{}, domain.PreferenceWeights{}, 10)
	assert.Nil(t, result)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr, "транспортный сбой отдается вызывающему для повтора")
}

func TestGetSimilar_SuccessLogsSimilarViewed(t *testing.T) {
	api := &fakeMarketplaceAPI{recommendations: []domain.PropertySummary{{ID: "prop-2"}}}
	interactions := newFakeInteractionLogger()
	uc := NewGetSimilarUseCase(api, interactions)

	result, err := uc.Execute(context.Background(), "user-1", "prop-1", 5)
	require.NoError(t, err)
	assert.True(t, result.Success)

	waitForEvent(t, interactions)
	events := interactions.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.InteractionSimilarViewed, events[0].Action)
	assert.Equal(t, "prop-1", events[0].PropertyID)
}

func TestGetSimilar_DegradedResultSkipsEvent(t *testing.T) {
	api := &fakeMarketplaceAPI{errSimilar: &domain.ApplicationError{Op: "similar", StatusCode: 502, Message: "bad upstream"}}
	interactions := newFakeInteractionLogger()
	uc := NewGetSimilarUseCase(api, interactions)

	result, err := uc.Execute(context.Background(), "user-1", "prop-1", 5)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, interactions.Events())
}
