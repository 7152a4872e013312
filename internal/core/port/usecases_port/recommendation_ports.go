package usecases_port

import (
	"context"
	"engagement-service/internal/core/domain"
)

type GetPersonalizedUseCase interface {
	Execute(ctx context.Context, userID string, filters domain.SearchFilters, weights domain.PreferenceWeights, limit int) (*domain.RecommendationResult, error)
}

type GetSimilarUseCase interface {
	Execute(ctx context.Context, userID, propertyID string, limit int) (*domain.RecommendationResult, error)
}
