package usecase

import (
	"context"
	"errors"
	"time"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// GetSimilarUseCase запрашивает похожие объекты и при успехе фиксирует
// событие "similar_viewed" (fire-and-forget, ответ не задерживается).
// Политика деградации та же, что у персональных рекомендаций.
type GetSimilarUseCase struct {
	api          port.MarketplaceAPIPort
	interactions port.InteractionLoggerPort
}

func NewGetSimilarUseCase(api port.MarketplaceAPIPort, interactions port.InteractionLoggerPort) *GetSimilarUseCase {
	return &GetSimilarUseCase{api: api, interactions: interactions}
}

func (uc *GetSimilarUseCase) Execute(ctx context.Context, userID, propertyID string, limit int) (*domain.RecommendationResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetSimilar",
		"user_id":     userID,
		"property_id": propertyID,
		"limit":       limit,
	})

	items, err := uc.api.FetchSimilar(ctx, propertyID, limit)
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			ucLogger.Error("Similar-properties request failed at transport level", err, nil)
			return nil, err
		}

		ucLogger.Warn("Similar-properties request degraded to empty result", port.Fields{"reason": err.Error()})
		return &domain.RecommendationResult{Items: []domain.PropertySummary{}, Success: false}, nil
	}

	go uc.interactions.Log(context.WithoutCancel(ctx), domain.InteractionEvent{
		UserID:     userID,
		PropertyID: propertyID,
		Action:     domain.InteractionSimilarViewed,
		OccurredAt: time.Now().UTC(),
	})

	ucLogger.Info("Similar properties received", port.Fields{"count": len(items)})
	return &domain.RecommendationResult{Items: items, Success: true}, nil
}
