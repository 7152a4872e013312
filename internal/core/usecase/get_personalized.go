package usecase

import (
	"context"
	"errors"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// GetPersonalizedUseCase запрашивает персональные рекомендации.
// Веса важности разрешаются и зажимаются в [1,10] до отправки.
// Транспортный сбой (NetworkError) отдается вызывающему коду для повтора;
// прикладной сбой деградирует до пустого результата с Success=false -
// для дашбордов отсутствие рекомендаций лучше ошибки.
type GetPersonalizedUseCase struct {
	api port.MarketplaceAPIPort
}

func NewGetPersonalizedUseCase(api port.MarketplaceAPIPort) *GetPersonalizedUseCase {
	return &GetPersonalizedUseCase{api: api}
}

func (uc *GetPersonalizedUseCase) Execute(ctx context.Context, userID string, filters domain.SearchFilters, weights domain.PreferenceWeights, limit int) (*domain.RecommendationResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetPersonalized",
		"user_id":  userID,
		"limit":    limit,
	})

	resolved := weights.Resolved()

	items, err := uc.api.FetchPersonalized(ctx, userID, filters, resolved, limit)
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			ucLogger.Error("Recommendation request failed at transport level", err, nil)
			return nil, err
		}

		// Деградированный успех: сервис ответил ошибкой или неузнаваемой формой
		ucLogger.Warn("Recommendation request degraded to empty result", port.Fields{"reason": err.Error()})
		return &domain.RecommendationResult{Items: []domain.PropertySummary{}, Success: false}, nil
	}

	ucLogger.Info("Recommendations received", port.Fields{"count": len(items)})
	return &domain.RecommendationResult{Items: items, Success: true}, nil
}
