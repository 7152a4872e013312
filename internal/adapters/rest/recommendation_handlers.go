package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"engagement-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

const defaultRecommendationLimit = 20

// RecommendationHandler обслуживает персональные и похожие рекомендации
type RecommendationHandler struct {
	personalizedUC usecases_port.GetPersonalizedUseCase
	similarUC      usecases_port.GetSimilarUseCase
}

func NewRecommendationHandler(
	personalizedUC usecases_port.GetPersonalizedUseCase,
	similarUC usecases_port.GetSimilarUseCase) *RecommendationHandler {
	return &RecommendationHandler{
		personalizedUC: personalizedUC,
		similarUC:      similarUC,
	}
}

// GetPersonalized обрабатывает POST /api/v1/recommendations/personalized.
// Пустое тело допустимо: фильтры и веса тогда берутся по умолчанию.
func (h *RecommendationHandler) GetPersonalized(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req personalizedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	result, err := h.personalizedUC.Execute(r.Context(), session.UserID(), req.Filters.toDomain(), req.Weights.toDomain(), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, recommendationResponse{
		Success:    result.Success,
		Properties: summariesToDTO(result.Items),
	})
}

// GetSimilar обрабатывает GET /api/v1/properties/{propertyID}/similar
func (h *RecommendationHandler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")
	limit, err := GetLimitOrDefault(r, defaultRecommendationLimit)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	result, err := h.similarUC.Execute(r.Context(), session.UserID(), propertyID, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, recommendationResponse{
		Success:    result.Success,
		Properties: summariesToDTO(result.Items),
	})
}
