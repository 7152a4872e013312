package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
	"engagement-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// EngagementHandler обслуживает сохраненные объекты и историю просмотров
type EngagementHandler struct {
	saveUC         usecases_port.SavePropertyUseCase
	unsaveUC       usecases_port.UnsavePropertyUseCase
	listSavedUC    usecases_port.ListSavedUseCase
	refreshSavedUC usecases_port.RefreshSavedUseCase

	addViewedUC    usecases_port.AddRecentlyViewedUseCase
	listViewedUC   usecases_port.ListRecentlyViewedUseCase
	clearViewedUC  usecases_port.ClearRecentlyViewedUseCase
	removeViewedUC usecases_port.RemoveRecentlyViewedUseCase
}

func NewEngagementHandler(
	saveUC usecases_port.SavePropertyUseCase,
	unsaveUC usecases_port.UnsavePropertyUseCase,
	listSavedUC usecases_port.ListSavedUseCase,
	refreshSavedUC usecases_port.RefreshSavedUseCase,
	addViewedUC usecases_port.AddRecentlyViewedUseCase,
	listViewedUC usecases_port.ListRecentlyViewedUseCase,
	clearViewedUC usecases_port.ClearRecentlyViewedUseCase,
	removeViewedUC usecases_port.RemoveRecentlyViewedUseCase) *EngagementHandler {
	return &EngagementHandler{
		saveUC:         saveUC,
		unsaveUC:       unsaveUC,
		listSavedUC:    listSavedUC,
		refreshSavedUC: refreshSavedUC,
		addViewedUC:    addViewedUC,
		listViewedUC:   listViewedUC,
		clearViewedUC:  clearViewedUC,
		removeViewedUC: removeViewedUC,
	}
}

// SaveProperty обрабатывает POST /api/v1/saved/{propertyID}
func (h *EngagementHandler) SaveProperty(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	var req savePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var summary *domain.PropertySummary
	if req.Property != nil {
		s := req.Property.toDomain()
		s.ID = propertyID
		summary = &s
	}

	if err := h.saveUC.Execute(r.Context(), session, propertyID, summary); err != nil {
		WriteDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// UnsaveProperty обрабатывает DELETE /api/v1/saved/{propertyID}
func (h *EngagementHandler) UnsaveProperty(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.unsaveUC.Execute(r.Context(), session, propertyID); err != nil {
		WriteDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"saved": false})
}

// ListSaved обрабатывает GET /api/v1/saved
func (h *EngagementHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	items := h.listSavedUC.Execute(r.Context(), session)
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"properties": summariesToDTO(items),
	})
}

// RefreshSaved обрабатывает POST /api/v1/saved/refresh
func (h *EngagementHandler) RefreshSaved(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	if err := h.refreshSavedUC.Execute(r.Context(), session); err != nil {
		WriteDomainError(w, err)
		return
	}

	items := h.listSavedUC.Execute(r.Context(), session)
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"properties": summariesToDTO(items),
	})
}

// AddRecentlyViewed обрабатывает POST /api/v1/recently-viewed
func (h *EngagementHandler) AddRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req recentlyViewedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PropertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	h.addViewedUC.Execute(r.Context(), session, req.PropertyID, req.Source)
	w.WriteHeader(http.StatusNoContent)
}

// ListRecentlyViewed обрабатывает GET /api/v1/recently-viewed
func (h *EngagementHandler) ListRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	entries := h.listViewedUC.Execute(r.Context(), session)
	result := make([]recentlyViewedResponse, len(entries))
	for i, entry := range entries {
		result[i] = recentlyViewedResponse{
			PropertyID: entry.PropertyID,
			ViewedAt:   entry.ViewedAt,
			Source:     entry.Source,
		}
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"entries": result})
}

// ClearRecentlyViewed обрабатывает DELETE /api/v1/recently-viewed.
// Локальная история уже очищена, даже если удаленный вызов не удался -
// ошибка отдается для возможного повтора.
func (h *EngagementHandler) ClearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	if err := h.clearViewedUC.Execute(r.Context(), session); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Remote history clear failed", port.Fields{"reason": err.Error()})
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveRecentlyViewed обрабатывает DELETE /api/v1/recently-viewed/{propertyID}
func (h *EngagementHandler) RemoveRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.removeViewedUC.Execute(r.Context(), session, propertyID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
