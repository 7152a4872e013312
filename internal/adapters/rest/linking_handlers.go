package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// LinkingHandler обслуживает workflow "создать объект и привязать к клиенту"
type LinkingHandler struct {
	linkUC usecases_port.LinkPropertyUseCase
}

func NewLinkingHandler(linkUC usecases_port.LinkPropertyUseCase) *LinkingHandler {
	return &LinkingHandler{linkUC: linkUC}
}

// LinkProperty обрабатывает POST /api/v1/clients/{clientID}/properties.
// Частичный успех (объект создан, привязка не удалась) отдается как 200
// с заполненным warning: повторная отправка черновика создала бы дубликат.
func (h *LinkingHandler) LinkProperty(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	var draft propertyDraftDTO
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(draft.Title) == "" {
		WriteJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	outcome, err := h.linkUC.Execute(r.Context(), clientID, draft.toDomain())
	if err != nil {
		var partial *domain.PartialFailure
		if errors.As(err, &partial) && outcome != nil {
			RespondWithJSON(w, http.StatusOK, linkOutcomeResponse{
				PropertyID: outcome.PropertyID,
				ClientID:   clientID,
				State:      outcome.State.String(),
				Warning:    partial.Message,
			})
			return
		}
		WriteDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, linkOutcomeResponse{
		PropertyID: outcome.PropertyID,
		ClientID:   clientID,
		State:      outcome.State.String(),
	})
}
