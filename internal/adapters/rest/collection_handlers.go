package rest

import (
	"encoding/json"
	"net/http"

	"engagement-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// CollectionHandler обслуживает именованные коллекции
type CollectionHandler struct {
	createUC usecases_port.CreateCollectionUseCase
	addUC    usecases_port.AddToCollectionUseCase
	removeUC usecases_port.RemoveFromCollectionUseCase
	listUC   usecases_port.ListCollectionsUseCase
}

func NewCollectionHandler(
	createUC usecases_port.CreateCollectionUseCase,
	addUC usecases_port.AddToCollectionUseCase,
	removeUC usecases_port.RemoveFromCollectionUseCase,
	listUC usecases_port.ListCollectionsUseCase) *CollectionHandler {
	return &CollectionHandler{
		createUC: createUC,
		addUC:    addUC,
		removeUC: removeUC,
		listUC:   listUC,
	}
}

// ListCollections обрабатывает GET /api/v1/collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	views, err := h.listUC.Execute(r.Context(), session)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	result := make([]collectionResponse, len(views))
	for i, view := range views {
		result[i] = collectionToDTO(view)
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"collections": result})
}

// CreateCollection обрабатывает POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.createUC.Execute(r.Context(), session, req.Name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, collectionToDTO(view))
}

// AddToCollection обрабатывает POST /api/v1/collections/{collectionID}/properties/{propertyID}
func (h *CollectionHandler) AddToCollection(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	collectionID := chi.URLParam(r, "collectionID")
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.addUC.Execute(r.Context(), session, collectionID, propertyID); err != nil {
		WriteDomainError(w, err)
		return
	}

	view, _ := session.CollectionByID(collectionID)
	RespondWithJSON(w, http.StatusOK, collectionToDTO(view))
}

// RemoveFromCollection обрабатывает DELETE /api/v1/collections/{collectionID}/properties/{propertyID}
func (h *CollectionHandler) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	collectionID := chi.URLParam(r, "collectionID")
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.removeUC.Execute(r.Context(), session, collectionID, propertyID); err != nil {
		WriteDomainError(w, err)
		return
	}

	view, _ := session.CollectionByID(collectionID)
	RespondWithJSON(w, http.StatusOK, collectionToDTO(view))
}
