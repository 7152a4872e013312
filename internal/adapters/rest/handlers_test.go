package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"engagement-service/internal/adapters/memstore"
	"engagement-service/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- заглушки use case для проверки HTTP-слоя ---

type fakeSaveUC struct {
	err         error
	gotSummary  *domain.PropertySummary
	gotProperty string
}

func (f *fakeSaveUC) Execute(ctx context.Context, session *domain.Session, propertyID string, summary *domain.PropertySummary) error {
	f.gotProperty = propertyID
	f.gotSummary = summary
	return f.err
}

type fakeUnsaveUC struct{ err error }

func (f *fakeUnsaveUC) Execute(ctx context.Context, session *domain.Session, propertyID string) error {
	return f.err
}

type fakeListSavedUC struct{ items []domain.PropertySummary }

func (f *fakeListSavedUC) Execute(ctx context.Context, session *domain.Session) []domain.PropertySummary {
	return f.items
}

type fakeSimilarUC struct {
	result   *domain.RecommendationResult
	err      error
	gotLimit int
}

func (f *fakeSimilarUC) Execute(ctx context.Context, userID, propertyID string, limit int) (*domain.RecommendationResult, error) {
	f.gotLimit = limit
	return f.result, f.err
}

type fakeLinkUC struct {
	outcome *domain.LinkOutcome
	err     error
}

func (f *fakeLinkUC) Execute(ctx context.Context, clientID string, draft domain.PropertyDraft) (*domain.LinkOutcome, error) {
	return f.outcome, f.err
}

func newRequestWithSession(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	session := domain.NewSession("user-1", 0)
	return req.WithContext(context.WithValue(req.Context(), sessionKey, session))
}

func TestSaveProperty_ForwardsBodyProjectionWithPathID(t *testing.T) {
	saveUC := &fakeSaveUC{}
	handler := &EngagementHandler{saveUC: saveUC}

	router := chi.NewRouter()
	router.Post("/saved/{propertyID}", handler.SaveProperty)

	req := newRequestWithSession(t, http.MethodPost, "/saved/prop-1",
		`{"property":{"id":"spoofed","title":"Дом","price":10}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "prop-1", saveUC.gotProperty)
	require.NotNil(t, saveUC.gotSummary)
	assert.Equal(t, "prop-1", saveUC.gotSummary.ID, "идентификатор из пути перекрывает тело")
	assert.Equal(t, "Дом", saveUC.gotSummary.Title)
}

func TestSaveProperty_EmptyBodyIsAllowed(t *testing.T) {
	saveUC := &fakeSaveUC{}
	handler := &EngagementHandler{saveUC: saveUC}

	router := chi.NewRouter()
	router.Post("/saved/{propertyID}", handler.SaveProperty)

	req := newRequestWithSession(t, http.MethodPost, "/saved/prop-1", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, saveUC.gotSummary)
}

func TestUnsaveProperty_PreconditionErrorIsConflict(t *testing.T) {
	handler := &EngagementHandler{unsaveUC: &fakeUnsaveUC{
		err: &domain.PreconditionError{Message: "property is in a collection"},
	}}

	router := chi.NewRouter()
	router.Delete("/saved/{propertyID}", handler.UnsaveProperty)

	req := newRequestWithSession(t, http.MethodDelete, "/saved/prop-1", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "collection")
}

func TestListSaved_AlwaysReturnsArray(t *testing.T) {
	handler := &EngagementHandler{listSavedUC: &fakeListSavedUC{}}

	req := newRequestWithSession(t, http.MethodGet, "/saved", "")
	rec := httptest.NewRecorder()
	handler.ListSaved(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"properties":[]}`, rec.Body.String())
}

func TestGetSimilar_DegradedResultIsStillOK(t *testing.T) {
	similarUC := &fakeSimilarUC{result: &domain.RecommendationResult{
		Items: []domain.PropertySummary{}, Success: false,
	}}
	handler := NewRecommendationHandler(nil, similarUC)

	router := chi.NewRouter()
	router.Get("/properties/{propertyID}/similar", handler.GetSimilar)

	req := newRequestWithSession(t, http.MethodGet, "/properties/p1/similar?limit=3", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, similarUC.gotLimit)
	assert.JSONEq(t, `{"success":false,"properties":[]}`, rec.Body.String())
}

func TestGetSimilar_NetworkErrorIsBadGateway(t *testing.T) {
	similarUC := &fakeSimilarUC{err: &domain.NetworkError{Op: "similar"}}
	handler := NewRecommendationHandler(nil, similarUC)

	router := chi.NewRouter()
	router.Get("/properties/{propertyID}/similar", handler.GetSimilar)

	req := newRequestWithSession(t, http.MethodGet, "/properties/p1/similar", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLinkProperty_PartialSuccessCarriesWarning(t *testing.T) {
	linkUC := &fakeLinkUC{
		outcome: &domain.LinkOutcome{PropertyID: "prop-9", ParentID: "client-1", State: domain.LinkStateFailed},
		err:     &domain.PartialFailure{Message: "property prop-9 created but not attached"},
	}
	handler := NewLinkingHandler(linkUC)

	router := chi.NewRouter()
	router.Post("/clients/{clientID}/properties", handler.LinkProperty)

	req := newRequestWithSession(t, http.MethodPost, "/clients/client-1/properties", `{"title":"Квартира","price":100}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body linkOutcomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "prop-9", body.PropertyID)
	assert.Equal(t, "link_failed", body.State)
	assert.Contains(t, body.Warning, "not attached")
}

func TestLinkProperty_FullSuccessIsCreated(t *testing.T) {
	linkUC := &fakeLinkUC{
		outcome: &domain.LinkOutcome{PropertyID: "prop-9", ParentID: "client-1", State: domain.LinkStateLinked},
	}
	handler := NewLinkingHandler(linkUC)

	router := chi.NewRouter()
	router.Post("/clients/{clientID}/properties", handler.LinkProperty)

	req := newRequestWithSession(t, http.MethodPost, "/clients/client-1/properties", `{"title":"Квартира"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body linkOutcomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "linked", body.State)
	assert.Empty(t, body.Warning)
}

func TestLinkProperty_MissingTitleIsBadRequest(t *testing.T) {
	handler := NewLinkingHandler(&fakeLinkUC{})

	router := chi.NewRouter()
	router.Post("/clients/{clientID}/properties", handler.LinkProperty)

	req := newRequestWithSession(t, http.MethodPost, "/clients/client-1/properties", `{"price":100}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionMiddleware_RequiresUserHeader(t *testing.T) {
	registry := memstore.NewSessionRegistryAdapter(0)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		require.NotNil(t, session)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := SessionMiddleware(registry)(next)

	// Без заголовка - 401
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// С заголовком сессия появляется в контексте
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionHandler_LogoutInvalidatesSession(t *testing.T) {
	registry := memstore.NewSessionRegistryAdapter(0)
	session := registry.GetOrCreate("user-1")
	token, changed := session.BeginSave("prop-1", nil)
	require.True(t, changed)

	handler := NewSessionHandler(registry)

	req := httptest.NewRequest(http.MethodPost, "/session/logout", nil)
	req = req.WithContext(context.WithValue(req.Context(), sessionKey, session))
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, session.SettleSaveState(token, nil), "квитанции сессии мертвы после logout")
	assert.NotSame(t, session, registry.GetOrCreate("user-1"))
}
