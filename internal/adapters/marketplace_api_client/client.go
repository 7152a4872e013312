package marketplace_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

// Точность geohash для фильтра "рядом с точкой" (~1.2 x 0.6 км на ячейку)
const geohashPrecision = 6

// Client - HTTP-клиент marketplace API.
// Классифицирует сбои для ядра: транспортная ошибка (ответа нет) -
// *domain.NetworkError, ответ с ошибочным статусом или нераспознанной
// формой - *domain.ApplicationError.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, op, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Заголовок для сквозной трассировки
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// checkStatus превращает неуспешный статус в ApplicationError с телом ответа
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	return &domain.ApplicationError{Op: op, StatusCode: resp.StatusCode, Message: string(bodyBytes)}
}

// fetchPropertyList выполняет запрос и нормализует списочный ответ
func (c *Client) fetchPropertyList(ctx context.Context, op, method, url string, body any) ([]domain.PropertySummary, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "MarketplaceApiClient",
		"method":    op,
	})
	clientLogger.Debug("Sending request to marketplace API", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, op, method, url, body)
	if err != nil {
		clientLogger.Error("Failed to perform request to marketplace API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		clientLogger.Error("Received error response from marketplace API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		clientLogger.Error("Failed to read response from marketplace API", err, nil)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	payloads, ok := probeListPayload(raw)
	if !ok {
		err := &domain.ApplicationError{Op: op, Message: "unrecognized response shape"}
		clientLogger.Error("Could not normalize marketplace API response", err, nil)
		return nil, err
	}

	clientLogger.Info("Successfully received and normalized response", port.Fields{"items_count": len(payloads)})
	return mapPayloadsToDomain(payloads), nil
}

// statusOnly выполняет запрос, от которого нужен только успешный статус
func (c *Client) statusOnly(ctx context.Context, op, method, url string, body any) error {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "MarketplaceApiClient",
		"method":    op,
	})
	clientLogger.Debug("Sending request to marketplace API", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, op, method, url, body)
	if err != nil {
		clientLogger.Error("Failed to perform request to marketplace API", err, nil)
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		clientLogger.Error("Received error response from marketplace API", err, port.Fields{"status_code": resp.StatusCode})
		return err
	}
	return nil
}

// --- SavedState ---

func (c *Client) FetchSavedProperties(ctx context.Context, userID string) ([]domain.PropertySummary, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s/saved-properties", c.baseURL, userID)
	return c.fetchPropertyList(ctx, "FetchSavedProperties", http.MethodGet, url, nil)
}

func (c *Client) SaveProperty(ctx context.Context, userID, propertyID string) error {
	url := fmt.Sprintf("%s/api/v1/users/%s/saved-properties/%s", c.baseURL, userID, propertyID)
	return c.statusOnly(ctx, "SaveProperty", http.MethodPost, url, nil)
}

func (c *Client) UnsaveProperty(ctx context.Context, userID, propertyID string) error {
	url := fmt.Sprintf("%s/api/v1/users/%s/saved-properties/%s", c.baseURL, userID, propertyID)
	return c.statusOnly(ctx, "UnsaveProperty", http.MethodDelete, url, nil)
}

// --- История просмотров ---

func (c *Client) FetchRecentlyViewed(ctx context.Context, userID string) ([]domain.RecentlyViewedEntry, error) {
	op := "FetchRecentlyViewed"
	url := fmt.Sprintf("%s/api/v1/users/%s/recently-viewed", c.baseURL, userID)

	resp, err := c.doRequest(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var payloads []RecentlyViewedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, &domain.ApplicationError{Op: op, Message: "failed to decode response: " + err.Error()}
	}

	result := make([]domain.RecentlyViewedEntry, len(payloads))
	for i, p := range payloads {
		result[i] = p.toDomain()
	}
	return result, nil
}

func (c *Client) ClearRecentlyViewed(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/api/v1/users/%s/recently-viewed", c.baseURL, userID)
	return c.statusOnly(ctx, "ClearRecentlyViewed", http.MethodDelete, url, nil)
}

func (c *Client) RemoveRecentlyViewed(ctx context.Context, userID, propertyID string) error {
	url := fmt.Sprintf("%s/api/v1/users/%s/recently-viewed/%s", c.baseURL, userID, propertyID)
	return c.statusOnly(ctx, "RemoveRecentlyViewed", http.MethodDelete, url, nil)
}

// --- Коллекции ---

func (c *Client) CreateCollection(ctx context.Context, userID, name string) (string, error) {
	op := "CreateCollection"
	url := fmt.Sprintf("%s/api/v1/users/%s/collections", c.baseURL, userID)

	resp, err := c.doRequest(ctx, op, http.MethodPost, url, createCollectionRequest{Name: name})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return "", err
	}

	var created createdEntityResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &domain.ApplicationError{Op: op, Message: "failed to decode response: " + err.Error()}
	}
	if created.id() == "" {
		return "", &domain.ApplicationError{Op: op, Message: "response carries no collection identifier"}
	}
	return created.id(), nil
}

func (c *Client) ListCollections(ctx context.Context, userID string) ([]domain.CollectionView, error) {
	op := "ListCollections"
	url := fmt.Sprintf("%s/api/v1/users/%s/collections", c.baseURL, userID)

	resp, err := c.doRequest(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	payloads, ok := probeCollectionsPayload(raw)
	if !ok {
		return nil, &domain.ApplicationError{Op: op, Message: "unrecognized response shape"}
	}

	result := make([]domain.CollectionView, len(payloads))
	for i, p := range payloads {
		result[i] = p.toDomain()
	}
	return result, nil
}

func (c *Client) AddToCollection(ctx context.Context, collectionID, propertyID string) error {
	url := fmt.Sprintf("%s/api/v1/collections/%s/properties/%s", c.baseURL, collectionID, propertyID)
	return c.statusOnly(ctx, "AddToCollection", http.MethodPost, url, nil)
}

func (c *Client) RemoveFromCollection(ctx context.Context, collectionID, propertyID string) error {
	url := fmt.Sprintf("%s/api/v1/collections/%s/properties/%s", c.baseURL, collectionID, propertyID)
	return c.statusOnly(ctx, "RemoveFromCollection", http.MethodDelete, url, nil)
}

// --- Рекомендации ---

func (c *Client) FetchPersonalized(ctx context.Context, userID string, filters domain.SearchFilters, weights domain.PreferenceWeights, limit int) ([]domain.PropertySummary, error) {
	url := fmt.Sprintf("%s/api/v1/recommendations/personalized", c.baseURL)

	filtersPayload := searchFiltersPayload{
		City:     filters.City,
		Region:   filters.Region,
		PriceMin: filters.PriceMin,
		PriceMax: filters.PriceMax,
		Rooms:    filters.Rooms,
		RadiusKm: filters.RadiusKm,
	}
	if filters.Lat != nil && filters.Lng != nil {
		filtersPayload.Geohash = geohash.EncodeWithPrecision(*filters.Lat, *filters.Lng, geohashPrecision)
	}

	body := personalizedRequest{
		UserID:  userID,
		Filters: filtersPayload,
		Weights: weightsPayload{
			Price:     weights.Price,
			Location:  weights.Location,
			Size:      weights.Size,
			Amenities: weights.Amenities,
		},
		Limit: limit,
	}

	return c.fetchPropertyList(ctx, "FetchPersonalized", http.MethodPost, url, body)
}

func (c *Client) FetchSimilar(ctx context.Context, propertyID string, limit int) ([]domain.PropertySummary, error) {
	url := fmt.Sprintf("%s/api/v1/properties/%s/similar?limit=%d", c.baseURL, propertyID, limit)
	return c.fetchPropertyList(ctx, "FetchSimilar", http.MethodGet, url, nil)
}

// --- Создание и привязка объектов ---

func (c *Client) CreateProperty(ctx context.Context, draft domain.PropertyDraft) (string, error) {
	op := "CreateProperty"
	url := fmt.Sprintf("%s/api/v1/properties", c.baseURL)

	body := propertyDraftRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Currency:    draft.Currency,
		City:        draft.City,
		Region:      draft.Region,
		Bedrooms:    draft.Bedrooms,
		Bathrooms:   draft.Bathrooms,
		AmenityIDs:  draft.AmenityIDs,
	}

	resp, err := c.doRequest(ctx, op, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return "", err
	}

	var created createdEntityResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &domain.ApplicationError{Op: op, Message: "failed to decode response: " + err.Error()}
	}
	if created.id() == "" {
		return "", &domain.ApplicationError{Op: op, Message: "response carries no property identifier"}
	}
	return created.id(), nil
}

func (c *Client) AttachPropertyToClient(ctx context.Context, propertyID, clientID string) error {
	url := fmt.Sprintf("%s/api/v1/clients/%s/properties/%s/attach", c.baseURL, clientID, propertyID)
	return c.statusOnly(ctx, "AttachPropertyToClient", http.MethodPost, url, nil)
}

// logInteraction - HTTP-путь доставки событий взаимодействия
// (используется адаптером HTTPInteractionLogger, когда брокер не настроен)
func (c *Client) logInteraction(ctx context.Context, event domain.InteractionEvent) error {
	url := fmt.Sprintf("%s/api/v1/interactions", c.baseURL)
	body := interactionEventRequest{
		UserID:     event.UserID,
		PropertyID: event.PropertyID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt.Format(time.RFC3339Nano),
		Metadata:   event.Metadata,
	}
	return c.statusOnly(ctx, "LogInteraction", http.MethodPost, url, body)
}

// probeCollectionsPayload - пробы формы для ответа со списком коллекций:
// голый массив, обертка "collections", вложенная "data"
func probeCollectionsPayload(raw []byte) ([]CollectionPayload, bool) {
	var items []CollectionPayload
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	if inner, ok := wrapper["collections"]; ok {
		if err := json.Unmarshal(inner, &items); err == nil {
			return items, true
		}
	}
	if inner, ok := wrapper["data"]; ok {
		return probeCollectionsPayload(inner)
	}
	return nil, false
}
