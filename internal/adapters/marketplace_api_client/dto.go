package marketplace_api_client

import (
	"time"

	"engagement-service/internal/core/domain"
)

// PropertyPayload - сырой элемент списочного ответа marketplace API.
// Форма ответов слабо специфицирована, поэтому все поля опциональны.
type PropertyPayload struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Price      float64  `json:"price"`
	Currency   string   `json:"currency"`
	City       string   `json:"city"`
	Region     string   `json:"region"`
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  int      `json:"bathrooms"`
	AmenityIDs []string `json:"amenity_ids"`
	Images     []string `json:"images"`
}

func (p PropertyPayload) toDomain() domain.PropertySummary {
	return domain.PropertySummary{
		ID:         p.ID,
		Title:      p.Title,
		Price:      p.Price,
		Currency:   p.Currency,
		City:       p.City,
		Region:     p.Region,
		Bedrooms:   p.Bedrooms,
		Bathrooms:  p.Bathrooms,
		AmenityIDs: p.AmenityIDs,
		ImageURLs:  p.Images,
	}
}

func mapPayloadsToDomain(payloads []PropertyPayload) []domain.PropertySummary {
	result := make([]domain.PropertySummary, len(payloads))
	for i, p := range payloads {
		result[i] = p.toDomain()
	}
	return result
}

// RecentlyViewedPayload - элемент ответа на запрос истории просмотров
type RecentlyViewedPayload struct {
	PropertyID string `json:"property_id"`
	ViewedAt   string `json:"viewed_at"`
	Source     string `json:"source"`
}

func (p RecentlyViewedPayload) toDomain() domain.RecentlyViewedEntry {
	viewedAt, _ := time.Parse(time.RFC3339, p.ViewedAt)
	return domain.RecentlyViewedEntry{
		PropertyID: p.PropertyID,
		ViewedAt:   viewedAt,
		Source:     p.Source,
	}
}

// CollectionPayload - элемент ответа на запрос коллекций
type CollectionPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PropertyIDs []string `json:"property_ids"`
}

func (p CollectionPayload) toDomain() domain.CollectionView {
	return domain.CollectionView{
		ID:        p.ID,
		Name:      p.Name,
		MemberIDs: p.PropertyIDs,
		Count:     len(p.PropertyIDs),
	}
}

// createdEntityResponse - ответ на создание сущности (коллекции, объекта).
// Идентификатор может лежать на верхнем уровне или под data.
type createdEntityResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (r createdEntityResponse) id() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Data.ID
}

// --- Тела исходящих запросов ---

type createCollectionRequest struct {
	Name string `json:"name"`
}

type personalizedRequest struct {
	UserID  string               `json:"user_id"`
	Filters searchFiltersPayload `json:"filters"`
	Weights weightsPayload       `json:"weights"`
	Limit   int                  `json:"limit"`
}

type searchFiltersPayload struct {
	City     string  `json:"city,omitempty"`
	Region   string  `json:"region,omitempty"`
	PriceMin float64 `json:"price_min,omitempty"`
	PriceMax float64 `json:"price_max,omitempty"`
	Rooms    []int   `json:"rooms,omitempty"`
	// Geohash - закодированные координаты центра поиска (precision 6)
	Geohash  string  `json:"geohash,omitempty"`
	RadiusKm float64 `json:"radius_km,omitempty"`
}

type weightsPayload struct {
	Price     int `json:"price"`
	Location  int `json:"location"`
	Size      int `json:"size"`
	Amenities int `json:"amenities"`
}

type propertyDraftRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	City        string   `json:"city,omitempty"`
	Region      string   `json:"region,omitempty"`
	Bedrooms    int      `json:"bedrooms,omitempty"`
	Bathrooms   int      `json:"bathrooms,omitempty"`
	AmenityIDs  []string `json:"amenity_ids,omitempty"`
}

type interactionEventRequest struct {
	UserID     string            `json:"user_id"`
	PropertyID string            `json:"property_id"`
	Action     string            `json:"action"`
	OccurredAt string            `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
