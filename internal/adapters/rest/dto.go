package rest

import (
	"time"

	"engagement-service/internal/core/domain"
)

// --- Входящие DTO ---

type propertySummaryDTO struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Price      float64  `json:"price"`
	Currency   string   `json:"currency"`
	City       string   `json:"city"`
	Region     string   `json:"region"`
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  int      `json:"bathrooms"`
	AmenityIDs []string `json:"amenity_ids,omitempty"`
	Images     []string `json:"images,omitempty"`
}

func (d *propertySummaryDTO) toDomain() domain.PropertySummary {
	return domain.PropertySummary{
		ID:         d.ID,
		Title:      d.Title,
		Price:      d.Price,
		Currency:   d.Currency,
		City:       d.City,
		Region:     d.Region,
		Bedrooms:   d.Bedrooms,
		Bathrooms:  d.Bathrooms,
		AmenityIDs: d.AmenityIDs,
		ImageURLs:  d.Images,
	}
}

func summaryToDTO(s domain.PropertySummary) propertySummaryDTO {
	return propertySummaryDTO{
		ID:         s.ID,
		Title:      s.Title,
		Price:      s.Price,
		Currency:   s.Currency,
		City:       s.City,
		Region:     s.Region,
		Bedrooms:   s.Bedrooms,
		Bathrooms:  s.Bathrooms,
		AmenityIDs: s.AmenityIDs,
		Images:     s.ImageURLs,
	}
}

func summariesToDTO(items []domain.PropertySummary) []propertySummaryDTO {
	result := make([]propertySummaryDTO, len(items))
	for i, item := range items {
		result[i] = summaryToDTO(item)
	}
	return result
}

// savePropertyRequest - тело POST /saved/{propertyID}. UI может приложить
// проекцию карточки, чтобы список сохраненного отображался без дозапроса.
type savePropertyRequest struct {
	Property *propertySummaryDTO `json:"property,omitempty"`
}

type recentlyViewedRequest struct {
	PropertyID string `json:"property_id"`
	Source     string `json:"source,omitempty"`
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

// Веса как указатели: отсутствующий вес разрешается в нейтральную пятерку
type weightsDTO struct {
	Price     *int `json:"price,omitempty"`
	Location  *int `json:"location,omitempty"`
	Size      *int `json:"size,omitempty"`
	Amenities *int `json:"amenities,omitempty"`
}

func (d weightsDTO) toDomain() domain.PreferenceWeights {
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	return domain.PreferenceWeights{
		Price:     deref(d.Price),
		Location:  deref(d.Location),
		Size:      deref(d.Size),
		Amenities: deref(d.Amenities),
	}
}

type searchFiltersDTO struct {
	City     string   `json:"city,omitempty"`
	Region   string   `json:"region,omitempty"`
	PriceMin float64  `json:"price_min,omitempty"`
	PriceMax float64  `json:"price_max,omitempty"`
	Rooms    []int    `json:"rooms,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	RadiusKm float64  `json:"radius_km,omitempty"`
}

func (d searchFiltersDTO) toDomain() domain.SearchFilters {
	return domain.SearchFilters{
		City:     d.City,
		Region:   d.Region,
		PriceMin: d.PriceMin,
		PriceMax: d.PriceMax,
		Rooms:    d.Rooms,
		Lat:      d.Lat,
		Lng:      d.Lng,
		RadiusKm: d.RadiusKm,
	}
}

type personalizedRequest struct {
	Filters searchFiltersDTO `json:"filters"`
	Weights weightsDTO       `json:"weights"`
	Limit   int              `json:"limit,omitempty"`
}

type propertyDraftDTO struct {
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

func (d propertyDraftDTO) toDomain() domain.PropertyDraft {
	return domain.PropertyDraft{
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Currency:    d.Currency,
		City:        d.City,
		Region:      d.Region,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		AmenityIDs:  d.AmenityIDs,
	}
}

// --- Исходящие DTO ---

type collectionResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PropertyIDs []string `json:"property_ids"`
	Count       int      `json:"count"`
}

func collectionToDTO(view domain.CollectionView) collectionResponse {
	memberIDs := view.MemberIDs
	if memberIDs == nil {
		memberIDs = []string{}
	}
	return collectionResponse{
		ID:          view.ID,
		Name:        view.Name,
		PropertyIDs: memberIDs,
		Count:       view.Count,
	}
}

type recentlyViewedResponse struct {
	PropertyID string    `json:"property_id"`
	ViewedAt   time.Time `json:"viewed_at"`
	Source     string    `json:"source,omitempty"`
}

type recommendationResponse struct {
	Success    bool                 `json:"success"`
	Properties []propertySummaryDTO `json:"properties"`
}

type linkOutcomeResponse struct {
	PropertyID string `json:"property_id"`
	ClientID   string `json:"client_id"`
	State      string `json:"state"`
	Warning    string `json:"warning,omitempty"`
}
