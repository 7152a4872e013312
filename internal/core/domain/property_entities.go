package domain

import "strings"

// TempIDPrefix - префикс клиентских временных идентификаторов.
// Такой идентификатор живет только до реконсиляции с marketplace API
// и никогда не должен попадать во внешние вызовы.
const TempIDPrefix = "temp-"

// IsTemporaryID сообщает, является ли идентификатор клиентской "заглушкой"
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// PropertySummary - тонкая проекция объекта недвижимости для отображения.
// Справочные данные принадлежат marketplace API; ядро хранит только
// идентификаторы и этот кэш для списков.
type PropertySummary struct {
	ID         string
	Title      string
	Price      float64
	Currency   string
	City       string
	Region     string
	Bedrooms   int
	Bathrooms  int
	AmenityIDs []string
	ImageURLs  []string
}

// PropertyDraft - данные для создания нового объекта через marketplace API
type PropertyDraft struct {
	Title       string
	Description string
	Price       float64
	Currency    string
	City        string
	Region      string
	Bedrooms    int
	Bathrooms   int
	AmenityIDs  []string
}

// SearchFilters - фильтры для персональных рекомендаций.
// Координаты, если заданы, кодируются адаптером в geohash перед отправкой.
type SearchFilters struct {
	City     string
	Region   string
	PriceMin float64
	PriceMax float64
	Rooms    []int

	Lat      *float64
	Lng      *float64
	RadiusKm float64
}

// RecommendationResult - результат запроса рекомендаций.
// Success=false означает "деградированный успех": ответ сервиса не удался
// или не распознан, но для вызывающих контекстов (дашборды, панели похожих
// объектов) пустой список предпочтительнее ошибки.
type RecommendationResult struct {
	Items   []PropertySummary
	Success bool
}
