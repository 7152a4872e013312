package port

import (
	"context"
	"engagement-service/internal/core/domain"
)

// MarketplaceAPIPort - контракт удаленного marketplace API.
// Реализации классифицируют сбои: транспортная ошибка (ответа нет) -
// *domain.NetworkError, ответ с ошибкой или нераспознанной формой -
// *domain.ApplicationError. Форма списочных ответов не гарантирована
// и нормализуется на стороне адаптера.
type MarketplaceAPIPort interface {
	// SavedState
	FetchSavedProperties(ctx context.Context, userID string) ([]domain.PropertySummary, error)
	SaveProperty(ctx context.Context, userID, propertyID string) error
	UnsaveProperty(ctx context.Context, userID, propertyID string) error

	// История просмотров
	FetchRecentlyViewed(ctx context.Context, userID string) ([]domain.RecentlyViewedEntry, error)
	ClearRecentlyViewed(ctx context.Context, userID string) error
	RemoveRecentlyViewed(ctx context.Context, userID, propertyID string) error

	// Коллекции
	CreateCollection(ctx context.Context, userID, name string) (string, error)
	ListCollections(ctx context.Context, userID string) ([]domain.CollectionView, error)
	AddToCollection(ctx context.Context, collectionID, propertyID string) error
	RemoveFromCollection(ctx context.Context, collectionID, propertyID string) error

	// Рекомендации
	FetchPersonalized(ctx context.Context, userID string, filters domain.SearchFilters, weights domain.PreferenceWeights, limit int) ([]domain.PropertySummary, error)
	FetchSimilar(ctx context.Context, propertyID string, limit int) ([]domain.PropertySummary, error)

	// Создание и привязка объектов (workflow владельца/агента)
	CreateProperty(ctx context.Context, draft domain.PropertyDraft) (string, error)
	AttachPropertyToClient(ctx context.Context, propertyID, clientID string) error
}
