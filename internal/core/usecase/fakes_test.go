package usecase

import (
	"context"
	"sync"

	"engagement-service/internal/core/domain"
)

// fakeMarketplaceAPI - управляемая заглушка marketplace API для тестов.
// Поля err* заставляют соответствующий вызов вернуть ошибку; все вызовы
// записываются для проверки аргументов.
type fakeMarketplaceAPI struct {
	mu sync.Mutex

	savedProperties []domain.PropertySummary
	recentEntries   []domain.RecentlyViewedEntry
	collections     []domain.CollectionView
	recommendations []domain.PropertySummary
	createdColID    string
	createdPropID   string

	errFetchSaved    error
	errSave          error
	errUnsave        error
	errFetchRecent   error
	errClearRecent   error
	errRemoveRecent  error
	errCreateCol     error
	errListCols      error
	errAddToCol      error
	errRemoveFromCol error
	errPersonalized  error
	errSimilar       error
	errCreateProp    error
	errAttach        error

	saveCalls         []string
	unsaveCalls       []string
	addToColCalls     [][2]string
	removeFromCol     [][2]string
	personalizedCalls []domain.PreferenceWeights
	similarCalls      []string
	attachCalls       [][2]string

	// saveGate, если задан, блокирует SaveProperty до закрытия канала -
	// для тестов гонки "последнее намерение побеждает"
	saveGate chan struct{}
}

func (f *fakeMarketplaceAPI) FetchSavedProperties(ctx context.Context, userID string) ([]domain.PropertySummary, error) {
	return f.savedProperties, f.errFetchSaved
}

func (f *fakeMarketplaceAPI) SaveProperty(ctx context.Context, userID, propertyID string) error {
	if f.saveGate != nil {
		<-f.saveGate
	}
	f.mu.Lock()
	f.saveCalls = append(f.saveCalls, propertyID)
	f.mu.Unlock()
	return f.errSave
}

func (f *fakeMarketplaceAPI) UnsaveProperty(ctx context.Context, userID, propertyID string) error {
	f.mu.Lock()
	f.unsaveCalls = append(f.unsaveCalls, propertyID)
	f.mu.Unlock()
	return f.errUnsave
}

func (f *fakeMarketplaceAPI) FetchRecentlyViewed(ctx context.Context, userID string) ([]domain.RecentlyViewedEntry, error) {
	return f.recentEntries, f.errFetchRecent
}

func (f *fakeMarketplaceAPI) ClearRecentlyViewed(ctx context.Context, userID string) error {
	return f.errClearRecent
}

func (f *fakeMarketplaceAPI) RemoveRecentlyViewed(ctx context.Context, userID, propertyID string) error {
	return f.errRemoveRecent
}

func (f *fakeMarketplaceAPI) CreateCollection(ctx context.Context, userID, name string) (string, error) {
	return f.createdColID, f.errCreateCol
}

func (f *fakeMarketplaceAPI) ListCollections(ctx context.Context, userID string) ([]domain.CollectionView, error) {
	return f.collections, f.errListCols
}

func (f *fakeMarketplaceAPI) AddToCollection(ctx context.Context, collectionID, propertyID string) error {
	f.mu.Lock()
	f.addToColCalls = append(f.addToColCalls, [2]string{collectionID, propertyID})
	f.mu.Unlock()
	return f.errAddToCol
}

func (f *fakeMarketplaceAPI) RemoveFromCollection(ctx context.Context, collectionID, propertyID string) error {
	f.mu.Lock()
	f.removeFromCol = append(f.removeFromCol, [2]string{collectionID, propertyID})
	f.mu.Unlock()
	return f.errRemoveFromCol
}

func (f *fakeMarketplaceAPI) FetchPersonalized(ctx context.Context, userID string, filters domain.SearchFilters, weights domain.PreferenceWeights, limit int) ([]domain.PropertySummary, error) {
	f.mu.Lock()
	f.personalizedCalls = append(f.personalizedCalls, weights)
	f.mu.Unlock()
	return f.recommendations, f.errPersonalized
}

func (f *fakeMarketplaceAPI) FetchSimilar(ctx context.Context, propertyID string, limit int) ([]domain.PropertySummary, error) {
	f.mu.Lock()
	f.similarCalls = append(f.similarCalls, propertyID)
	f.mu.Unlock()
	return f.recommendations, f.errSimilar
}

func (f *fakeMarketplaceAPI) CreateProperty(ctx context.Context, draft domain.PropertyDraft) (string, error) {
	return f.createdPropID, f.errCreateProp
}

func (f *fakeMarketplaceAPI) AttachPropertyToClient(ctx context.Context, propertyID, clientID string) error {
	f.mu.Lock()
	f.attachCalls = append(f.attachCalls, [2]string{propertyID, clientID})
	f.mu.Unlock()
	return f.errAttach
}

// fakeInteractionLogger собирает события и сигналит о каждом в канал,
// чтобы тесты могли дождаться fire-and-forget горутин
type fakeInteractionLogger struct {
	mu     sync.Mutex
	events []domain.InteractionEvent
	logged chan struct{}
}

func newFakeInteractionLogger() *fakeInteractionLogger {
	return &fakeInteractionLogger{logged: make(chan struct{}, 16)}
}

func (f *fakeInteractionLogger) Log(ctx context.Context, event domain.InteractionEvent) bool {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	f.logged <- struct{}{}
	return true
}

func (f *fakeInteractionLogger) Events() []domain.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.InteractionEvent, len(f.events))
	copy(result, f.events)
	return result
}
