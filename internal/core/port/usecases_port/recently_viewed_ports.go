package usecases_port

import (
	"context"
	"engagement-service/internal/core/domain"
)

type AddRecentlyViewedUseCase interface {
	Execute(ctx context.Context, session *domain.Session, propertyID, source string)
}

type ListRecentlyViewedUseCase interface {
	Execute(ctx context.Context, session *domain.Session) []domain.RecentlyViewedEntry
}

type ClearRecentlyViewedUseCase interface {
	Execute(ctx context.Context, session *domain.Session) error
}

type RemoveRecentlyViewedUseCase interface {
	Execute(ctx context.Context, session *domain.Session, propertyID string) error
}
