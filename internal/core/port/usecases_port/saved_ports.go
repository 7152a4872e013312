package usecases_port

import (
	"context"
	"engagement-service/internal/core/domain"
)

type SavePropertyUseCase interface {
	Execute(ctx context.Context, session *domain.Session, propertyID string, summary *domain.PropertySummary) error
}

type UnsavePropertyUseCase interface {
	Execute(ctx context.Context, session *domain.Session, propertyID string) error
}

type ListSavedUseCase interface {
	Execute(ctx context.Context, session *domain.Session) []domain.PropertySummary
}

// RefreshSavedUseCase перечитывает сохраненные объекты из marketplace API
// и замещает локальный кэш
type RefreshSavedUseCase interface {
	Execute(ctx context.Context, session *domain.Session) error
}
