package usecases_port

import (
	"context"
	"engagement-service/internal/core/domain"
)

type CreateCollectionUseCase interface {
	Execute(ctx context.Context, session *domain.Session, name string) (domain.CollectionView, error)
}

type AddToCollectionUseCase interface {
	Execute(ctx context.Context, session *domain.Session, collectionID, propertyID string) error
}

type RemoveFromCollectionUseCase interface {
	Execute(ctx context.Context, session *domain.Session, collectionID, propertyID string) error
}

type ListCollectionsUseCase interface {
	Execute(ctx context.Context, session *domain.Session) ([]domain.CollectionView, error)
}
