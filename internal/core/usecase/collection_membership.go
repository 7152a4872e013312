package usecase

import (
	"context"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// AddToCollectionUseCase - оптимистичное включение объекта в коллекцию.
// Объект обязан состоять в SavedState; производный счетчик коллекции
// меняется только вместе с множеством членов.
type AddToCollectionUseCase struct {
	api port.MarketplaceAPIPort
}

func NewAddToCollectionUseCase(api port.MarketplaceAPIPort) *AddToCollectionUseCase {
	return &AddToCollectionUseCase{api: api}
}

func (uc *AddToCollectionUseCase) Execute(ctx context.Context, session *domain.Session, collectionID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "AddToCollection",
		"user_id":       session.UserID(),
		"collection_id": collectionID,
		"property_id":   propertyID,
	})

	// Временный идентификатор означает, что создание коллекции еще не
	// реконсилировано - наружу с ним ходить нельзя
	if domain.IsTemporaryID(collectionID) {
		return &domain.PreconditionError{Message: "collection " + collectionID + " is still being created"}
	}

	token, changed, err := session.BeginAddToCollection(collectionID, propertyID)
	if err != nil {
		ucLogger.Warn("Add to collection rejected by local precondition", port.Fields{"reason": err.Error()})
		return err
	}
	if !changed {
		ucLogger.Debug("Property already in collection, nothing to do", nil)
		return nil
	}

	err = uc.api.AddToCollection(ctx, collectionID, propertyID)
	session.SettleMembership(token, err)
	if err != nil {
		ucLogger.Error("Remote add failed, optimistic membership reverted", err, nil)
		return err
	}

	ucLogger.Info("Property added to collection", nil)
	return nil
}

// RemoveFromCollectionUseCase - симметричное оптимистичное исключение
type RemoveFromCollectionUseCase struct {
	api port.MarketplaceAPIPort
}

func NewRemoveFromCollectionUseCase(api port.MarketplaceAPIPort) *RemoveFromCollectionUseCase {
	return &RemoveFromCollectionUseCase{api: api}
}

func (uc *RemoveFromCollectionUseCase) Execute(ctx context.Context, session *domain.Session, collectionID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "RemoveFromCollection",
		"user_id":       session.UserID(),
		"collection_id": collectionID,
		"property_id":   propertyID,
	})

	if domain.IsTemporaryID(collectionID) {
		return &domain.PreconditionError{Message: "collection " + collectionID + " is still being created"}
	}

	token, changed, err := session.BeginRemoveFromCollection(collectionID, propertyID)
	if err != nil {
		ucLogger.Warn("Remove from collection rejected by local precondition", port.Fields{"reason": err.Error()})
		return err
	}
	if !changed {
		ucLogger.Debug("Property not in collection, nothing to do", nil)
		return nil
	}

	err = uc.api.RemoveFromCollection(ctx, collectionID, propertyID)
	session.SettleMembership(token, err)
	if err != nil {
		ucLogger.Error("Remote removal failed, optimistic removal reverted", err, nil)
		return err
	}

	ucLogger.Info("Property removed from collection", nil)
	return nil
}

// ListCollectionsUseCase отдает коллекции сессии, лениво гидратируя пустую
// сессию данными marketplace API
type ListCollectionsUseCase struct {
	api port.MarketplaceAPIPort
}

func NewListCollectionsUseCase(api port.MarketplaceAPIPort) *ListCollectionsUseCase {
	return &ListCollectionsUseCase{api: api}
}

func (uc *ListCollectionsUseCase) Execute(ctx context.Context, session *domain.Session) ([]domain.CollectionView, error) {
	views := session.Collections()
	if len(views) > 0 {
		return views, nil
	}

	logger := contextkeys.LoggerFromContext(ctx)
	remote, err := uc.api.ListCollections(ctx, session.UserID())
	if err != nil {
		logger.Error("Failed to hydrate collections", err, port.Fields{
			"use_case": "ListCollections", "user_id": session.UserID(),
		})
		return nil, err
	}

	session.SeedCollections(remote)
	return session.Collections(), nil
}
