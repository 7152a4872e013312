package usecase

import (
	"context"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// CreateCollectionUseCase создает именованную коллекцию.
// Коллекция появляется оптимистично под временным идентификатором и
// реконсилируется с долговечным, когда marketplace API подтвердит создание;
// при сбое оптимистичная коллекция убирается.
type CreateCollectionUseCase struct {
	api port.MarketplaceAPIPort
}

func NewCreateCollectionUseCase(api port.MarketplaceAPIPort) *CreateCollectionUseCase {
	return &CreateCollectionUseCase{api: api}
}

func (uc *CreateCollectionUseCase) Execute(ctx context.Context, session *domain.Session, name string) (domain.CollectionView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateCollection",
		"user_id":  session.UserID(),
		"name":     name,
	})

	tempID, token, err := session.BeginCreateCollection(name)
	if err != nil {
		ucLogger.Warn("Collection name rejected", port.Fields{"reason": err.Error()})
		return domain.CollectionView{}, err
	}

	durableID, err := uc.api.CreateCollection(ctx, session.UserID(), name)
	applied := session.SettleCreateCollection(token, durableID, err)
	if err != nil {
		ucLogger.Error("Remote create failed, optimistic collection removed", err, port.Fields{"temp_id": tempID})
		return domain.CollectionView{}, err
	}
	if !applied {
		// Сессия успела обновиться или сброситься - коллекции уже нет
		ucLogger.Warn("Create resolution arrived against a stale session, discarded", port.Fields{"temp_id": tempID})
		return domain.CollectionView{}, &domain.ApplicationError{Op: "create collection", Message: "session state changed while the request was in flight"}
	}

	view, _ := session.CollectionByID(durableID)
	ucLogger.Info("Collection created", port.Fields{"collection_id": durableID})
	return view, nil
}
