package usecase

import (
	"context"
	"time"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// SavePropertyUseCase - оптимистичное сохранение объекта.
// Членство применяется немедленно, удаленный вызов подтверждает или
// откатывает его; успешное сохранение порождает best-effort событие "save".
type SavePropertyUseCase struct {
	api          port.MarketplaceAPIPort
	interactions port.InteractionLoggerPort
}

func NewSavePropertyUseCase(api port.MarketplaceAPIPort, interactions port.InteractionLoggerPort) *SavePropertyUseCase {
	return &SavePropertyUseCase{api: api, interactions: interactions}
}

func (uc *SavePropertyUseCase) Execute(ctx context.Context, session *domain.Session, propertyID string, summary *domain.PropertySummary) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveProperty",
		"user_id":     session.UserID(),
		"property_id": propertyID,
	})

	token, changed := session.BeginSave(propertyID, summary)
	if !changed {
		// Уже сохранен (возможно, оптимистично) - идемпотентный no-op
		ucLogger.Debug("Property already in SavedState, nothing to do", nil)
		return nil
	}

	err := uc.api.SaveProperty(ctx, session.UserID(), propertyID)
	applied := session.SettleSaveState(token, err)
	if err != nil {
		ucLogger.Error("Remote save failed, optimistic membership reverted", err, nil)
		return err
	}

	if applied {
		// Fire-and-forget: событие не должно задерживать ответ пользователю
		go uc.interactions.Log(context.WithoutCancel(ctx), domain.InteractionEvent{
			UserID:     session.UserID(),
			PropertyID: propertyID,
			Action:     domain.InteractionSave,
			OccurredAt: time.Now().UTC(),
		})
	}

	ucLogger.Info("Property saved", port.Fields{"applied": applied})
	return nil
}

// UnsavePropertyUseCase - симметричное оптимистичное удаление из SavedState.
// Объект, состоящий в коллекциях, не отпускается (PreconditionError).
type UnsavePropertyUseCase struct {
	api port.MarketplaceAPIPort
}

func NewUnsavePropertyUseCase(api port.MarketplaceAPIPort) *UnsavePropertyUseCase {
	return &UnsavePropertyUseCase{api: api}
}

func (uc *UnsavePropertyUseCase) Execute(ctx context.Context, session *domain.Session, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UnsaveProperty",
		"user_id":     session.UserID(),
		"property_id": propertyID,
	})

	token, changed, err := session.BeginUnsave(propertyID)
	if err != nil {
		ucLogger.Warn("Unsave rejected by local precondition", port.Fields{"reason": err.Error()})
		return err
	}
	if !changed {
		ucLogger.Debug("Property not in SavedState, nothing to do", nil)
		return nil
	}

	err = uc.api.UnsaveProperty(ctx, session.UserID(), propertyID)
	session.SettleSaveState(token, err)
	if err != nil {
		ucLogger.Error("Remote unsave failed, optimistic removal reverted", err, nil)
		return err
	}

	ucLogger.Info("Property unsaved", nil)
	return nil
}
