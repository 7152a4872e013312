package usecase

import (
	"context"
	"time"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// AddRecentlyViewedUseCase фиксирует просмотр объекта. Best-effort по всей
// цепочке: локальная запись не отказывает, событие "view" - fire-and-forget.
type AddRecentlyViewedUseCase struct {
	interactions port.InteractionLoggerPort
}

func NewAddRecentlyViewedUseCase(interactions port.InteractionLoggerPort) *AddRecentlyViewedUseCase {
	return &AddRecentlyViewedUseCase{interactions: interactions}
}

func (uc *AddRecentlyViewedUseCase) Execute(ctx context.Context, session *domain.Session, propertyID, source string) {
	session.AddRecentlyViewed(propertyID, source)

	go uc.interactions.Log(context.WithoutCancel(ctx), domain.InteractionEvent{
		UserID:     session.UserID(),
		PropertyID: propertyID,
		Action:     domain.InteractionView,
		OccurredAt: time.Now().UTC(),
		Metadata:   map[string]string{"source": source},
	})
}

// ListRecentlyViewedUseCase отдает историю просмотров, лениво гидратируя
// пустую сессию из marketplace API (сбой гидратации не фатален - история
// начнется с чистого листа).
type ListRecentlyViewedUseCase struct {
	api port.MarketplaceAPIPort
}

func NewListRecentlyViewedUseCase(api port.MarketplaceAPIPort) *ListRecentlyViewedUseCase {
	return &ListRecentlyViewedUseCase{api: api}
}

func (uc *ListRecentlyViewedUseCase) Execute(ctx context.Context, session *domain.Session) []domain.RecentlyViewedEntry {
	entries := session.RecentlyViewed()
	if len(entries) > 0 {
		return entries
	}

	logger := contextkeys.LoggerFromContext(ctx)
	remote, err := uc.api.FetchRecentlyViewed(ctx, session.UserID())
	if err != nil {
		logger.Warn("Could not hydrate recently viewed history", port.Fields{
			"use_case": "ListRecentlyViewed", "user_id": session.UserID(), "reason": err.Error(),
		})
		return entries
	}

	session.ReplaceRecentlyViewed(remote)
	return session.RecentlyViewed()
}

// ClearRecentlyViewedUseCase очищает историю. Локальное состояние чистится
// сразу и при сбое удаленного вызова НЕ восстанавливается: желание пользователя
// забыть историю важнее недоступности сервера. Ошибка при этом возвращается,
// чтобы вызывающий код мог предложить повтор.
type ClearRecentlyViewedUseCase struct {
	api port.MarketplaceAPIPort
}

func NewClearRecentlyViewedUseCase(api port.MarketplaceAPIPort) *ClearRecentlyViewedUseCase {
	return &ClearRecentlyViewedUseCase{api: api}
}

func (uc *ClearRecentlyViewedUseCase) Execute(ctx context.Context, session *domain.Session) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ClearRecentlyViewed",
		"user_id":  session.UserID(),
	})

	session.ClearRecentlyViewed()

	if err := uc.api.ClearRecentlyViewed(ctx, session.UserID()); err != nil {
		ucLogger.Error("Remote clear failed; local history stays cleared", err, nil)
		return err
	}

	ucLogger.Info("Recently viewed history cleared", nil)
	return nil
}

// RemoveRecentlyViewedUseCase убирает одну запись истории; семантика
// отката та же, что у полной очистки
type RemoveRecentlyViewedUseCase struct {
	api port.MarketplaceAPIPort
}

func NewRemoveRecentlyViewedUseCase(api port.MarketplaceAPIPort) *RemoveRecentlyViewedUseCase {
	return &RemoveRecentlyViewedUseCase{api: api}
}

func (uc *RemoveRecentlyViewedUseCase) Execute(ctx context.Context, session *domain.Session, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "RemoveRecentlyViewed",
		"user_id":     session.UserID(),
		"property_id": propertyID,
	})

	removed := session.RemoveRecentlyViewed(propertyID)

	if err := uc.api.RemoveRecentlyViewed(ctx, session.UserID(), propertyID); err != nil {
		ucLogger.Error("Remote removal failed; local removal stays", err, port.Fields{"removed_locally": removed})
		return err
	}

	ucLogger.Info("Recently viewed entry removed", port.Fields{"removed_locally": removed})
	return nil
}
