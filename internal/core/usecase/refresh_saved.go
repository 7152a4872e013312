package usecase

import (
	"context"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// ListSavedUseCase отдает текущий локальный кэш сохраненных объектов.
// Чтение синхронное и не ходит в сеть: кэш обновляется явным RefreshSaved.
type ListSavedUseCase struct{}

func NewListSavedUseCase() *ListSavedUseCase {
	return &ListSavedUseCase{}
}

func (uc *ListSavedUseCase) Execute(ctx context.Context, session *domain.Session) []domain.PropertySummary {
	return session.ListSaved()
}

// RefreshSavedUseCase перечитывает сохраненные объекты из marketplace API
// и полностью замещает локальный кэш. Незавершенные на момент обновления
// оптимистичные мутации не откатываются - их разрешения просто игнорируются
// (замена кэша поднимает epoch сессии).
type RefreshSavedUseCase struct {
	api port.MarketplaceAPIPort
}

func NewRefreshSavedUseCase(api port.MarketplaceAPIPort) *RefreshSavedUseCase {
	return &RefreshSavedUseCase{api: api}
}

func (uc *RefreshSavedUseCase) Execute(ctx context.Context, session *domain.Session) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RefreshSaved",
		"user_id":  session.UserID(),
	})

	items, err := uc.api.FetchSavedProperties(ctx, session.UserID())
	if err != nil {
		ucLogger.Error("Failed to fetch saved properties", err, nil)
		return err
	}

	session.ReplaceSaved(items)
	ucLogger.Info("Saved properties cache replaced", port.Fields{"count": len(items)})
	return nil
}
