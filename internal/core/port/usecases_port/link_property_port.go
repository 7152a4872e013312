package usecases_port

import (
	"context"
	"engagement-service/internal/core/domain"
)

// LinkPropertyUseCase - workflow "создать объект → привязать к клиенту".
// При неудавшейся привязке возвращает заполненный LinkOutcome вместе
// с *domain.PartialFailure: объект существует сам по себе.
type LinkPropertyUseCase interface {
	Execute(ctx context.Context, clientID string, draft domain.PropertyDraft) (*domain.LinkOutcome, error)
}
