package port

import (
	"context"
	"engagement-service/internal/core/domain"
)

// InteractionLoggerPort - best-effort отправка событий взаимодействия.
// Контракт намеренно не возвращает error: сбой логирования никогда не должен
// прерывать или замедлять основную пользовательскую операцию. Реализации
// гасят все ошибки на своей границе и возвращают только флаг успеха.
type InteractionLoggerPort interface {
	Log(ctx context.Context, event domain.InteractionEvent) bool
}
