package marketplace_api_client

import (
	"context"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// HTTPInteractionLogger - запасной путь доставки событий взаимодействия
// через marketplace API, когда брокер сообщений не настроен.
// Контракт InteractionLoggerPort: любые сбои гасятся здесь и превращаются
// в false - логирование никогда не прерывает основную операцию.
type HTTPInteractionLogger struct {
	client *Client
}

func NewHTTPInteractionLogger(client *Client) *HTTPInteractionLogger {
	return &HTTPInteractionLogger{client: client}
}

func (l *HTTPInteractionLogger) Log(ctx context.Context, event domain.InteractionEvent) bool {
	if err := l.client.logInteraction(ctx, event); err != nil {
		// Потерянное событие - допустимая потеря данных, без ретраев
		contextkeys.LoggerFromContext(ctx).Debug("Interaction event dropped", port.Fields{
			"action": event.Action, "property_id": event.PropertyID, "reason": err.Error(),
		})
		return false
	}
	return true
}
