package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/contracts"
	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
	"engagement-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// interactionEventDTO - сообщение для пайплайна ранжирования
type interactionEventDTO struct {
	UserID     string            `json:"user_id"`
	PropertyID string            `json:"property_id"`
	Action     string            `json:"action"`
	OccurredAt string            `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// InteractionEnqueueAdapter публикует события взаимодействия в обменник
// вовлеченности. Контракт InteractionLoggerPort: все сбои (валидация
// контракта, маршаллинг, публикация) гасятся на этой границе и превращаются
// в false - потерянное событие допустимо, ретраев и очередей нет.
type InteractionEnqueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewInteractionEnqueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*InteractionEnqueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &InteractionEnqueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *InteractionEnqueueAdapter) Log(ctx context.Context, event domain.InteractionEvent) bool {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "InteractionEnqueueAdapter",
		"routing_key": a.routingKey,
		"action":      event.Action,
		"property_id": event.PropertyID,
	})

	dto := interactionEventDTO{
		UserID:     event.UserID,
		PropertyID: event.PropertyID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
		Metadata:   event.Metadata,
	}

	body, err := json.Marshal(dto)
	if err != nil {
		adapterLogger.Warn("Interaction event dropped: marshalling failed", port.Fields{"reason": err.Error()})
		return false
	}

	// Событие обязано соответствовать контракту, иначе оно бесполезно
	// для нижестоящего пайплайна - роняем его здесь, а не у потребителя
	if err := contracts.Validate(contracts.InteractionEventSchema, body); err != nil {
		adapterLogger.Warn("Interaction event dropped: contract violation", port.Fields{"reason": err.Error()})
		return false
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Transient, // best-effort: переживать рестарт брокера не обязано
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Warn("Interaction event dropped: publish failed", port.Fields{"reason": err.Error()})
		return false
	}

	adapterLogger.Debug("Interaction event published", nil)
	return true
}
