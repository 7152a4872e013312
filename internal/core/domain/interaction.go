package domain

import "time"

// Действия, фиксируемые для нижестоящего пайплайна ранжирования
const (
	InteractionSave          = "save"
	InteractionView          = "view"
	InteractionSimilarViewed = "similar_viewed"
	InteractionSearch        = "search"
)

// InteractionEvent - событие взаимодействия пользователя с объектом.
// Доставка best-effort: потерянное событие - допустимая потеря данных,
// ретраев и очередей на клиентской стороне нет.
type InteractionEvent struct {
	UserID     string
	PropertyID string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]string
}
