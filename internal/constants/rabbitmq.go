package constants

// Обменник событий вовлеченности
const (
	EngagementExchange     = "engagement_exchange"
	EngagementExchangeType = "direct"
)

// Ключи маршрутизации
const (
	RoutingKeyInteractionEvents = "ranking.interaction.event"
)
