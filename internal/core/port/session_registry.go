package port

import "engagement-service/internal/core/domain"

// SessionRegistryPort - реестр сессий вовлеченности по пользователям.
// Сессия создается при первом обращении и живет до Invalidate (logout).
type SessionRegistryPort interface {
	GetOrCreate(userID string) *domain.Session
	Invalidate(userID string)
}
