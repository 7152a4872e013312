package rest

import (
	"context"
	"net/http"

	"engagement-service/internal/core/domain"
	"engagement-service/internal/core/port"
)

// Ключ контекста для сессии вовлеченности
type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// SessionMiddleware разрешает сессию пользователя по заголовку X-User-ID.
// Сама аутентификация живет выше, в api-gateway: сюда запрос приходит
// уже с проверенным идентификатором пользователя.
func SessionMiddleware(registry port.SessionRegistryPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is required")
				return
			}

			session := registry.GetOrCreate(userID)
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext извлекает сессию, положенную SessionMiddleware
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}
