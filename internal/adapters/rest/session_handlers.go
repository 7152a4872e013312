package rest

import (
	"net/http"

	"engagement-service/internal/contextkeys"
	"engagement-service/internal/core/port"
)

// SessionHandler управляет жизненным циклом сессии вовлеченности
type SessionHandler struct {
	registry port.SessionRegistryPort
}

func NewSessionHandler(registry port.SessionRegistryPort) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// Logout обрабатывает POST /api/v1/session/logout: сбрасывает и удаляет
// сессию пользователя, чтобы следующий запрос начал с чистого состояния
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	userID := session.UserID()

	h.registry.Invalidate(userID)

	logger := contextkeys.LoggerFromContext(r.Context())
	logger.Info("Сессия вовлеченности пользователя сброшена", port.Fields{"user_id": userID})

	w.WriteHeader(http.StatusNoContent)
}
