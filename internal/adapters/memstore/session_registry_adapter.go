package memstore

import (
	"sync"

	"engagement-service/internal/core/domain"
)

// SessionRegistryAdapter - in-memory реестр сессий вовлеченности.
// Долговечное состояние целиком принадлежит marketplace API, поэтому
// локального персистентного слоя у реестра нет: рестарт сервиса просто
// начинает сессии заново, и они гидратируются из API по требованию.
type SessionRegistryAdapter struct {
	mu          sync.Mutex
	sessions    map[string]*domain.Session
	recentLimit int
}

func NewSessionRegistryAdapter(recentLimit int) *SessionRegistryAdapter {
	return &SessionRegistryAdapter{
		sessions:    make(map[string]*domain.Session),
		recentLimit: recentLimit,
	}
}

// GetOrCreate возвращает сессию пользователя, создавая пустую при первом обращении
func (r *SessionRegistryAdapter) GetOrCreate(userID string) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[userID]; ok {
		return session
	}
	session := domain.NewSession(userID, r.recentLimit)
	r.sessions[userID] = session
	return session
}

// Invalidate сбрасывает и забывает сессию (logout).
// Reset поднимает epoch, так что разрешения незавершенных мутаций,
// державших ссылку на старую сессию, будут проигнорированы.
func (r *SessionRegistryAdapter) Invalidate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[userID]; ok {
		session.Reset()
		delete(r.sessions, userID)
	}
}
