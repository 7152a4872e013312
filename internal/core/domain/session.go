package domain

import (
	"sync"
	"time"
)

// DefaultRecentlyViewedLimit - предел истории просмотров по умолчанию
const DefaultRecentlyViewedLimit = 50

// RecentlyViewedEntry - запись истории просмотров
type RecentlyViewedEntry struct {
	PropertyID string
	ViewedAt   time.Time
	// Source - откуда пользователь пришел к объекту ("search", "similar_properties", ...)
	Source string
}

// MutationKind - вид оптимистичной мутации
type MutationKind int

const (
	MutationSave MutationKind = iota
	MutationUnsave
	MutationCreateCollection
	MutationAddToCollection
	MutationRemoveFromCollection
)

// MutationToken - "квитанция" оптимистичной мутации.
// Захватывает пре-образ состояния для отката и версию намерения по ключу:
// разрешение, пришедшее против устаревшей версии, отбрасывается,
// а не применяется задним числом (последнее намерение пользователя побеждает).
type MutationToken struct {
	kind    MutationKind
	epoch   uint64
	key     string
	version uint64

	// пре-образы для отката
	wasSaved   bool
	wasMember  bool
	propertyID string
}

// Kind возвращает вид мутации, которой соответствует квитанция
func (t MutationToken) Kind() MutationKind { return t.kind }

// Session - состояние вовлеченности одного пользователя на время сессии.
// Единственный владелец SavedState, коллекций и истории просмотров;
// создается явно при старте сессии и сбрасывается Reset() при выходе.
// Все мутации оптимистичны: Begin* применяет изменение сразу и возвращает
// MutationToken, Settle* подтверждает или откатывает его по результату
// удаленного вызова.
type Session struct {
	mu     sync.Mutex
	userID string

	// epoch инкрементируется при Refresh/Reset: квитанции, выданные до этого,
	// считаются устаревшими и их разрешения игнорируются
	epoch uint64

	saved      map[string]struct{}
	savedOrder []string
	cache      map[string]PropertySummary

	// versions - счетчики намерений по затронутому идентификатору;
	// сериализуют конфликтующие операции над одной сущностью
	versions map[string]uint64

	collections     map[string]*Collection
	collectionOrder []string

	recentlyViewed []RecentlyViewedEntry
	recentLimit    int
}

// NewSession создает пустое состояние сессии для пользователя
func NewSession(userID string, recentLimit int) *Session {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentlyViewedLimit
	}
	return &Session{
		userID:      userID,
		saved:       make(map[string]struct{}),
		cache:       make(map[string]PropertySummary),
		versions:    make(map[string]uint64),
		collections: make(map[string]*Collection),
		recentLimit: recentLimit,
	}
}

func (s *Session) UserID() string { return s.userID }

// --- SavedState ---

// IsSaved сообщает, сохранен ли объект (с учетом оптимистичных мутаций)
func (s *Session) IsSaved(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[propertyID]
	return ok
}

// ListSaved возвращает текущую кэшированную последовательность сохраненных объектов
func (s *Session) ListSaved() []PropertySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]PropertySummary, 0, len(s.savedOrder))
	for _, id := range s.savedOrder {
		if summary, ok := s.cache[id]; ok {
			result = append(result, summary)
		} else {
			// Проекция еще не получена - отдаем хотя бы идентификатор
			result = append(result, PropertySummary{ID: id})
		}
	}
	return result
}

// BeginSave оптимистично добавляет объект в SavedState.
// Возвращает квитанцию и флаг changed: false означает, что объект уже
// сохранен и операция - идемпотентный no-op (удаленный вызов не нужен).
func (s *Session) BeginSave(propertyID string, summary *PropertySummary) (MutationToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.saved[propertyID]; ok {
		return MutationToken{}, false
	}

	s.saved[propertyID] = struct{}{}
	s.savedOrder = append(s.savedOrder, propertyID)
	if summary != nil {
		s.cache[propertyID] = *summary
	}

	s.versions[propertyID]++
	return MutationToken{
		kind:     MutationSave,
		epoch:    s.epoch,
		key:      propertyID,
		version:  s.versions[propertyID],
		wasSaved: false,
	}, true
}

// BeginUnsave оптимистично убирает объект из SavedState.
// Объект, состоящий хотя бы в одной коллекции, убрать нельзя (PreconditionError):
// инвариант members(C) ⊆ SavedState держится в любой момент времени,
// и молчаливая потеря членства в коллекциях недопустима.
func (s *Session) BeginUnsave(propertyID string) (MutationToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.saved[propertyID]; !ok {
		return MutationToken{}, false, nil
	}

	for _, col := range s.collections {
		if col.has(propertyID) {
			return MutationToken{}, false, &PreconditionError{
				Message: "property " + propertyID + " is still a member of collection " + col.Name + "; remove it from collections first",
			}
		}
	}

	s.removeSavedLocked(propertyID)

	s.versions[propertyID]++
	return MutationToken{
		kind:     MutationUnsave,
		epoch:    s.epoch,
		key:      propertyID,
		version:  s.versions[propertyID],
		wasSaved: true,
	}, true, nil
}

// SettleSaveState подтверждает или откатывает мутацию save/unsave.
// Возвращает true, только если мутация действительно зафиксирована;
// устаревшая квитанция (смена epoch или более новое намерение) отбрасывается.
func (s *Session) SettleSaveState(t MutationToken, remoteErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch || s.versions[t.key] != t.version {
		return false
	}

	if remoteErr == nil {
		return true
	}

	// Откат к пре-образу
	if t.wasSaved {
		if _, ok := s.saved[t.key]; !ok {
			s.saved[t.key] = struct{}{}
			s.savedOrder = append(s.savedOrder, t.key)
		}
	} else {
		s.removeSavedLocked(t.key)
	}
	return false
}

// ReplaceSaved заменяет кэш сохраненных объектов свежими данными сервиса.
// Инкремент epoch отменяет разрешения всех мутаций, запущенных до обновления.
// Члены коллекций, выпавшие из SavedState, вычищаются ради инварианта подмножества.
func (s *Session) ReplaceSaved(items []PropertySummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.saved = make(map[string]struct{}, len(items))
	s.savedOrder = make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := s.saved[item.ID]; ok {
			continue
		}
		s.saved[item.ID] = struct{}{}
		s.savedOrder = append(s.savedOrder, item.ID)
		s.cache[item.ID] = item
	}

	for _, col := range s.collections {
		col.pruneNotIn(s.saved)
	}
}

func (s *Session) removeSavedLocked(propertyID string) {
	delete(s.saved, propertyID)
	for i, id := range s.savedOrder {
		if id == propertyID {
			s.savedOrder = append(s.savedOrder[:i], s.savedOrder[i+1:]...)
			break
		}
	}
}

// --- История просмотров ---

// AddRecentlyViewed добавляет запись в голову истории. Best-effort: никогда
// не отказывает; повторный просмотр переносит существующую запись в голову.
func (s *Session) AddRecentlyViewed(propertyID, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.recentlyViewed {
		if entry.PropertyID == propertyID {
			s.recentlyViewed = append(s.recentlyViewed[:i], s.recentlyViewed[i+1:]...)
			break
		}
	}

	entry := RecentlyViewedEntry{PropertyID: propertyID, ViewedAt: time.Now().UTC(), Source: source}
	s.recentlyViewed = append([]RecentlyViewedEntry{entry}, s.recentlyViewed...)
	if len(s.recentlyViewed) > s.recentLimit {
		s.recentlyViewed = s.recentlyViewed[:s.recentLimit]
	}
}

// RecentlyViewed возвращает копию истории просмотров (свежие в начале)
func (s *Session) RecentlyViewed() []RecentlyViewedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]RecentlyViewedEntry, len(s.recentlyViewed))
	copy(result, s.recentlyViewed)
	return result
}

// ReplaceRecentlyViewed заменяет историю данными сервиса (гидратация сессии)
func (s *Session) ReplaceRecentlyViewed(entries []RecentlyViewedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entries) > s.recentLimit {
		entries = entries[:s.recentLimit]
	}
	s.recentlyViewed = make([]RecentlyViewedEntry, len(entries))
	copy(s.recentlyViewed, entries)
}

// ClearRecentlyViewed немедленно очищает локальную историю.
// Отката при сбое удаленного вызова нет: желание пользователя забыть историю
// не отменяется из-за недоступности сервера.
func (s *Session) ClearRecentlyViewed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentlyViewed = nil
}

// RemoveRecentlyViewed убирает одну запись; семантика отката как у Clear
func (s *Session) RemoveRecentlyViewed(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.recentlyViewed {
		if entry.PropertyID == propertyID {
			s.recentlyViewed = append(s.recentlyViewed[:i], s.recentlyViewed[i+1:]...)
			return true
		}
	}
	return false
}

// --- Жизненный цикл ---

// Reset полностью очищает состояние сессии (выход пользователя).
// Разрешения всех незавершенных мутаций после этого игнорируются.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.saved = make(map[string]struct{})
	s.savedOrder = nil
	s.cache = make(map[string]PropertySummary)
	s.versions = make(map[string]uint64)
	s.collections = make(map[string]*Collection)
	s.collectionOrder = nil
	s.recentlyViewed = nil
}
