package domain

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Collection - именованная группа сохраненных объектов.
// Количество членов всегда производное от множества и никогда не хранится
// и не принимается от внешнего сервиса отдельным счетчиком - чтобы не разъезжалось.
type Collection struct {
	ID      string
	Name    string
	members map[string]struct{}
}

func newCollection(id, name string) *Collection {
	return &Collection{ID: id, Name: name, members: make(map[string]struct{})}
}

// Count - производный размер коллекции
func (c *Collection) Count() int { return len(c.members) }

func (c *Collection) has(propertyID string) bool {
	_, ok := c.members[propertyID]
	return ok
}

// MemberIDs возвращает идентификаторы членов коллекции
func (c *Collection) MemberIDs() []string {
	ids := make([]string, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	return ids
}

func (c *Collection) pruneNotIn(saved map[string]struct{}) {
	for id := range c.members {
		if _, ok := saved[id]; !ok {
			delete(c.members, id)
		}
	}
}

// CollectionView - снапшот коллекции для чтения
type CollectionView struct {
	ID        string
	Name      string
	MemberIDs []string
	Count     int
}

// foldName - ключ сравнения имен коллекций без учета регистра
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Collections возвращает снапшоты коллекций в порядке создания
func (s *Session) Collections() []CollectionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]CollectionView, 0, len(s.collectionOrder))
	for _, id := range s.collectionOrder {
		col, ok := s.collections[id]
		if !ok {
			continue
		}
		result = append(result, CollectionView{
			ID:        col.ID,
			Name:      col.Name,
			MemberIDs: col.MemberIDs(),
			Count:     col.Count(),
		})
	}
	return result
}

// CollectionByID возвращает снапшот одной коллекции
func (s *Session) CollectionByID(collectionID string) (CollectionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return CollectionView{}, false
	}
	return CollectionView{ID: col.ID, Name: col.Name, MemberIDs: col.MemberIDs(), Count: col.Count()}, true
}

// BeginCreateCollection оптимистично создает коллекцию под временным
// идентификатором. Имя обязано быть непустым и уникальным для пользователя
// (сравнение без учета регистра), иначе ValidationError.
func (s *Session) BeginCreateCollection(name string) (string, MutationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", MutationToken{}, &ValidationError{Field: "name", Message: "collection name must not be empty"}
	}

	folded := foldName(trimmed)
	for _, col := range s.collections {
		if foldName(col.Name) == folded {
			return "", MutationToken{}, &ValidationError{Field: "name", Message: "collection " + col.Name + " already exists"}
		}
	}

	tempID := TempIDPrefix + uuid.New().String()
	s.collections[tempID] = newCollection(tempID, trimmed)
	s.collectionOrder = append(s.collectionOrder, tempID)

	s.versions[tempID]++
	return tempID, MutationToken{
		kind:    MutationCreateCollection,
		epoch:   s.epoch,
		key:     tempID,
		version: s.versions[tempID],
	}, nil
}

// SettleCreateCollection реконсилирует оптимистичную коллекцию:
// при успехе временный идентификатор заменяется долговечным,
// при сбое коллекция удаляется. Возвращает true при фиксации.
func (s *Session) SettleCreateCollection(t MutationToken, durableID string, remoteErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch || s.versions[t.key] != t.version {
		return false
	}

	col, ok := s.collections[t.key]
	if !ok {
		return false
	}

	if remoteErr != nil {
		delete(s.collections, t.key)
		s.removeCollectionOrderLocked(t.key)
		return false
	}

	delete(s.collections, t.key)
	col.ID = durableID
	s.collections[durableID] = col
	for i, id := range s.collectionOrder {
		if id == t.key {
			s.collectionOrder[i] = durableID
			break
		}
	}
	s.versions[durableID] = s.versions[t.key]
	delete(s.versions, t.key)
	return true
}

// BeginAddToCollection оптимистично включает объект в коллекцию.
// Объект обязан состоять в SavedState (PreconditionError), коллекция - существовать.
func (s *Session) BeginAddToCollection(collectionID, propertyID string) (MutationToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return MutationToken{}, false, &PreconditionError{Message: "collection " + collectionID + " does not exist"}
	}
	if _, ok := s.saved[propertyID]; !ok {
		return MutationToken{}, false, &PreconditionError{Message: "property " + propertyID + " must be saved before adding to a collection"}
	}
	if col.has(propertyID) {
		return MutationToken{}, false, nil
	}

	col.members[propertyID] = struct{}{}

	key := membershipKey(collectionID, propertyID)
	s.versions[key]++
	return MutationToken{
		kind:       MutationAddToCollection,
		epoch:      s.epoch,
		key:        key,
		version:    s.versions[key],
		wasMember:  false,
		propertyID: propertyID,
	}, true, nil
}

// BeginRemoveFromCollection - симметричное оптимистичное исключение
func (s *Session) BeginRemoveFromCollection(collectionID, propertyID string) (MutationToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return MutationToken{}, false, &PreconditionError{Message: "collection " + collectionID + " does not exist"}
	}
	if !col.has(propertyID) {
		return MutationToken{}, false, nil
	}

	delete(col.members, propertyID)

	key := membershipKey(collectionID, propertyID)
	s.versions[key]++
	return MutationToken{
		kind:       MutationRemoveFromCollection,
		epoch:      s.epoch,
		key:        key,
		version:    s.versions[key],
		wasMember:  true,
		propertyID: propertyID,
	}, true, nil
}

// SettleMembership подтверждает или откатывает мутацию членства.
// Ключ квитанции содержит идентификатор коллекции, поэтому откат находит ее сам.
func (s *Session) SettleMembership(t MutationToken, remoteErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch || s.versions[t.key] != t.version {
		return false
	}

	if remoteErr == nil {
		return true
	}

	collectionID, _, ok := strings.Cut(t.key, "\x00")
	if !ok {
		return false
	}
	col, ok := s.collections[collectionID]
	if !ok {
		return false
	}

	if t.wasMember {
		// Откат удаления допустим, только если объект все еще сохранен
		if _, saved := s.saved[t.propertyID]; saved {
			col.members[t.propertyID] = struct{}{}
		}
	} else {
		delete(col.members, t.propertyID)
	}
	return false
}

// SeedCollections гидратирует пустую сессию коллекциями из marketplace API.
// Члены коллекций на сервере по определению сохранены, поэтому их
// идентификаторы дополняют SavedState - инвариант подмножества держится
// даже до явного RefreshSaved. Уже существующие коллекции не трогаются.
func (s *Session) SeedCollections(views []CollectionView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, view := range views {
		if _, ok := s.collections[view.ID]; ok {
			continue
		}
		col := newCollection(view.ID, view.Name)
		for _, propertyID := range view.MemberIDs {
			col.members[propertyID] = struct{}{}
			if _, saved := s.saved[propertyID]; !saved {
				s.saved[propertyID] = struct{}{}
				s.savedOrder = append(s.savedOrder, propertyID)
			}
		}
		s.collections[view.ID] = col
		s.collectionOrder = append(s.collectionOrder, view.ID)
	}
}

func (s *Session) removeCollectionOrderLocked(collectionID string) {
	for i, id := range s.collectionOrder {
		if id == collectionID {
			s.collectionOrder = append(s.collectionOrder[:i], s.collectionOrder[i+1:]...)
			break
		}
	}
}

// membershipKey - ключ версионирования для пары коллекция/объект.
// Разделитель \x00 не встречается в идентификаторах.
func membershipKey(collectionID, propertyID string) string {
	return collectionID + "\x00" + propertyID
}
