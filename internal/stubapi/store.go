package stubapi

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/votoinformado/votoadmin/internal/api"
)

// errConflict carries the backend's verbatim conflict message.
type errConflict struct{ msg string }

func (e errConflict) Error() string { return e.msg }

// collection is one mutexed in-memory resource table with stable ordering.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	getID func(T) string
	setID func(*T, string)
}

func newCollection[T any](getID func(T) string, setID func(*T, string)) *collection[T] {
	return &collection[T]{items: map[string]T{}, getID: getID, setID: setID}
}

func (c *collection[T]) list(filter func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if filter == nil || filter(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) create(item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.getID(item)
	if id == "" {
		id = uuid.NewString()
		c.setID(&item, id)
	}
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
	return item
}

func (c *collection[T]) update(id string, item T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		var zero T
		return zero, false
	}
	c.setID(&item, id)
	c.items[id] = item
	return item, true
}

func (c *collection[T]) delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Store holds every resource table plus admin password hashes, which never
// leave the server.
type Store struct {
	admins       *collection[api.Administrator]
	candidates   *collection[api.Candidate]
	parties      *collection[api.Party]
	topics       *collection[api.Topic]
	proposals    *collection[api.Proposal]
	events       *collection[api.ScheduleEvent]
	resources    *collection[api.Resource]
	triviaTopics *collection[api.TriviaTopic]
	questions    *collection[api.TriviaQuestion]
	options      *collection[api.AnswerOption]
	history      *collection[api.HistoryEntry]

	pwMu      sync.RWMutex
	passwords map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		admins: newCollection(
			func(a api.Administrator) string { return a.ID },
			func(a *api.Administrator, id string) { a.ID = id },
		),
		candidates: newCollection(
			func(c api.Candidate) string { return c.ID },
			func(c *api.Candidate, id string) { c.ID = id },
		),
		parties: newCollection(
			func(p api.Party) string { return p.ID },
			func(p *api.Party, id string) { p.ID = id },
		),
		topics: newCollection(
			func(t api.Topic) string { return t.ID },
			func(t *api.Topic, id string) { t.ID = id },
		),
		proposals: newCollection(
			func(p api.Proposal) string { return p.ID },
			func(p *api.Proposal, id string) { p.ID = id },
		),
		events: newCollection(
			func(e api.ScheduleEvent) string { return e.ID },
			func(e *api.ScheduleEvent, id string) { e.ID = id },
		),
		resources: newCollection(
			func(r api.Resource) string { return r.ID },
			func(r *api.Resource, id string) { r.ID = id },
		),
		triviaTopics: newCollection(
			func(t api.TriviaTopic) string { return t.ID },
			func(t *api.TriviaTopic, id string) { t.ID = id },
		),
		questions: newCollection(
			func(q api.TriviaQuestion) string { return q.ID },
			func(q *api.TriviaQuestion, id string) { q.ID = id },
		),
		options: newCollection(
			func(o api.AnswerOption) string { return o.ID },
			func(o *api.AnswerOption, id string) { o.ID = id },
		),
		history: newCollection(
			func(h api.HistoryEntry) string { return h.ID },
			func(h *api.HistoryEntry, id string) { h.ID = id },
		),
		passwords: map[string][]byte{},
	}
}

// SeedAdmin creates an active administrator with a bcrypt-hashed password.
func (s *Store) SeedAdmin(nombre, email, password, rol string) (api.Administrator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return api.Administrator{}, err
	}
	admin := s.admins.create(api.Administrator{
		Nombre: nombre,
		Email:  email,
		Rol:    rol,
		Activo: true,
	})
	s.pwMu.Lock()
	s.passwords[admin.ID] = hash
	s.pwMu.Unlock()
	return admin, nil
}

// Authenticate verifies email/password against the stored hash. Inactive
// accounts are rejected the same way as wrong credentials.
func (s *Store) Authenticate(email, password string) (api.Administrator, bool) {
	var match api.Administrator
	found := false
	for _, admin := range s.admins.list(nil) {
		if admin.Email == email && admin.Activo {
			match = admin
			found = true
			break
		}
	}
	if !found {
		return api.Administrator{}, false
	}
	s.pwMu.RLock()
	hash := s.passwords[match.ID]
	s.pwMu.RUnlock()
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return api.Administrator{}, false
	}
	return match, true
}

// setPassword hashes and stores a new password for an admin, if non-empty.
// An empty password on update means "do not change".
func (s *Store) setPassword(adminID, password string) error {
	if password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.pwMu.Lock()
	s.passwords[adminID] = hash
	s.pwMu.Unlock()
	return nil
}

// deletePartyVeto refuses to remove a party that still has candidates.
func (s *Store) deletePartyVeto(partyID string) error {
	for _, cand := range s.candidates.list(nil) {
		if cand.PartidoID == partyID {
			return errConflict{msg: "No se puede eliminar el partido porque tiene candidatos asociados"}
		}
	}
	return nil
}
