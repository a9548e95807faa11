// Package store holds the client-side resource collection.
//
// ResourceStore is the single owner of the ordered resource list. Readers
// get copies; writers go through Replace, Upsert, Prepend, Remove and Patch,
// each of which is applied atomically under a mutex. Subscribers are told
// about every mutation after it has been applied.
package store

import (
	"sync"

	"github.com/dmitrijs2005/memokeeper/internal/client/models"
)

type EventKind string

const (
	EventReplaced  EventKind = "replaced"
	EventUpserted  EventKind = "upserted"
	EventPrepended EventKind = "prepended"
	EventRemoved   EventKind = "removed"
	EventPatched   EventKind = "patched"
)

// Event describes one applied mutation. IDs are the resources it touched.
type Event struct {
	Kind EventKind
	IDs  []models.ResourceID
	Len  int
}

type ResourceStore struct {
	mu        sync.RWMutex
	resources []models.Resource

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func NewResourceStore() *ResourceStore {
	return &ResourceStore{subs: make(map[int]func(Event))}
}

// Snapshot returns a copy of the collection.
func (s *ResourceStore) Snapshot() []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

func (s *ResourceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

func (s *ResourceStore) Get(id models.ResourceID) (models.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.resources[i], true
	}
	return models.Resource{}, false
}

// Replace swaps the whole collection for list.
func (s *ResourceStore) Replace(list []models.Resource) {
	next := make([]models.Resource, len(list))
	copy(next, list)

	s.mu.Lock()
	s.resources = next
	n := len(next)
	s.mu.Unlock()

	s.publish(Event{Kind: EventReplaced, IDs: ids(list), Len: n})
}

// Upsert updates entries whose ID is already present in place and appends
// the rest in list order. Nothing is removed.
func (s *ResourceStore) Upsert(list []models.Resource) {
	s.mu.Lock()
	for _, r := range list {
		if i := s.indexOf(r.ID); i >= 0 {
			s.resources[i] = r
		} else {
			s.resources = append(s.resources, r)
		}
	}
	n := len(s.resources)
	s.mu.Unlock()

	s.publish(Event{Kind: EventUpserted, IDs: ids(list), Len: n})
}

// Prepend puts list, in its order, in front of the current entries.
func (s *ResourceStore) Prepend(list ...models.Resource) {
	if len(list) == 0 {
		return
	}

	s.mu.Lock()
	next := make([]models.Resource, 0, len(list)+len(s.resources))
	next = append(next, list...)
	next = append(next, s.resources...)
	s.resources = next
	n := len(next)
	s.mu.Unlock()

	s.publish(Event{Kind: EventPrepended, IDs: ids(list), Len: n})
}

// Remove drops the entry with id. It reports whether one was present.
func (s *ResourceStore) Remove(id models.ResourceID) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]models.Resource, 0, len(s.resources)-1)
	next = append(next, s.resources[:i]...)
	next = append(next, s.resources[i+1:]...)
	s.resources = next
	n := len(next)
	s.mu.Unlock()

	s.publish(Event{Kind: EventRemoved, IDs: []models.ResourceID{id}, Len: n})
	return true
}

// Patch replaces the entry with r.ID in place. It reports whether one was
// present; a missing entry leaves the collection untouched.
func (s *ResourceStore) Patch(r models.Resource) bool {
	s.mu.Lock()
	i := s.indexOf(r.ID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.resources[i] = r
	n := len(s.resources)
	s.mu.Unlock()

	s.publish(Event{Kind: EventPatched, IDs: []models.ResourceID{r.ID}, Len: n})
	return true
}

// Subscribe registers fn for every future mutation and returns a function
// that unregisters it. fn runs on the goroutine that made the mutation and
// must not block.
func (s *ResourceStore) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *ResourceStore) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// indexOf must be called with mu held.
func (s *ResourceStore) indexOf(id models.ResourceID) int {
	for i := range s.resources {
		if s.resources[i].ID == id {
			return i
		}
	}
	return -1
}

func ids(list []models.Resource) []models.ResourceID {
	out := make([]models.ResourceID, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
