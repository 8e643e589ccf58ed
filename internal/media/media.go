// Package media holds the session's playable audio resources. Each resource
// is addressable by URL until it is revoked.
package media

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the path under which resources are served.
const URLPrefix = "/v1/media/"

// Resource is one stored audio buffer.
type Resource struct {
	ID          string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// URL returns the path the resource is served at.
func (r Resource) URL() string {
	return URL(r.ID)
}

// URL returns the path for a resource id.
func URL(id string) string {
	return URLPrefix + id
}

// Store is an in-memory, concurrency-safe resource table.
type Store struct {
	mu        sync.RWMutex
	resources map[string]Resource
	revoked   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{resources: make(map[string]Resource)}
}

// Put stores data under a new id.
func (s *Store) Put(data []byte, contentType string) Resource {
	r := Resource{
		ID:          uuid.New().String(),
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.resources[r.ID] = r
	s.mu.Unlock()

	return r
}

// Get returns the resource with the given id.
func (s *Store) Get(id string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	return r, ok
}

// Revoke releases a resource. It reports false if the id was not live.
func (s *Store) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[id]; !ok {
		return false
	}
	delete(s.resources, id)
	s.revoked++
	return true
}

// Len returns the number of live resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// Revoked returns how many resources have been released.
func (s *Store) Revoked() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked
}
