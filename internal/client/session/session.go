// Package session is the client-side cache of the logged-in identity.
//
// The identity is stored as JSON under the key "user". Its presence is the
// only "logged in" signal; the client never inspects token expiry.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// Key is the storage key the identity lives under.
const Key = "user"

// Backend is a small key/value store. Get reports ok=false for a missing key.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Store wraps a Backend with typed access and change notification.
type Store struct {
	backend Backend

	mu     sync.Mutex
	nextID int
	subs   map[int]func(*domain.Identity)
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, subs: make(map[int]func(*domain.Identity))}
}

// Get returns the cached identity, or nil when logged out.
func (s *Store) Get() (*domain.Identity, error) {
	raw, ok, err := s.backend.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &id, nil
}

// Set replaces the cached identity. A nil identity is the same as Clear.
func (s *Store) Set(id *domain.Identity) error {
	if id == nil {
		return s.Clear()
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Set(Key, raw); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.notify(id)
	return nil
}

// Clear logs the client out.
func (s *Store) Clear() error {
	if err := s.backend.Delete(Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.notify(nil)
	return nil
}

// Subscribe registers fn to run after every Set or Clear. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(id *domain.Identity) {
	s.mu.Lock()
	fns := make([]func(*domain.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		var snapshot *domain.Identity
		if id != nil {
			c := *id
			snapshot = &c
		}
		fn(snapshot)
	}
}
