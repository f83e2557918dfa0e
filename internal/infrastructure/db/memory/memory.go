// Package memory provides process-local repositories. They back the API when
// STORE_BACKEND=memory and give HTTP tests real persistence semantics without
// MongoDB or Redis.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu        sync.RWMutex
	seq       int
	users     map[string]*domain.User
	books     map[string]*domain.Book
	events    []domain.RoleEvent
	purchases []domain.Purchase
	claims    map[string]time.Time
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		books:  make(map[string]*domain.Book),
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return prefix + "-" + strconv.Itoa(s.seq)
}

// Users returns the user repository view of s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Books() *BookRepository { return &BookRepository{s: s} }

func (s *Store) RoleEvents() *RoleEventRepository { return &RoleEventRepository{s: s} }

func (s *Store) Purchases() *PurchaseRepository { return &PurchaseRepository{s: s} }

// Dedup returns an idempotency checker whose keys expire after ttl.
func (s *Store) Dedup(ttl time.Duration) *Dedup { return &Dedup{s: s, ttl: ttl} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := *user
	stored.ID = r.s.nextID("user")
	r.s.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	u.UpdatedAt = r.s.now().UTC()
	out := *u
	return &out, nil
}

type BookRepository struct{ s *Store }

func (r *BookRepository) List(_ context.Context, f domain.BookFilter) ([]*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *BookRepository) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	out := *b
	return &out, nil
}

func (r *BookRepository) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *b
	stored.ID = r.s.nextID("book")
	r.s.books[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *BookRepository) Update(_ context.Context, id string, b *domain.Book) (*domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	stored := *b
	stored.ID = id
	stored.CreatedAt = existing.CreatedAt
	r.s.books[id] = &stored
	out := stored
	return &out, nil
}

func (r *BookRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

type RoleEventRepository struct{ s *Store }

func (r *RoleEventRepository) InsertRoleEvent(_ context.Context, e *domain.RoleEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, *e)
	return nil
}

// Events returns a copy of the recorded role changes, oldest first.
func (r *RoleEventRepository) Events() []domain.RoleEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.RoleEvent(nil), r.s.events...)
}

type PurchaseRepository struct{ s *Store }

func (r *PurchaseRepository) Create(_ context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *p
	stored.ID = r.s.nextID("purchase")
	r.s.purchases = append(r.s.purchases, stored)
	out := stored
	return &out, nil
}

type Dedup struct {
	s   *Store
	ttl time.Duration
}

func (d *Dedup) Claim(_ context.Context, key string) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	now := d.s.now()
	if exp, ok := d.s.claims[key]; ok && now.Before(exp) {
		return false, nil
	}
	d.s.claims[key] = now.Add(d.ttl)
	return true, nil
}
