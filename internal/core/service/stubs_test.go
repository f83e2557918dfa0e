package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	findErr error // if set, FindByID returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	return cloneUser(u), nil
}

// seed stores a user directly, bypassing the service.
func (r *stubUserRepo) seed(id, email string, isAdmin bool) *domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &domain.User{ID: id, Fullname: strings.Split(email, "@")[0], Email: email, IsAdmin: isAdmin}
	r.byID[id] = u
	return u.Identity()
}

type stubRoleEvents struct {
	events []*domain.RoleEvent
	err    error
}

func (s *stubRoleEvents) InsertRoleEvent(_ context.Context, e *domain.RoleEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

type stubBookRepo struct {
	byID   map[string]*domain.Book
	nextID int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{byID: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) List(_ context.Context, f domain.BookFilter) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, b := range r.byID {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.nextID++
	clone := *b
	clone.ID = fmt.Sprintf("book-%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) Update(_ context.Context, id string, b *domain.Book) (*domain.Book, error) {
	existing, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	clone.ID = id
	clone.CreatedAt = existing.CreatedAt
	r.byID[id] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubPurchaseRepo struct {
	created []*domain.Purchase
}

func (r *stubPurchaseRepo) Create(_ context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	clone := *p
	clone.ID = fmt.Sprintf("purchase-%d", len(r.created)+1)
	r.created = append(r.created, &clone)
	out := clone
	return &out, nil
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func (d *stubDedup) Claim(_ context.Context, key string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
