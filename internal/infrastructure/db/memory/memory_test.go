package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	created, err := users.Create(ctx, &domain.User{Email: "ann@example.com"})
	if err != nil || created.ID == "" {
		t.Fatalf("Create: %+v, %v", created, err)
	}
	if _, err := users.Create(ctx, &domain.User{Email: "ann@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()
	created, _ := users.Create(ctx, &domain.User{Email: "ann@example.com"})

	created.IsAdmin = true
	fresh, _ := users.FindByID(ctx, created.ID)
	if fresh.IsAdmin {
		t.Fatalf("mutating a returned user must not change the store")
	}

	updated, err := users.SetAdmin(ctx, created.ID, true)
	if err != nil || !updated.IsAdmin {
		t.Fatalf("SetAdmin: %+v, %v", updated, err)
	}
	if _, err := users.SetAdmin(ctx, "nope", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBookRepository_CRUD(t *testing.T) {
	books := NewStore().Books()
	ctx := context.Background()
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	b, _ := books.Create(ctx, &domain.Book{Name: "go", Category: "free", CreatedAt: created})
	_, _ = books.Create(ctx, &domain.Book{Name: "rust", Category: "paid", CreatedAt: created.Add(time.Hour)})

	free, _ := books.List(ctx, domain.BookFilter{Category: "free"})
	if len(free) != 1 || free[0].ID != b.ID {
		t.Fatalf("unexpected filter result: %+v", free)
	}

	updated, err := books.Update(ctx, b.ID, &domain.Book{Name: "go2", Category: "free"})
	if err != nil || updated.Name != "go2" || !updated.CreatedAt.Equal(created) {
		t.Fatalf("Update: %+v, %v", updated, err)
	}

	if err := books.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := books.FindByID(ctx, b.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestDedup_ExpiresAfterTTL(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	dedup := store.Dedup(time.Hour)
	ctx := context.Background()

	if ok, _ := dedup.Claim(ctx, "u:k"); !ok {
		t.Fatal("first claim must succeed")
	}
	if ok, _ := dedup.Claim(ctx, "u:k"); ok {
		t.Fatal("second claim must be rejected")
	}
	now = now.Add(2 * time.Hour)
	if ok, _ := dedup.Claim(ctx, "u:k"); !ok {
		t.Fatal("claim must succeed after ttl")
	}
}
