package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// PurchaseInput is the simulated card form. The card is validated and
// discarded; only the last four digits are persisted.
type PurchaseInput struct {
	CardNumber     string
	Expiry         string
	CVV            string
	IdempotencyKey string
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) (*domain.Purchase, error)
}

// PurchaseService runs the checkout stub. It never contacts a payment processor.
type PurchaseService interface {
	Purchase(ctx context.Context, actor *domain.Identity, bookID string, in PurchaseInput) (*domain.Purchase, error)
}
