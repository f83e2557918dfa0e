package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	// Claim records key and reports whether it was unseen.
	Claim(ctx context.Context, key string) (bool, error)
}

// PurchaseService implements the checkout stub.
type PurchaseService struct {
	books     ports.BookRepository
	purchases ports.PurchaseRepository
	users     ports.UserRepository
	dedup     DedupChecker
	log       zerolog.Logger
	now       func() time.Time
}

// NewPurchaseService returns the checkout stub. dedup may be nil, in which case
// Idempotency-Key is ignored.
func NewPurchaseService(
	books ports.BookRepository,
	purchases ports.PurchaseRepository,
	users ports.UserRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) *PurchaseService {
	return &PurchaseService{
		books:     books,
		purchases: purchases,
		users:     users,
		dedup:     dedup,
		log:       log,
		now:       time.Now,
	}
}

// Purchase validates the card form, looks up the book and records a completed
// purchase. No payment processor is contacted.
func (s *PurchaseService) Purchase(ctx context.Context, actor *domain.Identity, bookID string, in ports.PurchaseInput) (*domain.Purchase, error) {
	// 1. Any logged-in user may buy.
	buyer, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}
	if !domain.CanViewCourseCatalog(buyer) {
		return nil, fmt.Errorf("purchase: %w", domain.ErrForbidden)
	}

	// 2. Card form.
	digits, err := s.validateCard(in)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// 3. Book must exist before the idempotency key is spent.
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	// 4. Idempotency: a replayed key for the same buyer is rejected.
	if in.IdempotencyKey != "" && s.dedup != nil {
		fresh, err := s.dedup.Claim(ctx, buyer.ID+":"+in.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", buyer.ID).Msg("dedup check failed, processing anyway")
		} else if !fresh {
			metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrDuplicatePurchase
		}
	}

	purchase := &domain.Purchase{
		BookID:    book.ID,
		UserID:    buyer.ID,
		BookName:  book.Name,
		Amount:    book.Price,
		CardLast4: digits[len(digits)-4:],
		Status:    domain.PurchaseCompleted,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.purchases.Create(ctx, purchase)
	if err != nil {
		s.log.Error().Err(err).Str("book_id", book.ID).Msg("failed to record purchase")
		return nil, fmt.Errorf("purchase: %w", err)
	}

	metrics.PurchasesTotal.WithLabelValues("completed").Inc()
	s.log.Info().
		Str("purchase_id", created.ID).
		Str("book_id", book.ID).
		Str("user_id", buyer.ID).
		Float64("amount", book.Price).
		Msg("purchase completed")

	return created, nil
}

// validateCard returns the card digits or a validation error.
func (s *PurchaseService) validateCard(in ports.PurchaseInput) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber)
	if err := validate.Var(digits, "credit_card"); err != nil {
		return "", fmt.Errorf("%w: card number is invalid", domain.ErrValidation)
	}

	if err := validate.Var(in.CVV, "number,min=3,max=4"); err != nil {
		return "", fmt.Errorf("%w: cvv must be 3 or 4 digits", domain.ErrValidation)
	}

	expiry, err := time.Parse("01/06", strings.TrimSpace(in.Expiry))
	if err != nil {
		return "", fmt.Errorf("%w: expiry must be MM/YY", domain.ErrValidation)
	}
	// Cards are valid through the last day of the expiry month.
	if !s.now().Before(expiry.AddDate(0, 1, 0)) {
		return "", fmt.Errorf("%w: card has expired", domain.ErrValidation)
	}

	return digits, nil
}
