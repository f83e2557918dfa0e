package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const collectionPurchases = "purchases"

type PurchaseRepository struct {
	col *mongo.Collection
}

var _ ports.PurchaseRepository = (*PurchaseRepository)(nil)

func NewPurchaseRepository(db *mongo.Database) *PurchaseRepository {
	return &PurchaseRepository{col: db.Collection(collectionPurchases)}
}

type purchaseDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookID    string             `bson:"book_id"`
	UserID    string             `bson:"user_id"`
	BookName  string             `bson:"book_name"`
	Amount    float64            `bson:"amount"`
	CardLast4 string             `bson:"card_last4"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := purchaseDocument{
		ID:        primitive.NewObjectID(),
		BookID:    p.BookID,
		UserID:    p.UserID,
		BookName:  p.BookName,
		Amount:    p.Amount,
		CardLast4: p.CardLast4,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	stored := *p
	stored.ID = doc.ID.Hex()
	return &stored, nil
}

func (r *PurchaseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
