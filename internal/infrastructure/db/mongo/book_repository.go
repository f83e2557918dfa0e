package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

var _ ports.BookRepository = (*BookRepository)(nil)

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type bookDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Title       string             `bson:"title"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description,omitempty"`
	Image       string             `bson:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newBookDocument(b *domain.Book) bookDocument {
	return bookDocument{
		Name:        b.Name,
		Title:       b.Title,
		Category:    b.Category,
		Price:       b.Price,
		Description: b.Description,
		Image:       b.Image,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (d *bookDocument) toDomain() *domain.Book {
	return &domain.Book{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Title:       d.Title,
		Category:    d.Category,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *BookRepository) List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	books := make([]*domain.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toDomain())
	}
	return books, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := parseID(id, domain.ErrBookNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newBookDocument(b)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return doc.toDomain(), nil
}

// Update overwrites the editable fields and keeps created_at.
func (r *BookRepository) Update(ctx context.Context, id string, b *domain.Book) (*domain.Book, error) {
	oid, err := parseID(id, domain.ErrBookNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"name":        b.Name,
		"title":       b.Title,
		"category":    b.Category,
		"price":       b.Price,
		"description": b.Description,
		"image":       b.Image,
		"updated_at":  b.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, domain.ErrBookNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	return err
}
