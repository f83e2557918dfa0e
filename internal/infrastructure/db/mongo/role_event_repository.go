package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// RoleEventRepository appends admin-flag changes to the role_events audit
// collection.
type RoleEventRepository struct {
	col *mongo.Collection
}

func NewRoleEventRepository(db *mongo.Database) ports.RoleEventRepository {
	return &RoleEventRepository{col: db.Collection("role_events")}
}

func (r *RoleEventRepository) InsertRoleEvent(ctx context.Context, event *domain.RoleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":     event.UserID,
		"variant":     string(event.Variant),
		"is_admin":    event.IsAdmin,
		"occurred_at": event.OccurredAt.UTC(),
	}
	if event.ActorID != "" {
		doc["actor_id"] = event.ActorID
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
