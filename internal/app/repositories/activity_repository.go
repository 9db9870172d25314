package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/db"
)

// IActivityRepository defines the activity feed store
type IActivityRepository interface {
	Log(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.Activity, error)
}

// ActivityRepository stores feed entries in MongoDB
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(database *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: database.Collection(db.ActivitiesCollection)}
}

// Log appends an entry to the feed
func (r *ActivityRepository) Log(ctx context.Context, a *models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("error inserting activity: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// ListRecent returns the latest entries of a user's feed
func (r *ActivityRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("error decoding activities: %w", err)
	}
	return activities, nil
}
