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
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/dberrors"
)

// IAchievementRepository defines badge persistence
type IAchievementRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Achievement, error)
	TitlesByUser(ctx context.Context, userID int64) (map[string]struct{}, error)
	// Insert fails with ErrAchievementAlreadyGranted on a duplicate title
	Insert(ctx context.Context, achievement *models.Achievement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// AchievementRepository stores achievements in MongoDB
type AchievementRepository struct {
	coll *mongo.Collection
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(database *mongo.Database) *AchievementRepository {
	return &AchievementRepository{coll: database.Collection(db.AchievementsCollection)}
}

// ListByUser returns a user's achievements, newest first
func (r *AchievementRepository) ListByUser(ctx context.Context, userID int64) ([]models.Achievement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earnedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding achievements: %w", err)
	}
	defer cursor.Close(ctx)

	achievements := []models.Achievement{}
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("error decoding achievements: %w", err)
	}
	return achievements, nil
}

// TitlesByUser returns the set of titles a user already holds
func (r *AchievementRepository) TitlesByUser(ctx context.Context, userID int64) (map[string]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"title": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding achievement titles: %w", err)
	}
	defer cursor.Close(ctx)

	titles := map[string]struct{}{}
	for cursor.Next(ctx) {
		var doc struct {
			Title string `bson:"title"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding achievement title: %w", err)
		}
		titles[doc.Title] = struct{}{}
	}
	return titles, cursor.Err()
}

// Insert stores a newly earned achievement
func (r *AchievementRepository) Insert(ctx context.Context, a *models.Achievement) error {
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		if dberrors.IsMongoDuplicateKey(err) {
			return apperrors.ErrAchievementAlreadyGranted
		}
		return fmt.Errorf("error inserting achievement: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// Delete removes an achievement by id; a missing document is not an error
func (r *AchievementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting achievement: %w", err)
	}
	return nil
}

// CountByUser counts a user's achievements
func (r *AchievementRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("error counting achievements: %w", err)
	}
	return int(n), nil
}
