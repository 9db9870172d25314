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

// IQuizRepository defines quiz result persistence
type IQuizRepository interface {
	Insert(ctx context.Context, result *models.QuizResult) error
	Latest(ctx context.Context, userID int64) (*models.QuizResult, error)
}

// QuizRepository stores quiz results in MongoDB
type QuizRepository struct {
	coll *mongo.Collection
}

// NewQuizRepository creates a new QuizRepository
func NewQuizRepository(database *mongo.Database) *QuizRepository {
	return &QuizRepository{coll: database.Collection(db.QuizResultsCollection)}
}

// Insert stores a submission
func (r *QuizRepository) Insert(ctx context.Context, result *models.QuizResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, result)
	if err != nil {
		return fmt.Errorf("error inserting quiz result: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		result.ID = id
	}
	return nil
}

// Latest returns the most recent submission of a user
func (r *QuizRepository) Latest(ctx context.Context, userID int64) (*models.QuizResult, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var result models.QuizResult
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&result); err != nil {
		if dberrors.IsMongoNoDocuments(err) {
			return nil, apperrors.ErrQuizResultNotFound
		}
		return nil, fmt.Errorf("error finding quiz result: %w", err)
	}
	return &result, nil
}
