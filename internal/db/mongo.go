package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/config"
)

// Collection names
const (
	AchievementsCollection = "achievements"
	ActivitiesCollection   = "activities"
	QuizResultsCollection  = "quiz_results"
)

// MongoDB wraps the client and the application database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to MongoDB and verifies the primary is reachable
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDB{Client: client, Database: client.Database(cfg.Mongo.Database)}, nil
}

// EnsureIndexes creates the indexes the document repositories rely on.
// A user can hold each achievement title only once.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		AchievementsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_user_title"),
			},
		},
		ActivitiesCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("user_recent"),
			},
		},
		QuizResultsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("user_recent"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := m.Database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
