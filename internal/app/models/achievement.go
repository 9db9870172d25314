package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementType groups achievements by what they reward
type AchievementType string

const (
	AchievementProfile   AchievementType = "profile"
	AchievementLearning  AchievementType = "learning"
	AchievementPortfolio AchievementType = "portfolio"
	AchievementLevel     AchievementType = "level"
)

// Rarity of an achievement badge
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a badge granted to a user, stored in the 'achievements'
// collection. Criteria is kept schemaless so templates can evolve without
// migrating earned documents.
type Achievement struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      int64              `json:"userId" bson:"userId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Type        AchievementType    `json:"type" bson:"type"`
	Rarity      Rarity             `json:"rarity" bson:"rarity"`
	Points      int                `json:"points" bson:"points"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Criteria    bson.M             `json:"criteria,omitempty" bson:"criteria,omitempty"`
	EarnedAt    time.Time          `json:"earnedAt" bson:"earnedAt"`
}

// ActivityType tags entries of the activity feed
type ActivityType string

const (
	ActivityRegistered          ActivityType = "registered"
	ActivityCourseEnrolled      ActivityType = "course_enrolled"
	ActivityCourseCompleted     ActivityType = "course_completed"
	ActivityLevelUp             ActivityType = "level_up"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
	ActivityProfileUpdated      ActivityType = "profile_updated"
	ActivityProjectCreated      ActivityType = "project_created"
)

// Activity is one entry of a user's feed ('activities' collection).
// Metadata differs per type.
type Activity struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    int64              `json:"userId" bson:"userId"`
	Type      ActivityType       `json:"type" bson:"type"`
	Metadata  bson.M             `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// QuizResult stores one career quiz submission ('quiz_results' collection)
type QuizResult struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID              int64              `json:"userId" bson:"userId"`
	Answers             map[string]string  `json:"answers" bson:"answers"`
	Scores              map[string]int     `json:"scores" bson:"scores"`
	RecommendedCategory string             `json:"recommendedCategory" bson:"recommendedCategory"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}
