package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	ProfileRepository      *ProfileRepository
	CourseRepository       *CourseRepository
	ProjectRepository      *ProjectRepository
	SubscriptionRepository *SubscriptionRepository
	LeaderboardRepository  *LeaderboardRepository

	AchievementRepository *AchievementRepository
	ActivityRepository    *ActivityRepository
	QuizRepository        *QuizRepository
}

// NewRepositories initializes the relational and document repositories
func NewRepositories(pool *pgxpool.Pool, database *mongo.Database) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pool),
		ProfileRepository:      NewProfileRepository(pool),
		CourseRepository:       NewCourseRepository(pool),
		ProjectRepository:      NewProjectRepository(pool),
		SubscriptionRepository: NewSubscriptionRepository(pool),
		LeaderboardRepository:  NewLeaderboardRepository(pool),

		AchievementRepository: NewAchievementRepository(database),
		ActivityRepository:    NewActivityRepository(database),
		QuizRepository:        NewQuizRepository(database),
	}
}
