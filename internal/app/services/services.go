package services

import (
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/auth"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/cache"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/email"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/search"
)

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repos        *repositories.Repositories
	Tokens       TokenIssuer
	Hasher       auth.PasswordHasher
	Email        email.EmailService
	Cache        cache.LeaderboardCache
	Indexer      search.ProjectIndexer
	Notifier     Notifier
	Gamification GamificationConfig
	Logger       zerolog.Logger
}

// Services holds all the service instances
type Services struct {
	Auth         AuthService
	Profile      ProfileService
	Course       CourseService
	Leaderboard  LeaderboardService
	Achievement  AchievementService
	Project      ProjectService
	Subscription SubscriptionService
	Quiz         QuizService
}

// NewServices wires every service
func NewServices(d Dependencies) *Services {
	r := d.Repos
	rewards := NewRewardRecorder(r.ActivityRepository, d.Cache, d.Notifier, d.Logger)

	achievements := NewAchievementService(
		r.UserRepository, r.ProfileRepository, r.CourseRepository, r.ProjectRepository,
		r.AchievementRepository, rewards, d.Gamification, d.Logger,
	)

	return &Services{
		Auth: NewAuthService(r.UserRepository, r.ProfileRepository, d.Hasher, d.Tokens, d.Email, rewards, d.Logger),
		Profile: NewProfileService(
			r.UserRepository, r.ProfileRepository, r.ProjectRepository, r.AchievementRepository,
			r.ActivityRepository, achievements, rewards, d.Gamification, d.Logger,
		),
		Course:       NewCourseService(r.CourseRepository, achievements, rewards, d.Gamification, d.Logger),
		Leaderboard:  NewLeaderboardService(r.LeaderboardRepository, d.Cache, d.Logger),
		Achievement:  achievements,
		Project:      NewProjectService(r.ProjectRepository, r.UserRepository, d.Indexer, achievements, rewards, d.Logger),
		Subscription: NewSubscriptionService(r.SubscriptionRepository, d.Email, d.Logger),
		Quiz:         NewQuizService(r.QuizRepository, r.CourseRepository, d.Logger),
	}
}
