package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/websocket"
)

// AchievementService grants badges from the template catalogue
type AchievementService interface {
	// Evaluate grants every template the user now satisfies and returns the
	// new ones. Running it again without state changes grants nothing.
	Evaluate(ctx context.Context, userID int64) ([]models.Achievement, error)
	ListMine(ctx context.Context, userID int64) ([]models.Achievement, error)
	ListTemplates(ctx context.Context, userID int64) ([]dto.AchievementTemplateResponse, error)
	// SweepAll evaluates every profile and returns how many badges were granted
	SweepAll(ctx context.Context) (int, error)
}

type achievementServiceImpl struct {
	userRepo        repositories.IUserRepository
	profileRepo     repositories.IProfileRepository
	courseRepo      repositories.ICourseRepository
	projectRepo     repositories.IProjectRepository
	achievementRepo repositories.IAchievementRepository
	rewards         *RewardRecorder
	config          GamificationConfig
	templates       []AchievementTemplate
	logger          zerolog.Logger
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	courseRepo repositories.ICourseRepository,
	projectRepo repositories.IProjectRepository,
	achievementRepo repositories.IAchievementRepository,
	rewards *RewardRecorder,
	config GamificationConfig,
	logger zerolog.Logger,
) AchievementService {
	return &achievementServiceImpl{
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		courseRepo:      courseRepo,
		projectRepo:     projectRepo,
		achievementRepo: achievementRepo,
		rewards:         rewards,
		config:          config,
		templates:       AchievementTemplates,
		logger:          logger.With().Str("service", "achievement").Logger(),
	}
}

// snapshot collects the metric values of one user
func (s *achievementServiceImpl) snapshot(ctx context.Context, userID int64) (map[string]int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrolled, completed, err := s.courseRepo.CountEnrollments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	projects, err := s.projectRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	complete := 0
	if profile.IsComplete(user.RoleType) {
		complete = 1
	}

	return map[string]int{
		MetricSkillsCount:          len(profile.Skills),
		MetricCareerInterestsCount: len(profile.CareerInterests),
		MetricSocialLinksCount:     profile.SocialLinksCount(),
		MetricCompletedCourses:     completed,
		MetricEnrolledCourses:      enrolled,
		MetricProjectsCount:        projects,
		MetricLevel:                profile.Level,
		MetricPoints:               profile.Points,
		MetricProfileComplete:      complete,
	}, nil
}

// Evaluate implements AchievementService
func (s *achievementServiceImpl) Evaluate(ctx context.Context, userID int64) ([]models.Achievement, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.achievementRepo.TitlesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned achievements: %w", err)
	}

	granted := []models.Achievement{}
	// Badge points can unlock level based badges, so repeat until nothing changes
	for {
		progressed := false
		for _, tpl := range s.templates {
			if _, ok := owned[tpl.Title]; ok || !tpl.Matches(snap) {
				continue
			}

			achievement, award, err := s.grant(ctx, userID, tpl)
			owned[tpl.Title] = struct{}{}
			if errors.Is(err, apperrors.ErrAchievementAlreadyGranted) {
				continue
			}
			if err != nil {
				return granted, err
			}

			granted = append(granted, *achievement)
			progressed = true
			if award != nil {
				snap[MetricPoints] = award.TotalPoints
				snap[MetricLevel] = award.Level
			}
		}
		if !progressed {
			break
		}
	}

	if len(granted) > 0 {
		s.logger.Info().Int64("userID", userID).Int("count", len(granted)).Msg("Achievements granted")
	}
	return granted, nil
}

func (s *achievementServiceImpl) grant(ctx context.Context, userID int64, tpl AchievementTemplate) (*models.Achievement, *models.PointsAward, error) {
	achievement := &models.Achievement{
		UserID:      userID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Type:        tpl.Type,
		Rarity:      tpl.Rarity,
		Points:      tpl.Points,
		Icon:        tpl.Icon,
		Criteria:    bson.M{"metric": tpl.Metric, "min": tpl.Min},
		EarnedAt:    time.Now().UTC(),
	}
	if err := s.achievementRepo.Insert(ctx, achievement); err != nil {
		return nil, nil, err
	}

	// The badge only counts once its reward is credited; otherwise it is
	// removed so the next evaluation grants it again.
	var award *models.PointsAward
	if tpl.Points > 0 {
		a, err := s.profileRepo.AddPoints(ctx, userID, tpl.Points, s.config.LevelThreshold)
		if err != nil {
			if delErr := s.achievementRepo.Delete(ctx, achievement.ID); delErr != nil {
				s.logger.Error().Err(delErr).Int64("userID", userID).Str("title", tpl.Title).
					Msg("Failed to remove achievement after points award failed")
			}
			return nil, nil, fmt.Errorf("award achievement points: %w", err)
		}
		award = &a
	}

	metrics.AchievementsUnlocked.WithLabelValues(string(tpl.Rarity)).Inc()
	s.rewards.logActivity(ctx, userID, models.ActivityAchievementUnlocked, bson.M{
		"title":  tpl.Title,
		"rarity": tpl.Rarity,
		"points": tpl.Points,
	})
	s.rewards.notifier.Notify(userID, websocket.EventAchievementUnlocked, achievement)
	if award != nil {
		s.rewards.pointsChanged(ctx, *award, "achievement")
	}
	return achievement, award, nil
}

// ListMine implements AchievementService
func (s *achievementServiceImpl) ListMine(ctx context.Context, userID int64) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	return achievements, nil
}

// ListTemplates implements AchievementService
func (s *achievementServiceImpl) ListTemplates(ctx context.Context, userID int64) ([]dto.AchievementTemplateResponse, error) {
	owned, err := s.achievementRepo.TitlesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned achievements: %w", err)
	}

	result := make([]dto.AchievementTemplateResponse, 0, len(s.templates))
	for _, tpl := range s.templates {
		_, earned := owned[tpl.Title]
		result = append(result, dto.AchievementTemplateResponse{
			Title:       tpl.Title,
			Description: tpl.Description,
			Type:        tpl.Type,
			Rarity:      tpl.Rarity,
			Points:      tpl.Points,
			Icon:        tpl.Icon,
			Metric:      tpl.Metric,
			Min:         tpl.Min,
			Earned:      earned,
		})
	}
	return result, nil
}

// SweepAll implements AchievementService. A failing user is logged and skipped.
func (s *achievementServiceImpl) SweepAll(ctx context.Context) (int, error) {
	userIDs, err := s.profileRepo.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list profiles: %w", err)
	}

	total := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		granted, err := s.Evaluate(ctx, id)
		total += len(granted)
		if err != nil {
			s.logger.Warn().Err(err).Int64("userID", id).Msg("Achievement sweep failed for user")
		}
	}

	s.logger.Info().Int("users", len(userIDs)).Int("granted", total).Msg("Achievement sweep finished")
	return total, nil
}
