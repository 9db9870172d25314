package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/websocket"
)

// CourseService handles the catalogue and enrollments
type CourseService interface {
	ListCourses(ctx context.Context, userID int64, filter models.CourseFilter) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error)
	MyCourses(ctx context.Context, userID int64) ([]dto.CourseResponse, error)
	Enroll(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error)
	UpdateProgress(ctx context.Context, userID, courseID int64, progress int) (*dto.CourseResponse, error)
	Complete(ctx context.Context, userID, courseID int64) (*dto.CompleteCourseResponse, error)
}

type courseServiceImpl struct {
	courseRepo   repositories.ICourseRepository
	achievements AchievementService
	rewards      *RewardRecorder
	config       GamificationConfig
	logger       zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	achievements AchievementService,
	rewards *RewardRecorder,
	config GamificationConfig,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo:   courseRepo,
		achievements: achievements,
		rewards:      rewards,
		config:       config,
		logger:       logger.With().Str("service", "course").Logger(),
	}
}

// ListCourses returns active courses with the caller's enrollment state
func (s *courseServiceImpl) ListCourses(ctx context.Context, userID int64, filter models.CourseFilter) ([]dto.CourseResponse, error) {
	if filter.Level != "" && !models.CourseLevel(filter.Level).IsValid() {
		return nil, apperrors.NewValidationError("level", "level must be one of: beginner, intermediate, advanced")
	}

	courses, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	enrollments, err := s.enrollmentsByCourse(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, dto.FromCourse(&courses[i], enrollments[courses[i].ID]))
	}
	return result, nil
}

func (s *courseServiceImpl) enrollmentsByCourse(ctx context.Context, userID int64) (map[int64]*models.UserCourse, error) {
	enrollments, err := s.courseRepo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	byCourse := make(map[int64]*models.UserCourse, len(enrollments))
	for i := range enrollments {
		byCourse[enrollments[i].CourseID] = &enrollments[i]
	}
	return byCourse, nil
}

// GetCourse returns one course with the caller's enrollment state
func (s *courseServiceImpl) GetCourse(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.courseRepo.GetEnrollment(ctx, userID, courseID)
	if err != nil && !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("error loading enrollment: %w", err)
	}
	resp := dto.FromCourse(course, enrollment)
	return &resp, nil
}

// MyCourses returns the caller's enrollments joined with course data
func (s *courseServiceImpl) MyCourses(ctx context.Context, userID int64) ([]dto.CourseResponse, error) {
	enrollments, err := s.courseRepo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	result := make([]dto.CourseResponse, 0, len(enrollments))
	for i := range enrollments {
		result = append(result, dto.FromEnrollment(&enrollments[i]))
	}
	return result, nil
}

// Enroll starts a course at progress 0
func (s *courseServiceImpl) Enroll(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, apperrors.ErrCourseInactive
	}

	if _, err := s.courseRepo.GetEnrollment(ctx, userID, courseID); err == nil {
		return nil, apperrors.ErrAlreadyEnrolled
	} else if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}

	enrollment := &models.UserCourse{UserID: userID, CourseID: courseID, Progress: 0}
	if err := s.courseRepo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("User enrolled in course")
	metrics.Enrollments.Inc()
	s.rewards.logActivity(ctx, userID, models.ActivityCourseEnrolled, bson.M{"courseId": courseID, "title": course.Title})
	s.evaluateAchievements(ctx, userID)

	resp := dto.FromCourse(course, enrollment)
	return &resp, nil
}

// UpdateProgress stores a clamped progress value. Completed enrollments keep 100.
func (s *courseServiceImpl) UpdateProgress(ctx context.Context, userID, courseID int64, progress int) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.courseRepo.UpdateProgress(ctx, userID, courseID, models.ClampProgress(progress))
	if err != nil {
		return nil, err
	}
	resp := dto.FromCourse(course, enrollment)
	return &resp, nil
}

// Complete marks an enrollment completed and awards the course XP exactly once
func (s *courseServiceImpl) Complete(ctx context.Context, userID, courseID int64) (*dto.CompleteCourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	completion, err := s.courseRepo.Complete(ctx, userID, courseID, s.config.LevelThreshold)
	if err != nil {
		return nil, err
	}
	award := completion.Award

	s.logger.Info().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Int("points", award.PointsAdded).
		Int("level", award.Level).
		Msg("Course completed")

	metrics.CourseCompletions.Inc()
	s.rewards.logActivity(ctx, userID, models.ActivityCourseCompleted, bson.M{
		"courseId": courseID,
		"title":    course.Title,
		"xp":       award.PointsAdded,
	})
	s.rewards.notifier.Notify(userID, websocket.EventCourseCompleted, map[string]interface{}{
		"courseId":    courseID,
		"title":       course.Title,
		"xp":          award.PointsAdded,
		"totalPoints": award.TotalPoints,
	})
	s.rewards.pointsChanged(ctx, award, "course")

	resp := &dto.CompleteCourseResponse{
		Course:          dto.FromCourse(course, completion.Enrollment),
		PointsAwarded:   award.PointsAdded,
		TotalPoints:     award.TotalPoints,
		Level:           award.Level,
		LeveledUp:       award.LeveledUp(),
		NewAchievements: s.evaluateAchievements(ctx, userID),
	}
	return resp, nil
}

func (s *courseServiceImpl) evaluateAchievements(ctx context.Context, userID int64) []models.Achievement {
	granted, err := s.achievements.Evaluate(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Achievement evaluation failed")
	}
	if granted == nil {
		granted = []models.Achievement{}
	}
	return granted
}
