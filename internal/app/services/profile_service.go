package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/validation"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ProfileService manages profiles, the activity feed and talent search
type ProfileService interface {
	GetMyProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, userID int64) (*dto.PublicProfileResponse, error)
	UpdateMyProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error)
	GetActivity(ctx context.Context, userID int64, limit int) ([]models.Activity, error)
	SearchTalent(ctx context.Context, skill string, page, size int) ([]dto.TalentResponse, dto.PaginationInfo, error)
}

type profileServiceImpl struct {
	userRepo        repositories.IUserRepository
	profileRepo     repositories.IProfileRepository
	projectRepo     repositories.IProjectRepository
	achievementRepo repositories.IAchievementRepository
	activityRepo    repositories.IActivityRepository
	achievements    AchievementService
	rewards         *RewardRecorder
	config          GamificationConfig
	logger          zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	projectRepo repositories.IProjectRepository,
	achievementRepo repositories.IAchievementRepository,
	activityRepo repositories.IActivityRepository,
	achievements AchievementService,
	rewards *RewardRecorder,
	config GamificationConfig,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		projectRepo:     projectRepo,
		achievementRepo: achievementRepo,
		activityRepo:    activityRepo,
		achievements:    achievements,
		rewards:         rewards,
		config:          config,
		logger:          logger.With().Str("service", "profile").Logger(),
	}
}

func (s *profileServiceImpl) load(ctx context.Context, userID int64) (*models.User, *models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// GetMyProfile returns the owner's full view
func (s *profileServiceImpl) GetMyProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProfile(user, profile)
	return &resp, nil
}

// GetPublicProfile returns the public view of an active user
func (s *profileServiceImpl) GetPublicProfile(ctx context.Context, userID int64) (*dto.PublicProfileResponse, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}

	resp := dto.FromPublicProfile(user, profile)

	if resp.ProjectsCount, err = s.projectRepo.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	if resp.AchievementsCount, err = s.achievementRepo.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count achievements: %w", err)
	}
	return &resp, nil
}

// applyProfileUpdate copies the non-nil request fields onto the profile and
// returns the names of the changed fields
func applyProfileUpdate(p *models.Profile, req *dto.UpdateProfileRequest) []string {
	var changed []string
	setText := func(name string, dst **string, src *string) {
		if src == nil {
			return
		}
		*dst = helpers.TrimmedOrNil(src)
		changed = append(changed, name)
	}
	setInt := func(name string, dst **int, src *int) {
		if src == nil {
			return
		}
		v := *src
		*dst = &v
		changed = append(changed, name)
	}

	setText("university", &p.University, req.University)
	setInt("year", &p.Year, req.Year)
	setText("major", &p.Major, req.Major)
	if req.Skills != nil {
		p.Skills = helpers.NormalizeList(*req.Skills)
		changed = append(changed, "skills")
	}
	if req.CareerInterests != nil {
		p.CareerInterests = helpers.NormalizeList(*req.CareerInterests)
		changed = append(changed, "careerInterests")
	}
	setText("linkedinUrl", &p.LinkedInURL, req.LinkedInURL)
	setText("githubUrl", &p.GithubURL, req.GithubURL)
	setText("portfolioUrl", &p.PortfolioURL, req.PortfolioURL)
	setText("company", &p.Company, req.Company)
	setText("position", &p.Position, req.Position)
	setText("industry", &p.Industry, req.Industry)
	setInt("experience", &p.Experience, req.Experience)
	setText("bio", &p.Bio, req.Bio)
	return changed
}

// UpdateMyProfile applies a partial update, grants the one-time completion
// bonus and evaluates achievements
func (s *profileServiceImpl) UpdateMyProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if err := validation.ValidateFullName(name); err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdateFullName(ctx, userID, name); err != nil {
			return nil, err
		}
		user.FullName = name
		changed = append(changed, "fullName")
	}

	changed = append(changed, applyProfileUpdate(profile, req)...)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	resp := &dto.UpdateProfileResponse{NewAchievements: []models.Achievement{}}

	bonus := s.config.ProfileCompletionBonus
	if bonus > 0 && !profile.ProfileBonusAwarded && profile.IsComplete(user.RoleType) {
		award, awarded, err := s.profileRepo.AwardCompletionBonus(ctx, userID, bonus, s.config.LevelThreshold)
		if err != nil {
			return nil, fmt.Errorf("error awarding profile bonus: %w", err)
		}
		if awarded {
			profile.ProfileBonusAwarded = true
			profile.Points = award.TotalPoints
			profile.Level = award.Level
			resp.BonusAwarded = bonus
			s.rewards.pointsChanged(ctx, award, "profile_bonus")
			s.logger.Info().Int64("userID", userID).Int("points", bonus).Msg("Profile completion bonus awarded")
		}
	}

	s.rewards.logActivity(ctx, userID, models.ActivityProfileUpdated, bson.M{"fields": changed})

	granted, err := s.achievements.Evaluate(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Achievement evaluation failed after profile update")
	}
	if len(granted) > 0 {
		resp.NewAchievements = granted
		// badge points changed the totals
		if fresh, err := s.profileRepo.GetByUserID(ctx, userID); err == nil {
			profile = fresh
		}
	}

	resp.Profile = dto.FromProfile(user, profile)
	return resp, nil
}

// GetActivity returns the newest feed entries of a user
func (s *profileServiceImpl) GetActivity(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	activities, err := s.activityRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading activity: %w", err)
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// SearchTalent finds students listing a skill, best ranked first
func (s *profileServiceImpl) SearchTalent(ctx context.Context, skill string, page, size int) ([]dto.TalentResponse, dto.PaginationInfo, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, dto.PaginationInfo{}, apperrors.NewValidationError("skill", "skill is required")
	}

	page, size = helpers.NormalizePage(page, size)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	rows, total, err := s.profileRepo.SearchBySkill(ctx, skill, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error searching talent: %w", err)
	}

	talents := make([]dto.TalentResponse, 0, len(rows))
	for _, row := range rows {
		talents = append(talents, dto.TalentResponse{
			UserID:     row.User.ID,
			FullName:   row.User.FullName,
			University: row.Profile.University,
			Major:      row.Profile.Major,
			Skills:     helpers.NormalizeList(row.Profile.Skills),
			Points:     row.Profile.Points,
			Level:      row.Profile.Level,
		})
	}
	return talents, helpers.NewPaginationInfo(total, page, size), nil
}
