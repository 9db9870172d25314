package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/search"
)

// ProjectService manages portfolio projects and their search index
type ProjectService interface {
	ListMine(ctx context.Context, userID int64) ([]models.Project, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Project, error)
	Get(ctx context.Context, projectID int64) (*models.Project, error)
	Create(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*models.Project, error)
	Update(ctx context.Context, userID, projectID int64, req *dto.UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, userID, projectID int64) error
	// CheckImageUpload reports whether userID may add another image to the project
	CheckImageUpload(ctx context.Context, userID, projectID int64) error
	// AddImage appends an uploaded image URL to an owned project
	AddImage(ctx context.Context, userID, projectID int64, imageURL string) (*models.Project, error)
	Search(ctx context.Context, q string, page, size int) ([]models.Project, dto.PaginationInfo, error)
	// Reindex rebuilds the search index from the database
	Reindex(ctx context.Context) (int, error)
}

// MaxProjectImages caps the images of one project
const MaxProjectImages = 10

type projectServiceImpl struct {
	projectRepo  repositories.IProjectRepository
	userRepo     repositories.IUserRepository
	indexer      search.ProjectIndexer
	achievements AchievementService
	rewards      *RewardRecorder
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repositories.IProjectRepository,
	userRepo repositories.IUserRepository,
	indexer search.ProjectIndexer,
	achievements AchievementService,
	rewards *RewardRecorder,
	logger zerolog.Logger,
) ProjectService {
	if indexer == nil {
		indexer = search.NoopProjectIndexer{}
	}
	return &projectServiceImpl{
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		indexer:      indexer,
		achievements: achievements,
		rewards:      rewards,
		validate:     validator.New(),
		logger:       logger.With().Str("service", "project").Logger(),
	}
}

func (s *projectServiceImpl) normalizeImageURLs(urls []string) ([]string, error) {
	urls = helpers.NormalizeList(urls)
	for _, u := range urls {
		if err := s.validate.Var(u, "url"); err != nil {
			return nil, apperrors.NewValidationError("imageUrls", fmt.Sprintf("invalid image URL: %s", u))
		}
	}
	return urls, nil
}

// ListMine returns the caller's projects
func (s *projectServiceImpl) ListMine(ctx context.Context, userID int64) ([]models.Project, error) {
	return s.list(ctx, userID)
}

// ListByUser returns the projects of an existing user
func (s *projectServiceImpl) ListByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.list(ctx, userID)
}

func (s *projectServiceImpl) list(ctx context.Context, userID int64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// Get returns a single project
func (s *projectServiceImpl) Get(ctx context.Context, projectID int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// Create stores a new project owned by userID
func (s *projectServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*models.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	images, err := s.normalizeImageURLs(req.ImageURLs)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		GithubURL:    helpers.TrimmedOrNil(req.GithubURL),
		LiveURL:      helpers.TrimmedOrNil(req.LiveURL),
		Technologies: helpers.NormalizeList(req.Technologies),
		ImageURLs:    images,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Int64("projectID", project.ID).Msg("Project created")
	s.syncIndex(ctx, project)
	s.rewards.logActivity(ctx, userID, models.ActivityProjectCreated, bson.M{"projectId": project.ID, "title": project.Title})
	if _, err := s.achievements.Evaluate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Achievement evaluation failed after project creation")
	}
	return project, nil
}

// ownedProject loads a project and checks that userID owns it
func (s *projectServiceImpl) ownedProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperrors.NewForbiddenError("you can only modify your own projects")
	}
	return project, nil
}

// Update applies a partial update; only the owner may update
func (s *projectServiceImpl) Update(ctx context.Context, userID, projectID int64, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title", "title cannot be empty")
		}
		project.Title = title
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.GithubURL != nil {
		project.GithubURL = helpers.TrimmedOrNil(req.GithubURL)
	}
	if req.LiveURL != nil {
		project.LiveURL = helpers.TrimmedOrNil(req.LiveURL)
	}
	if req.Technologies != nil {
		project.Technologies = helpers.NormalizeList(*req.Technologies)
	}
	if req.ImageURLs != nil {
		images, err := s.normalizeImageURLs(*req.ImageURLs)
		if err != nil {
			return nil, err
		}
		project.ImageURLs = images
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, project)
	return project, nil
}

// CheckImageUpload implements ProjectService
func (s *projectServiceImpl) CheckImageUpload(ctx context.Context, userID, projectID int64) error {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	return checkImageRoom(project)
}

func checkImageRoom(project *models.Project) error {
	if len(project.ImageURLs) >= MaxProjectImages {
		return apperrors.NewValidationError("image", fmt.Sprintf("a project can hold at most %d images", MaxProjectImages))
	}
	return nil
}

// AddImage appends imageURL unless the project already holds MaxProjectImages
func (s *projectServiceImpl) AddImage(ctx context.Context, userID, projectID int64, imageURL string) (*models.Project, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkImageRoom(project); err != nil {
		return nil, err
	}

	project.ImageURLs = append(project.ImageURLs, imageURL)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, project)
	return project, nil
}

// Delete removes a project; only the owner may delete
func (s *projectServiceImpl) Delete(ctx context.Context, userID, projectID int64) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}
	if err := s.indexer.Delete(ctx, projectID); err != nil {
		s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to remove project from search index")
	}
	s.logger.Info().Int64("userID", userID).Int64("projectID", projectID).Msg("Project deleted")
	return nil
}

func (s *projectServiceImpl) syncIndex(ctx context.Context, project *models.Project) {
	if err := s.indexer.Index(ctx, project); err != nil {
		s.logger.Warn().Err(err).Int64("projectID", project.ID).Msg("Failed to index project")
	}
}

// Search queries the search engine and falls back to the database when it is
// not configured or fails
func (s *projectServiceImpl) Search(ctx context.Context, q string, page, size int) ([]models.Project, dto.PaginationInfo, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, dto.PaginationInfo{}, apperrors.NewValidationError("q", "search query is required")
	}
	page, size = helpers.NormalizePage(page, size)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	if s.indexer.Enabled() {
		ids, total, err := s.indexer.Search(ctx, q, offset, limit)
		if err == nil {
			projects, err := s.projectRepo.GetByIDs(ctx, ids)
			if err != nil {
				return nil, dto.PaginationInfo{}, fmt.Errorf("error loading projects: %w", err)
			}
			return projects, helpers.NewPaginationInfo(total, page, size), nil
		}
		if !errors.Is(err, search.ErrDisabled) {
			s.logger.Warn().Err(err).Msg("Search engine query failed, using database search")
		}
	}

	projects, total, err := s.projectRepo.Search(ctx, q, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error searching projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, helpers.NewPaginationInfo(total, page, size), nil
}

// Reindex implements ProjectService
func (s *projectServiceImpl) Reindex(ctx context.Context) (int, error) {
	if !s.indexer.Enabled() {
		return 0, nil
	}
	if err := s.indexer.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing projects: %w", err)
	}
	return s.indexer.Reindex(ctx, projects)
}
