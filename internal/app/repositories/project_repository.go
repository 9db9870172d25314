package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/dberrors"
)

// IProjectRepository defines portfolio project persistence
type IProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Project, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	// Search is the relational fallback used when no search engine is configured
	Search(ctx context.Context, q string, offset, limit int) ([]models.Project, int64, error)
}

// ProjectRepository handles the projects table
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

var projectColumns = []string{"id", "user_id", "title", "description", "github_url", "live_url", "technologies", "image_urls", "created_at", "updated_at"}

// EncodeImageURLs serialises the image list into the JSON text column
func EncodeImageURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeImageURLs parses the JSON text column; blank text is an empty list
func DecodeImageURLs(raw string) ([]string, error) {
	urls := []string{}
	if raw == "" {
		return urls, nil
	}
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	var images string
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.GithubURL, &p.LiveURL,
		&p.Technologies, &images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.ImageURLs, err = DecodeImageURLs(images); err != nil {
		return nil, fmt.Errorf("invalid image_urls for project %d: %w", p.ID, err)
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query squirrel.SelectBuilder) ([]models.Project, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// Create inserts a project
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	images, err := EncodeImageURLs(p.ImageURLs)
	if err != nil {
		return fmt.Errorf("error encoding image urls: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO projects (user_id, title, description, github_url, live_url, technologies, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.UserID, p.Title, p.Description, p.GithubURL, p.LiveURL, p.Technologies, images,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	sql, args, err := squirrel.Select(projectColumns...).From("projects").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	p, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return p, nil
}

// GetByIDs loads projects in the order of ids, skipping ids that no longer exist
func (r *ProjectRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Project, error) {
	if len(ids) == 0 {
		return []models.Project{}, nil
	}
	found, err := r.queryProjects(ctx, squirrel.Select(projectColumns...).From("projects").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Project, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Project, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// ListByUser returns a user's projects, newest first
func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	return r.queryProjects(ctx, squirrel.Select(projectColumns...).From("projects").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC"))
}

// ListAll returns every project, used for search reindexing
func (r *ProjectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	return r.queryProjects(ctx, squirrel.Select(projectColumns...).From("projects").OrderBy("id"))
}

// Update writes all editable fields of a project
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	images, err := EncodeImageURLs(p.ImageURLs)
	if err != nil {
		return fmt.Errorf("error encoding image urls: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		UPDATE projects SET
			title = $2, description = $3, github_url = $4, live_url = $5,
			technologies = $6, image_urls = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Title, p.Description, p.GithubURL, p.LiveURL, p.Technologies, images,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("error updating project: %w", err)
	}
	return nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// CountByUser counts a user's projects
func (r *ProjectRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting projects: %w", err)
	}
	return n, nil
}

// Search matches q against title, description and technologies with ILIKE
func (r *ProjectRepository) Search(ctx context.Context, q string, offset, limit int) ([]models.Project, int64, error) {
	pattern := "%" + q + "%"
	match := squirrel.Or{
		squirrel.ILike{"title": pattern},
		squirrel.ILike{"description": pattern},
		squirrel.Expr("EXISTS (SELECT 1 FROM unnest(technologies) t WHERE t ILIKE ?)", pattern),
	}

	var total int64
	countSQL, countArgs, err := squirrel.Select("COUNT(*)").From("projects").Where(match).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting project matches: %w", err)
	}

	projects, err := r.queryProjects(ctx, squirrel.Select(projectColumns...).From("projects").
		Where(match).
		OrderBy("updated_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)))
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}
