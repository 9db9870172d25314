package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/db"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/dberrors"
)

// ICourseRepository defines catalogue and enrollment persistence
type ICourseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetEnrollment(ctx context.Context, userID, courseID int64) (*models.UserCourse, error)
	ListEnrollments(ctx context.Context, userID int64) ([]models.UserCourse, error)
	CreateEnrollment(ctx context.Context, enrollment *models.UserCourse) error
	UpdateProgress(ctx context.Context, userID, courseID int64, progress int) (*models.UserCourse, error)
	// Complete marks the enrollment completed and credits the course XP in one
	// transaction. It fails with ErrAlreadyCompleted if it was completed before.
	Complete(ctx context.Context, userID, courseID int64, threshold int) (*models.CourseCompletion, error)
	CountEnrollments(ctx context.Context, userID int64) (enrolled, completed int, err error)
}

// CourseRepository handles courses and user_courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

var courseColumns = []string{"id", "title", "description", "level", "category", "xp_reward", "url", "is_active", "created_at"}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.Category, &c.XPReward, &c.URL, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

const enrollmentColumns = `id, user_id, course_id, progress, is_completed, enrolled_at, completed_at, updated_at`

func scanEnrollment(row pgx.Row) (*models.UserCourse, error) {
	uc := &models.UserCourse{}
	err := row.Scan(&uc.ID, &uc.UserID, &uc.CourseID, &uc.Progress, &uc.IsCompleted, &uc.EnrolledAt, &uc.CompletedAt, &uc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return uc, nil
}

// List returns active courses matching the filter, ordered by id
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	query := squirrel.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Level != "" {
		query = query.Where(squirrel.Eq{"level": filter.Level})
	}
	if filter.Category != "" {
		query = query.Where("lower(category) = lower(?)", filter.Category)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// GetByID retrieves a course regardless of its active flag
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := squirrel.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	return c, nil
}

// GetEnrollment retrieves one user's enrollment in a course
func (r *CourseRepository) GetEnrollment(ctx context.Context, userID, courseID int64) (*models.UserCourse, error) {
	uc, err := scanEnrollment(r.db.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM user_courses WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error getting enrollment: %w", err)
	}
	return uc, nil
}

// ListEnrollments returns a user's enrollments joined with their course,
// most recent first
func (r *CourseRepository) ListEnrollments(ctx context.Context, userID int64) ([]models.UserCourse, error) {
	rows, err := r.db.Query(ctx, `
		SELECT uc.id, uc.user_id, uc.course_id, uc.progress, uc.is_completed,
		       uc.enrolled_at, uc.completed_at, uc.updated_at,
		       c.id, c.title, c.description, c.level, c.category, c.xp_reward, c.url, c.is_active, c.created_at
		FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1
		ORDER BY uc.enrolled_at DESC, uc.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.UserCourse{}
	for rows.Next() {
		var uc models.UserCourse
		c := &models.Course{}
		if err := rows.Scan(
			&uc.ID, &uc.UserID, &uc.CourseID, &uc.Progress, &uc.IsCompleted,
			&uc.EnrolledAt, &uc.CompletedAt, &uc.UpdatedAt,
			&c.ID, &c.Title, &c.Description, &c.Level, &c.Category, &c.XPReward, &c.URL, &c.IsActive, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		uc.Course = c
		enrollments = append(enrollments, uc)
	}
	return enrollments, rows.Err()
}

// CreateEnrollment inserts an enrollment at progress 0. The unique
// (user_id, course_id) constraint maps to ErrAlreadyEnrolled.
func (r *CourseRepository) CreateEnrollment(ctx context.Context, uc *models.UserCourse) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_courses (user_id, course_id, progress, is_completed)
		VALUES ($1, $2, 0, FALSE)
		RETURNING id, progress, is_completed, enrolled_at, updated_at`,
		uc.UserID, uc.CourseID,
	).Scan(&uc.ID, &uc.Progress, &uc.IsCompleted, &uc.EnrolledAt, &uc.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	return nil
}

// UpdateProgress stores a progress value for an uncompleted enrollment.
// Completed enrollments are returned unchanged.
func (r *CourseRepository) UpdateProgress(ctx context.Context, userID, courseID int64, progress int) (*models.UserCourse, error) {
	uc, err := scanEnrollment(r.db.QueryRow(ctx, `
		UPDATE user_courses SET
			progress = CASE WHEN is_completed THEN progress ELSE $3 END,
			updated_at = CASE WHEN is_completed THEN updated_at ELSE NOW() END
		WHERE user_id = $1 AND course_id = $2
		RETURNING `+enrollmentColumns,
		userID, courseID, models.ClampProgress(progress)))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error updating progress: %w", err)
	}
	return uc, nil
}

// Complete marks the enrollment completed and adds the course XP to the
// profile. The is_completed guard makes a second completion fail without
// crediting XP again.
func (r *CourseRepository) Complete(ctx context.Context, userID, courseID int64, threshold int) (*models.CourseCompletion, error) {
	var completion models.CourseCompletion
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		uc, err := scanEnrollment(tx.QueryRow(ctx, `
			UPDATE user_courses SET
				is_completed = TRUE, progress = 100, completed_at = NOW(), updated_at = NOW()
			WHERE user_id = $1 AND course_id = $2 AND is_completed = FALSE
			RETURNING `+enrollmentColumns,
			userID, courseID))
		if err != nil {
			if !dberrors.IsNoRows(err) {
				return fmt.Errorf("error completing enrollment: %w", err)
			}
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM user_courses WHERE user_id = $1 AND course_id = $2)`,
				userID, courseID).Scan(&exists); err != nil {
				return fmt.Errorf("error checking enrollment: %w", err)
			}
			if exists {
				return apperrors.ErrAlreadyCompleted
			}
			return apperrors.ErrEnrollmentNotFound
		}

		course, err := scanCourse(tx.QueryRow(ctx,
			`SELECT id, title, description, level, category, xp_reward, url, is_active, created_at FROM courses WHERE id = $1`,
			courseID))
		if err != nil {
			return fmt.Errorf("error loading completed course: %w", err)
		}
		uc.Course = course

		award, err := addPoints(ctx, tx, userID, course.XPReward, threshold)
		if err != nil {
			return err
		}

		completion = models.CourseCompletion{Enrollment: uc, Award: award}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// CountEnrollments returns how many courses a user enrolled in and completed
func (r *CourseRepository) CountEnrollments(ctx context.Context, userID int64) (int, int, error) {
	var enrolled, completed int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_completed)
		FROM user_courses WHERE user_id = $1`, userID).Scan(&enrolled, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return enrolled, completed, nil
}

// CreateIfMissing inserts a catalogue course unless one with the same title
// exists. It reports whether a row was inserted.
func (r *CourseRepository) CreateIfMissing(ctx context.Context, c *models.Course) (bool, error) {
	sql, args, err := squirrel.Insert("courses").
		Columns("title", "description", "level", "category", "xp_reward", "url", "is_active").
		Values(c.Title, c.Description, c.Level, c.Category, c.XPReward, c.URL, c.IsActive).
		Suffix("ON CONFLICT (title) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error seeding course %q: %w", c.Title, err)
	}
	return tag.RowsAffected() == 1, nil
}
