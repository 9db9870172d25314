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

// IProfileRepository defines profile persistence and the points ledger
type IProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// AddPoints adds points and recomputes the level in the same statement
	AddPoints(ctx context.Context, userID int64, points, threshold int) (models.PointsAward, error)
	// AwardCompletionBonus adds the bonus only if it was never awarded; the
	// boolean reports whether it was applied now
	AwardCompletionBonus(ctx context.Context, userID int64, bonus, threshold int) (models.PointsAward, bool, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	SearchBySkill(ctx context.Context, skill string, offset, limit int) ([]models.UserProfile, int64, error)
}

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, university, year, major, skills, career_interests,
	linkedin_url, github_url, portfolio_url, company, position, industry, experience, bio,
	points, level, profile_bonus_awarded, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.University, &p.Year, &p.Major, &p.Skills, &p.CareerInterests,
		&p.LinkedInURL, &p.GithubURL, &p.PortfolioURL, &p.Company, &p.Position, &p.Industry,
		&p.Experience, &p.Bio, &p.Points, &p.Level, &p.ProfileBonusAwarded, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUserID retrieves the profile owned by a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return p, nil
}

// Update writes the editable profile fields. Points and level are owned by
// AddPoints and are never written here.
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	err := r.db.QueryRow(ctx, `
		UPDATE profiles SET
			university = $2, year = $3, major = $4, skills = $5, career_interests = $6,
			linkedin_url = $7, github_url = $8, portfolio_url = $9,
			company = $10, position = $11, industry = $12, experience = $13, bio = $14,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING points, level, updated_at`,
		p.UserID, p.University, p.Year, p.Major, p.Skills, p.CareerInterests,
		p.LinkedInURL, p.GithubURL, p.PortfolioURL,
		p.Company, p.Position, p.Industry, p.Experience, p.Bio,
	).Scan(&p.Points, &p.Level, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// addPoints is shared by AddPoints and the course completion transaction.
// The level expression mirrors models.LevelForPoints.
func addPoints(ctx context.Context, q db.Querier, userID int64, points, threshold int) (models.PointsAward, error) {
	award := models.PointsAward{UserID: userID, PointsAdded: points}
	err := q.QueryRow(ctx, `
		WITH prev AS (
			SELECT level FROM profiles WHERE user_id = $1 FOR UPDATE
		)
		UPDATE profiles p SET
			points = p.points + $2,
			level = ((p.points + $2) / $3) + 1,
			updated_at = NOW()
		FROM prev
		WHERE p.user_id = $1
		RETURNING p.points, p.level, prev.level`,
		userID, points, threshold,
	).Scan(&award.TotalPoints, &award.Level, &award.PreviousLevel)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return award, apperrors.ErrProfileNotFound
		}
		return award, fmt.Errorf("error adding points: %w", err)
	}
	return award, nil
}

// AddPoints adds points to a profile and recomputes its level
func (r *ProfileRepository) AddPoints(ctx context.Context, userID int64, points, threshold int) (models.PointsAward, error) {
	return addPoints(ctx, r.db, userID, points, threshold)
}

// AwardCompletionBonus flips profile_bonus_awarded and adds the bonus in one
// transaction. Concurrent callers award at most once.
func (r *ProfileRepository) AwardCompletionBonus(ctx context.Context, userID int64, bonus, threshold int) (models.PointsAward, bool, error) {
	var award models.PointsAward
	applied := false
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE profiles SET profile_bonus_awarded = TRUE
			WHERE user_id = $1 AND profile_bonus_awarded = FALSE`, userID)
		if err != nil {
			return fmt.Errorf("error flagging profile bonus: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		award, err = addPoints(ctx, tx, userID, bonus, threshold)
		if err != nil {
			return err
		}
		applied = true
		return nil
	})
	return award, applied, err
}

// ListUserIDs returns every profile owner, used by the achievement sweep
func (r *ProfileRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning profile ids: %w", err)
	}
	return ids, nil
}

// SearchBySkill finds active students listing a skill (case-insensitive),
// strongest first
func (r *ProfileRepository) SearchBySkill(ctx context.Context, skill string, offset, limit int) ([]models.UserProfile, int64, error) {
	query := squirrel.Select(
		"u.id", "u.full_name", "u.role",
		"p.university", "p.major", "p.skills", "p.points", "p.level",
		"COUNT(*) OVER()",
	).
		From("profiles p").
		Join("users u ON u.id = p.user_id").
		Where(squirrel.Eq{"u.role": models.RoleStudent, "u.is_active": true}).
		Where("EXISTS (SELECT 1 FROM unnest(p.skills) s WHERE lower(s) = lower(?))", skill).
		OrderBy("p.points DESC", "p.level DESC", "u.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing talent search: %w", err)
	}
	defer rows.Close()

	results := []models.UserProfile{}
	var total int64
	for rows.Next() {
		var up models.UserProfile
		if err := rows.Scan(
			&up.User.ID, &up.User.FullName, &up.User.RoleType,
			&up.Profile.University, &up.Profile.Major, &up.Profile.Skills,
			&up.Profile.Points, &up.Profile.Level, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning talent row: %w", err)
		}
		up.Profile.UserID = up.User.ID
		results = append(results, up)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating talent rows: %w", err)
	}
	return results, total, nil
}
