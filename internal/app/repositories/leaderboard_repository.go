package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/dberrors"
)

// ILeaderboardRepository reads the ranking over all profiles. The order is
// points desc, level desc, user id asc.
type ILeaderboardRepository interface {
	Page(ctx context.Context, offset, limit int) ([]models.LeaderboardEntry, error)
	Count(ctx context.Context) (int64, error)
	// RankOf returns 1 + the number of profiles strictly ahead of the user
	RankOf(ctx context.Context, userID int64) (rank int, points int, level int, err error)
}

// LeaderboardRepository implements the ranking queries
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository
func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Page returns one slice of the ranking. Ranks are offset based so they
// continue across pages.
func (r *LeaderboardRepository) Page(ctx context.Context, offset, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.full_name, u.role, p.university, p.major, p.points, p.level
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.points DESC, p.level DESC, p.user_id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FullName, &e.Role, &e.University, &e.Major, &e.Points, &e.Level); err != nil {
			return nil, fmt.Errorf("error scanning leaderboard row: %w", err)
		}
		e.Rank = offset + len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of ranked profiles
func (r *LeaderboardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting profiles: %w", err)
	}
	return n, nil
}

// RankOf computes a user's rank with the same ordering as Page
func (r *LeaderboardRepository) RankOf(ctx context.Context, userID int64) (int, int, int, error) {
	var rank, points, level int
	err := r.db.QueryRow(ctx, `
		SELECT
			1 + (
				SELECT COUNT(*) FROM profiles o
				WHERE o.points > me.points
				   OR (o.points = me.points AND o.level > me.level)
				   OR (o.points = me.points AND o.level = me.level AND o.user_id < me.user_id)
			),
			me.points, me.level
		FROM profiles me
		WHERE me.user_id = $1`, userID).Scan(&rank, &points, &level)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return 0, 0, 0, apperrors.ErrProfileNotFound
		}
		return 0, 0, 0, fmt.Errorf("error computing rank: %w", err)
	}
	return rank, points, level, nil
}
