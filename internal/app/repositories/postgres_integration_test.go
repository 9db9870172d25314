package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/migrations"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

// testPool connects to TEST_DATABASE_URL, applies the migrations and empties
// the tables. Tests are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users, courses, subscriptions RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func createRankedUser(t *testing.T, repo *UserRepository, n, points, level int) int64 {
	t.Helper()
	user := &models.User{
		FullName: fmt.Sprintf("Ranked %d", n),
		Email:    fmt.Sprintf("ranked%d@example.com", n),
		Password: "hash",
		RoleType: models.RoleStudent,
		IsActive: true,
	}
	if err := repo.CreateWithProfile(context.Background(), user, &models.Profile{Points: points, Level: level}); err != nil {
		t.Fatalf("CreateWithProfile: %v", err)
	}
	return user.ID
}

func TestLeaderboardRankMatchesPageOrder(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	leader := createRankedUser(t, users, 1, 900, 2)
	tiedLow := createRankedUser(t, users, 2, 300, 1)
	tiedLowLater := createRankedUser(t, users, 3, 300, 1)
	tiedHigh := createRankedUser(t, users, 4, 300, 2)
	want := []int64{leader, tiedHigh, tiedLow, tiedLowLater}

	board := NewLeaderboardRepository(pool)
	page, err := board.Page(ctx, 0, 10)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(page) != len(want) {
		t.Fatalf("page has %d entries, want %d", len(page), len(want))
	}
	for i, e := range page {
		if e.UserID != want[i] || e.Rank != i+1 {
			t.Errorf("entry %d = user %d rank %d, want user %d", i, e.UserID, e.Rank, want[i])
		}
		rank, _, _, err := board.RankOf(ctx, e.UserID)
		if err != nil {
			t.Fatalf("RankOf(%d): %v", e.UserID, err)
		}
		if rank != e.Rank {
			t.Errorf("RankOf(%d) = %d, page rank %d", e.UserID, rank, e.Rank)
		}
	}

	if _, _, _, err := board.RankOf(ctx, 9999); !errors.Is(err, apperrors.ErrProfileNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestCompleteCreditsXPOnce(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	userID := createRankedUser(t, NewUserRepository(pool), 1, 450, 1)

	courses := NewCourseRepository(pool)
	course := &models.Course{Title: "SQL Basics", Level: models.CourseLevelBeginner, Category: "data", XPReward: 100, IsActive: true}
	if _, err := courses.CreateIfMissing(ctx, course); err != nil {
		t.Fatalf("CreateIfMissing: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT id FROM courses WHERE title = $1`, course.Title).Scan(&course.ID); err != nil {
		t.Fatalf("course id: %v", err)
	}

	if _, err := courses.Complete(ctx, userID, course.ID, 500); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Errorf("complete without enrollment: err = %v", err)
	}
	if err := courses.CreateEnrollment(ctx, &models.UserCourse{UserID: userID, CourseID: course.ID}); err != nil {
		t.Fatalf("CreateEnrollment: %v", err)
	}

	completion, err := courses.Complete(ctx, userID, course.ID, 500)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completion.Award.TotalPoints != 550 || completion.Award.Level != 2 || !completion.Enrollment.IsCompleted {
		t.Errorf("completion = %+v, award %+v", completion.Enrollment, completion.Award)
	}

	if _, err := courses.Complete(ctx, userID, course.ID, 500); !errors.Is(err, apperrors.ErrAlreadyCompleted) {
		t.Errorf("second Complete: err = %v", err)
	}
	profile, err := NewProfileRepository(pool).GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if profile.Points != 550 {
		t.Errorf("points = %d after a repeated completion, want 550", profile.Points)
	}
}
