package services

import (
	"context"
	"testing"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
)

func seedRanking(f *fixture) []int64 {
	points := []int{300, 900, 300, 50, 1200}
	ids := make([]int64, 0, len(points))
	for _, p := range points {
		ids = append(ids, f.db.seedUser(models.RoleStudent, models.Profile{Points: p, Level: models.LevelForPoints(p, 500)}))
	}
	return ids
}

func TestGetLeaderboard_RanksAcrossPages(t *testing.T) {
	f := newFixture()
	ids := seedRanking(f)

	resp, err := f.leaderboard.GetLeaderboard(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("got %d entries", len(resp.Entries))
	}

	// 1200, 900 on page one; the tie at 300 is broken by user id
	first, second := resp.Entries[0], resp.Entries[1]
	if first.Rank != 3 || first.UserID != ids[0] {
		t.Errorf("first entry = %+v", first)
	}
	if second.Rank != 4 || second.UserID != ids[2] {
		t.Errorf("second entry = %+v", second)
	}
	if resp.Pagination.TotalItems != 5 || resp.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
}

func TestGetLeaderboard_ServesCachedPage(t *testing.T) {
	f := newFixture()
	seedRanking(f)
	ctx := context.Background()

	first, err := f.leaderboard.GetLeaderboard(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	second, err := f.leaderboard.GetLeaderboard(ctx, 1, 10)
	if err != nil {
		t.Fatalf("cached GetLeaderboard: %v", err)
	}

	if f.board.calls != 1 {
		t.Errorf("repository queried %d times, want 1", f.board.calls)
	}
	if f.cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", f.cache.hits)
	}
	if len(second.Entries) != len(first.Entries) || second.Entries[0].UserID != first.Entries[0].UserID {
		t.Errorf("cached page differs: %+v vs %+v", second.Entries, first.Entries)
	}
}

func TestGetLeaderboard_RefreshesAfterPointsChange(t *testing.T) {
	f := newFixture()
	ids := seedRanking(f)
	ctx := context.Background()

	if _, err := f.leaderboard.GetLeaderboard(ctx, 1, 10); err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}

	// Explorer is worth 15 points, enough to pass the 1200 leader
	f.db.profiles[ids[1]].Points = 1190
	if _, err := f.profile.UpdateMyProfile(ctx, ids[1], dtoInterests([]string{"ai", "web", "cloud"})); err != nil {
		t.Fatalf("UpdateMyProfile: %v", err)
	}

	resp, err := f.leaderboard.GetLeaderboard(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	want := f.db.profile(ids[1]).Points
	if resp.Entries[0].UserID != ids[1] || resp.Entries[0].Points != want {
		t.Errorf("leader = %+v, want user %d with %d points", resp.Entries[0], ids[1], want)
	}
	if f.board.calls != 2 {
		t.Errorf("repository queried %d times, want 2", f.board.calls)
	}
}

func TestGetLeaderboard_InvalidationDuringLoadIsNotCached(t *testing.T) {
	f := newFixture()
	ids := seedRanking(f)
	ctx := context.Background()

	// points change and the cache is invalidated while the first page is
	// still being loaded
	f.board.afterPage = func() {
		f.board.afterPage = nil
		f.db.mu.Lock()
		f.db.profiles[ids[3]].Points = 5000
		f.db.mu.Unlock()
		if err := f.cache.Invalidate(ctx); err != nil {
			t.Errorf("Invalidate: %v", err)
		}
	}

	stale, err := f.leaderboard.GetLeaderboard(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if stale.Entries[0].UserID == ids[3] {
		t.Fatalf("first load already saw the update")
	}

	fresh, err := f.leaderboard.GetLeaderboard(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if fresh.Entries[0].UserID != ids[3] || fresh.Entries[0].Points != 5000 {
		t.Errorf("leader = %+v, want user %d with 5000 points", fresh.Entries[0], ids[3])
	}
	if f.board.calls != 2 {
		t.Errorf("repository queried %d times, want 2", f.board.calls)
	}
}

func TestGetMyRank(t *testing.T) {
	f := newFixture()
	ids := seedRanking(f)

	rank, err := f.leaderboard.GetMyRank(context.Background(), ids[3])
	if err != nil {
		t.Fatalf("GetMyRank: %v", err)
	}
	if rank.Rank != 5 || rank.TotalParticipants != 5 || rank.Points != 50 {
		t.Errorf("rank = %+v", rank)
	}
}
