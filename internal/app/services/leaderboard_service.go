package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/cache"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
)

// LeaderboardService ranks profiles by points
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, page, size int) (*dto.LeaderboardResponse, error)
	GetMyRank(ctx context.Context, userID int64) (*dto.MyRankResponse, error)
}

type leaderboardServiceImpl struct {
	repo   repositories.ILeaderboardRepository
	cache  cache.LeaderboardCache
	logger zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(repo repositories.ILeaderboardRepository, lbCache cache.LeaderboardCache, logger zerolog.Logger) LeaderboardService {
	if lbCache == nil {
		lbCache = cache.NoopLeaderboardCache{}
	}
	return &leaderboardServiceImpl{
		repo:   repo,
		cache:  lbCache,
		logger: logger.With().Str("service", "leaderboard").Logger(),
	}
}

// GetLeaderboard returns one page of the ranking, served from cache when possible
func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context, page, size int) (*dto.LeaderboardResponse, error) {
	page, size = helpers.NormalizePage(page, size)

	var cached dto.LeaderboardResponse
	version, found, cacheErr := s.cache.GetPage(ctx, page, size, &cached)
	if cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Msg("Leaderboard cache read failed")
	}
	if found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	entries, err := s.repo.Page(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading leaderboard: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting leaderboard: %w", err)
	}

	resp := &dto.LeaderboardResponse{
		Entries:    entries,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
	// a failed read leaves no version to store under
	if cacheErr == nil {
		if err := s.cache.SetPage(ctx, version, page, size, resp); err != nil {
			s.logger.Warn().Err(err).Msg("Leaderboard cache write failed")
		}
	}
	return resp, nil
}

// GetMyRank returns the caller's position
func (s *leaderboardServiceImpl) GetMyRank(ctx context.Context, userID int64) (*dto.MyRankResponse, error) {
	rank, points, level, err := s.repo.RankOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting leaderboard: %w", err)
	}
	return &dto.MyRankResponse{
		UserID:            userID,
		Rank:              rank,
		TotalParticipants: total,
		Points:            points,
		Level:             level,
	}, nil
}
