package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/cache"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/websocket"
)

// GamificationConfig holds the XP rules
type GamificationConfig struct {
	LevelThreshold         int
	ProfileCompletionBonus int
}

// Notifier pushes real-time events to a connected user. Implementations must
// not block.
type Notifier interface {
	Notify(userID int64, eventType string, payload interface{})
}

// NoopNotifier discards every event
type NoopNotifier struct{}

func (NoopNotifier) Notify(int64, string, interface{}) {}

// RewardRecorder handles the side effects shared by every points change:
// feed entries, cache invalidation, notifications and metrics. All of it is
// best effort and never fails the calling operation.
type RewardRecorder struct {
	activityRepo repositories.IActivityRepository
	cache        cache.LeaderboardCache
	notifier     Notifier
	logger       zerolog.Logger
}

func NewRewardRecorder(activityRepo repositories.IActivityRepository, lbCache cache.LeaderboardCache, notifier Notifier, logger zerolog.Logger) *RewardRecorder {
	if lbCache == nil {
		lbCache = cache.NoopLeaderboardCache{}
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &RewardRecorder{activityRepo: activityRepo, cache: lbCache, notifier: notifier, logger: logger}
}

func (r *RewardRecorder) logActivity(ctx context.Context, userID int64, activityType models.ActivityType, metadata bson.M) {
	if r.activityRepo == nil {
		return
	}
	activity := &models.Activity{
		UserID:    userID,
		Type:      activityType,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.activityRepo.Log(ctx, activity); err != nil {
		r.logger.Warn().Err(err).Int64("userID", userID).Str("type", string(activityType)).Msg("Failed to log activity")
	}
}

// pointsChanged records a committed points award coming from source
func (r *RewardRecorder) pointsChanged(ctx context.Context, award models.PointsAward, source string) {
	if award.PointsAdded > 0 {
		metrics.PointsAwarded.WithLabelValues(source).Add(float64(award.PointsAdded))
	}
	r.invalidateLeaderboard(ctx)

	if !award.LeveledUp() {
		return
	}
	r.logActivity(ctx, award.UserID, models.ActivityLevelUp, bson.M{
		"previousLevel": award.PreviousLevel,
		"level":         award.Level,
		"source":        source,
	})
	r.notifier.Notify(award.UserID, websocket.EventLevelUp, award)
}

func (r *RewardRecorder) invalidateLeaderboard(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to invalidate leaderboard cache")
	}
}
