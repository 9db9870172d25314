package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nextstep"

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "registrations_total", Help: "Registered users by role."},
		[]string{"role"},
	)
	Enrollments = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "course_enrollments_total", Help: "Course enrollments."},
	)
	CourseCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "course_completions_total", Help: "Completed courses."},
	)
	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "points_awarded_total", Help: "XP awarded by source."},
		[]string{"source"},
	)
	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "achievements_unlocked_total", Help: "Achievements granted by rarity."},
		[]string{"rarity"},
	)
	SubscriptionChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "subscription_changes_total", Help: "Subscription changes by action."},
		[]string{"action"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "leaderboard_cache_lookups_total", Help: "Leaderboard cache lookups by result."},
		[]string{"result"},
	)
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "scheduled_job_runs_total", Help: "Scheduled job runs by job and status."},
		[]string{"job", "status"},
	)
)

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			requestDuration, requestTotal, requestsInFlight,
			Registrations, Enrollments, CourseCompletions, PointsAwarded,
			AchievementsUnlocked, SubscriptionChanges, CacheLookups, JobRuns,
		)
	})
}

// GinMiddleware records latency and totals per route
func GinMiddleware() gin.HandlerFunc {
	Register()

	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

// Handler exposes the registry in the Prometheus text format
func Handler() gin.HandlerFunc {
	Register()
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
