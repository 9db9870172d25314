package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/controllers"
	appMigrations "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/migrations"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	appRepos "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	appRoutes "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/routes"
	appServices "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/config"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/db"
	appMiddleware "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
	pkgAuth "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/auth"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/cache"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/email"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/filestorage"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/logger"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/scheduler"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/search"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/validation"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/websocket"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/seed"
)

// Scheduled job names
const (
	JobAchievementSweep = "achievement_sweep"
	JobSearchReindex    = "search_reindex"
)

// Infrastructure holds the connections to the backing services
type Infrastructure struct {
	Postgres *db.PostgresDB
	Mongo    *db.MongoDB
	Redis    *redis.Client // nil when no address is configured
	Indexer  search.ProjectIndexer
}

// Close releases every open connection
func (i *Infrastructure) Close(ctx context.Context) {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.Mongo != nil {
		_ = i.Mongo.Close(ctx)
	}
	if i.Postgres != nil {
		i.Postgres.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	Scheduler      *scheduler.Manager
	FileStorage    *filestorage.LocalStorage // nil when the directory cannot be created
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the PostgreSQL connection, runs migrations and seeds the catalogue.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupInfrastructure connects PostgreSQL, MongoDB, Redis and Elasticsearch.
// Redis and Elasticsearch are optional: an empty address disables them and a
// failed connection degrades to the uncached or database-backed path.
func SetupInfrastructure(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	pg, err := SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	infra.Postgres = pg

	infra.Mongo, err = db.NewMongoDB(cfg)
	if err != nil {
		infra.Close(ctx)
		lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
		return nil, err
	}
	if err := infra.Mongo.EnsureIndexes(ctx); err != nil {
		infra.Close(ctx)
		return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
	}
	lgr.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB connection established.")

	infra.Redis, err = db.NewRedisClient(cfg)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, leaderboard cache disabled")
		infra.Redis = nil
	}

	infra.Indexer, err = search.NewProjectIndexer(cfg.Elasticsearch.URL, cfg.Elasticsearch.ProjectIndex, lgr)
	if err != nil {
		lgr.Warn().Err(err).Msg("Elasticsearch client error, project search uses PostgreSQL")
		infra.Indexer = search.NoopProjectIndexer{}
	}
	if infra.Indexer.Enabled() {
		if err := infra.Indexer.EnsureIndex(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Failed to ensure project index, search falls back to PostgreSQL")
		}
	}

	return infra, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, infra *Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.SetupGinValidator(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(infra.Postgres.Pool, infra.Mongo.Database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	fileStorage, err := filestorage.NewLocalStorage(
		cfg.Server.StoragePath,
		cfg.Server.StorageURL,
		int64(cfg.Server.MaxUploadMB)<<20,
		lgr,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage, image uploads disabled")
	} else {
		deps.FileStorage = fileStorage
	}

	deps.Hub = websocket.NewHub(lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, lgr)

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.PublicURL,
	}, lgr)

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    deps.Repos,
		Tokens:   deps.JWTService,
		Hasher:   pkgAuth.NewBcryptHasher(),
		Email:    emailService,
		Cache:    cache.NewLeaderboardCache(infra.Redis, helpers.ParseDuration(cfg.Redis.LeaderboardTTL, time.Minute), lgr),
		Indexer:  infra.Indexer,
		Notifier: deps.Hub,
		Gamification: appServices.GamificationConfig{
			LevelThreshold:         cfg.Gamification.LevelThreshold,
			ProfileCompletionBonus: cfg.Gamification.ProfileCompletionBonus,
		},
		Logger: lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	s := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(s.Auth, lgr),
		Profile:      appControllers.NewProfileController(s.Profile, s.Project, lgr),
		Course:       appControllers.NewCourseController(s.Course, lgr),
		Leaderboard:  appControllers.NewLeaderboardController(s.Leaderboard, lgr),
		Achievement:  appControllers.NewAchievementController(s.Achievement, lgr),
		Project:      appControllers.NewProjectController(s.Project, imageStore(deps.FileStorage), lgr),
		Subscription: appControllers.NewSubscriptionController(s.Subscription, lgr),
		Quiz:         appControllers.NewQuizController(s.Quiz, lgr),
		Health:       appControllers.NewHealthController(healthChecks(infra), lgr),
	}

	deps.Scheduler, err = BuildScheduler(cfg, s, lgr)
	if err != nil {
		return nil, err
	}

	return deps, nil
}

// imageStore keeps a nil *LocalStorage from becoming a non-nil interface
func imageStore(ls *filestorage.LocalStorage) filestorage.ImageStore {
	if ls == nil {
		return nil
	}
	return ls
}

func healthChecks(infra *Infrastructure) map[string]appControllers.HealthCheck {
	checks := map[string]appControllers.HealthCheck{
		"postgres": func(ctx context.Context) error { return infra.Postgres.Pool.Ping(ctx) },
		"mongo":    func(ctx context.Context) error { return infra.Mongo.Client.Ping(ctx, nil) },
	}
	if infra.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return infra.Redis.Ping(ctx).Err() }
	}
	return checks
}

// BuildScheduler registers the periodic jobs. It returns nil when the
// scheduler is disabled.
func BuildScheduler(cfg *config.Config, s *appServices.Services, lgr zerolog.Logger) (*scheduler.Manager, error) {
	if !cfg.Scheduler.Enabled {
		lgr.Info().Msg("Scheduler disabled")
		return nil, nil
	}

	m := scheduler.NewManager(10*time.Minute, lgr)
	if err := m.AddJob(JobAchievementSweep, cfg.Scheduler.AchievementSweep, func(ctx context.Context) error {
		granted, err := s.Achievement.SweepAll(ctx)
		if err != nil {
			return err
		}
		lgr.Info().Int("granted", granted).Msg("Achievement sweep granted badges")
		return nil
	}); err != nil {
		return nil, err
	}
	if err := m.AddJob(JobSearchReindex, cfg.Scheduler.SearchReindex, func(ctx context.Context) error {
		n, err := s.Project.Reindex(ctx)
		if err != nil {
			return err
		}
		lgr.Info().Int("projects", n).Msg("Project index rebuilt")
		return nil
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
	)
	if cfg.Metrics.Enabled {
		router.Use(metrics.GinMiddleware())
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	})

	opts := appRoutes.Options{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}
	if deps.FileStorage != nil {
		opts.UploadsDir = cfg.Server.StoragePath
	}
	appRoutes.SetupRouter(router, deps.Controllers, deps.WSHandler, deps.AuthMiddleware, opts)

	return router
}
