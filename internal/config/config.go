package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		PublicURL      string   `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		StoragePath    string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		StorageURL     string   `yaml:"storage_url" env:"SERVER_STORAGE_URL"`
		MaxUploadMB    int      `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Mongo struct {
		URI      string `yaml:"uri" env:"MONGO_URI"`
		Database string `yaml:"database" env:"MONGO_DATABASE"`
	} `yaml:"mongo"`

	Redis struct {
		Addr           string `yaml:"addr" env:"REDIS_ADDR"`
		Password       string `yaml:"password" env:"REDIS_PASSWORD"`
		DB             int    `yaml:"db" env:"REDIS_DB"`
		LeaderboardTTL string `yaml:"leaderboard_ttl" env:"REDIS_LEADERBOARD_TTL"`
	} `yaml:"redis"`

	Elasticsearch struct {
		URL          string `yaml:"url" env:"ELASTIC_URL"`
		ProjectIndex string `yaml:"project_index" env:"ELASTIC_PROJECT_INDEX"`
	} `yaml:"elasticsearch"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Gamification struct {
		LevelThreshold         int `yaml:"level_threshold" env:"LEVEL_THRESHOLD"`
		ProfileCompletionBonus int `yaml:"profile_completion_bonus" env:"PROFILE_COMPLETION_BONUS"`
	} `yaml:"gamification"`

	Scheduler struct {
		Enabled          bool   `yaml:"enabled" env:"SCHEDULER_ENABLED"`
		AchievementSweep string `yaml:"achievement_sweep" env:"SCHEDULER_ACHIEVEMENT_SWEEP"`
		SearchReindex    string `yaml:"search_reindex" env:"SCHEDULER_SEARCH_REINDEX"`
	} `yaml:"scheduler"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from .env files, a YAML file and environment variables.
// Precedence: defaults < YAML < environment (including values loaded from .env).
func LoadConfig(configPath string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv loads the given .env files (default ".env"); missing files are skipped.
// godotenv never overrides variables that are already set in the process.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	config.Server.PublicURL = "http://localhost:3000"
	config.Server.StoragePath = "uploads"
	config.Server.StorageURL = "http://localhost:8080/uploads"
	config.Server.MaxUploadMB = 5

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "nextstep"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Mongo.URI = "mongodb://localhost:27017"
	config.Mongo.Database = "nextstep"

	config.Redis.LeaderboardTTL = "60s"

	config.Elasticsearch.ProjectIndex = "projects_v1"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "nextstep.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587
	config.SMTP.FromName = "NextStep"
	config.SMTP.FromEmail = "no-reply@nextstep.app"

	config.Gamification.LevelThreshold = 500
	config.Gamification.ProfileCompletionBonus = 50

	config.Scheduler.Enabled = true
	config.Scheduler.AchievementSweep = "0 */30 * * * *"
	config.Scheduler.SearchReindex = "0 0 3 * * *"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Mongo.URI == "" || config.Mongo.Database == "" {
		return fmt.Errorf("mongo uri and database are required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Redis.LeaderboardTTL != "" {
		if _, err := time.ParseDuration(config.Redis.LeaderboardTTL); err != nil {
			return fmt.Errorf("invalid redis leaderboard ttl: %w", err)
		}
	}

	if config.Gamification.LevelThreshold <= 0 {
		return fmt.Errorf("gamification level threshold must be positive")
	}

	if config.Gamification.ProfileCompletionBonus < 0 {
		return fmt.Errorf("profile completion bonus cannot be negative")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
