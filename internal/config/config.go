package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Classifier   ClassifierConfig
	Geo          GeoConfig
	RateLimit    RateLimitConfig
	AutoClose    AutoCloseConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Format  string
	Service string
}

// AuthConfig defines token verification and tracking-code hashing parameters.
// Tokens are issued by the city identity provider; this service only verifies them.
type AuthConfig struct {
	JWTSecret          string
	JWTIssuer          string
	TrackingBcryptCost int
}

// ClassifierConfig points at an optional YAML rules override.
type ClassifierConfig struct {
	RulesPath string
}

// GeoConfig bounds nearby searches.
type GeoConfig struct {
	MaxRadiusKm float64
	NearbyLimit int
}

// RateLimitConfig caps report submissions per subject.
type RateLimitConfig struct {
	ReportsPerWindow int
	WindowMinutes    int
	Burst            int
	KeyPrefix        string
}

// AutoCloseConfig controls the sweep that closes long-resolved reports.
type AutoCloseConfig struct {
	Enabled    bool
	Schedule   string
	AfterHours int
}

// NotificationConfig points reporter and department notifications at a webhook relay.
// An empty WebhookURL turns delivery off.
type NotificationConfig struct {
	EmailFrom      string
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	maxRadius, err := strconv.ParseFloat(getEnv("GEO_MAX_RADIUS_KM", "50"), 64)
	if err != nil || maxRadius <= 0 {
		return nil, fmt.Errorf("invalid GEO_MAX_RADIUS_KM: %q", os.Getenv("GEO_MAX_RADIUS_KM"))
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "civic-issue-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("APP_NAME", "civic-issue-service"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("AUTH_JWT_SECRET", "dev-secret"),
			JWTIssuer:          os.Getenv("AUTH_JWT_ISSUER"),
			TrackingBcryptCost: getEnvAsInt("TRACKING_BCRYPT_COST", 10),
		},
		Classifier: ClassifierConfig{
			RulesPath: os.Getenv("CLASSIFIER_RULES_PATH"),
		},
		Geo: GeoConfig{
			MaxRadiusKm: maxRadius,
			NearbyLimit: getEnvAsInt("GEO_NEARBY_LIMIT", 500),
		},
		RateLimit: RateLimitConfig{
			ReportsPerWindow: getEnvAsInt("RATE_LIMIT_REPORTS_PER_WINDOW", 20),
			WindowMinutes:    getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 24*60),
			Burst:            getEnvAsInt("RATE_LIMIT_BURST", 5),
			KeyPrefix:        getEnv("RATE_LIMIT_KEY_PREFIX", "report-limit"),
		},
		AutoClose: AutoCloseConfig{
			Enabled:    getEnvAsBool("AUTO_CLOSE_ENABLED", true),
			Schedule:   getEnv("AUTO_CLOSE_SCHEDULE", "@hourly"),
			AfterHours: getEnvAsInt("AUTO_CLOSE_AFTER_HOURS", 7*24),
		},
		Notification: NotificationConfig{
			EmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5),
		},
	}

	return cfg, nil
}

// Timeout bounds a single webhook delivery.
func (n NotificationConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(r.WindowMinutes) * time.Minute
}

// After returns how long a report stays RESOLVED before the sweep closes it.
func (a AutoCloseConfig) After() time.Duration {
	return time.Duration(a.AfterHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
