package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"hotlunchhub/pkg/logger"
)

const (
	AuthProviderSupabase = "supabase"
	AuthProviderLocal    = "local"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Supabase    SupabaseConfig
	Auth        AuthConfig
	Users       UsersConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Sentry      SentryConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	JWKSURL        string
	StorageBucket  string
	Timeout        time.Duration
}

type AuthConfig struct {
	Provider         string
	LocalJWTSecret   string
	TokenTTL         time.Duration
	BcryptCost       int
	SkipAuth         bool
	MockUserID       string
	MockUserEmail    string
	ProfileCacheSize int
	ProfileCacheTTL  time.Duration
}

type UsersConfig struct {
	// UnknownRoleNoop keeps the historical behaviour where an unrecognised
	// role creates identity and profile but no role record, and still succeeds.
	UnknownRoleNoop       bool
	Compensate            bool
	IdempotencyTTL        time.Duration
	FunctionsRequireAdmin bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type SentryConfig struct {
	DSN         string
	Environment string
	SampleRate  float64
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := getEnv("ENV", "development")
	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         env,
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "hotlunchhub"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", getEnv("EXPO_PUBLIC_SUPABASE_ANON_KEY", "")),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			JWKSURL:        getEnv("SUPABASE_JWKS_URL", ""),
			StorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "images"),
			Timeout:        getEnvDuration("SUPABASE_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Provider:         strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderSupabase)),
			LocalJWTSecret:   getEnv("AUTH_LOCAL_JWT_SECRET", ""),
			TokenTTL:         getEnvDuration("AUTH_TOKEN_TTL", time.Hour),
			BcryptCost:       getEnvInt("AUTH_BCRYPT_COST", 10),
			SkipAuth:         getEnvBool("AUTH_SKIP", false),
			MockUserID:       getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:    getEnv("AUTH_MOCK_USER_EMAIL", "admin@hotlunchhub.local"),
			ProfileCacheSize: getEnvInt("AUTH_PROFILE_CACHE_SIZE", 1024),
			ProfileCacheTTL:  getEnvDuration("AUTH_PROFILE_CACHE_TTL", time.Minute),
		},
		Users: UsersConfig{
			UnknownRoleNoop:       getEnvBool("USERS_UNKNOWN_ROLE_NOOP", true),
			Compensate:            getEnvBool("USERS_COMPENSATE", true),
			IdempotencyTTL:        getEnvDuration("USERS_IDEMPOTENCY_TTL", 24*time.Hour),
			FunctionsRequireAdmin: getEnvBool("FUNCTIONS_REQUIRE_ADMIN", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "hotlunchhub.events"),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SENTRY_ENVIRONMENT", env),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Auth.Provider {
	case AuthProviderSupabase:
		if c.Auth.SkipAuth {
			return nil
		}
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required for auth provider %q", c.Auth.Provider)
		}
	case AuthProviderLocal:
		if c.Auth.LocalJWTSecret == "" {
			return fmt.Errorf("AUTH_LOCAL_JWT_SECRET is required for auth provider %q", c.Auth.Provider)
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// MigrationURL returns the pgx5:// URL golang-migrate expects.
func (c DBConfig) MigrationURL() string {
	if c.DSN != "" {
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(c.DSN, prefix) {
				return "pgx5://" + strings.TrimPrefix(c.DSN, prefix)
			}
		}
	}
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
