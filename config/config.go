package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"craftshare/internal/domain/policy"

	"github.com/joho/godotenv"
)

// ContentRules are the validation constants shared by the handlers.
type ContentRules struct {
	// Accounts must be strictly older than this to see restricted posts.
	AgeRestrictedContentAge int
	AccountMinAge           int
	ImageExtensions         []string
	MaxImageBytes           int64
}

func (r ContentRules) Policy() policy.Rules {
	return policy.Rules{
		AgeRestrictedContentAge: r.AgeRestrictedContentAge,
		AccountMinAge:           r.AccountMinAge,
	}
}

type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectRetries     uint64
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// StorageConfig selects the image backend: local disk in development,
// S3-compatible object storage otherwise.
type StorageConfig struct {
	MediaRoot string
	MediaURL  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	PresignTTL     time.Duration
}

func (s StorageConfig) UseMinIO() bool { return s.MinIOEndpoint != "" }

type RedisConfig struct {
	URL         string
	CategoryTTL time.Duration
}

type GoogleConfig struct {
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	FrontendRedirect string
}

func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type Config struct {
	Port        string
	Debug       bool
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Google   GoogleConfig
	Content  ContentRules
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present; real environment variables take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found. Using system environment variables.")
	}

	dbURL, err := mustEnv("DB_URL")
	if err != nil {
		return nil, err
	}
	secret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Debug:       getEnvBool("DEBUG", false),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: getEnvList("CORS_ORIGIN", []string{"http://localhost:5173"}),
		Database: DatabaseConfig{
			URL:                dbURL,
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectRetries:     uint64(getEnvInt("DB_CONNECT_RETRIES", 5)),
		},
		JWT: JWTConfig{
			Secret:     secret,
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			MediaRoot:      getEnv("MEDIA_ROOT", "media"),
			MediaURL:       getEnv("MEDIA_URL", "/media/"),
			MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinIOBucket:    getEnv("MINIO_BUCKET", ""),
			MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PresignTTL:     getEnvDuration("MINIO_PRESIGN_TTL", time.Hour),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			CategoryTTL: getEnvDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
		},
		Google: GoogleConfig{
			ClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
			FrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),
		},
		Content: ContentRules{
			AgeRestrictedContentAge: getEnvInt("AGE_RESTRICTED_CONTENT_AGE", 16),
			AccountMinAge:           getEnvInt("ACCOUNT_MIN_AGE", 13),
			ImageExtensions:         getEnvList("IMAGE_EXTENSIONS", []string{"jpg", "jpeg", "png", "webp"}),
			MaxImageBytes:           int64(getEnvInt("MAX_IMAGE_BYTES", 5<<20)),
		},
	}

	for i, ext := range cfg.Content.ImageExtensions {
		cfg.Content.ImageExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return cfg, nil
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required environment variable: %s", key)
	}
	return v, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
