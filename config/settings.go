package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultTokenTTL       = time.Hour
	DefaultMediaFolder    = "portfolio_images"
	DefaultMaxUploadBytes = 10 * 1024 * 1024
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Env             string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
	LogLevel        string
	GenerateQueries bool

	Database DatabaseConfig
	Auth     AuthConfig
	Media    MediaConfig
}

type DatabaseConfig struct {
	Type       string // postgres, supa or sqlite
	DSN        string
	ReplicaDSN string
	SQLitePath string
}

type AuthConfig struct {
	JWTSecret      string
	JWTSecretParam string // SSM parameter name, resolved by ResolveSecrets
	TokenTTL       time.Duration
}

type MediaConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // S3-compatible providers; switches to path-style addressing
	PublicBaseURL   string
	Folder          string
	MaxUploadBytes  int64
}

// Load reads every setting from an environment map produced by New.
func Load(c map[string]string) Config {
	cfg := Config{
		Env:             GetString(c, "APP_ENV", "production"),
		Port:            GetString(c, "PORT", "8080"),
		ReadTimeout:     time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:    time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:     time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		LogLevel:        GetString(c, "LOG_LEVEL", "info"),
		GenerateQueries: GetString(c, "GENERATE_QUERIES", "") == "true",
		Auth: AuthConfig{
			JWTSecret:      GetString(c, "JWT_SECRET", ""),
			JWTSecretParam: GetString(c, "JWT_SECRET_SSM_PARAM", ""),
			TokenTTL:       GetDuration(c, "TOKEN_TTL", DefaultTokenTTL),
		},
		Media: MediaConfig{
			Bucket:          GetString(c, "MEDIA_BUCKET", ""),
			Region:          GetString(c, "MEDIA_REGION", "us-east-1"),
			AccessKeyID:     GetString(c, "MEDIA_ACCESS_KEY_ID", ""),
			SecretAccessKey: GetString(c, "MEDIA_SECRET_ACCESS_KEY", ""),
			Endpoint:        GetString(c, "MEDIA_ENDPOINT", ""),
			PublicBaseURL:   GetString(c, "MEDIA_PUBLIC_BASE_URL", ""),
			Folder:          GetString(c, "MEDIA_FOLDER", DefaultMediaFolder),
			MaxUploadBytes:  int64(GetInt(c, "MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		},
	}
	cfg.Database = loadDatabase(c)
	return cfg
}

func loadDatabase(c map[string]string) DatabaseConfig {
	db := DatabaseConfig{
		Type:       GetString(c, "DB_TYPE", "postgres"),
		DSN:        GetString(c, "DATABASE_URL", ""),
		ReplicaDSN: GetString(c, "DB_REPLICA_DSN", ""),
		SQLitePath: GetString(c, "SQLITE_PATH", "portfolio.db"),
	}
	if db.DSN != "" {
		return db
	}

	switch db.Type {
	case "supa":
		db.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			GetString(c, "SUPABASE_DB_HOST", ""),
			GetString(c, "SUPABASE_DB_USER", ""),
			GetString(c, "SUPABASE_DB_PASSWORD", ""),
			GetString(c, "SUPABASE_DB_NAME", ""),
			GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	case "postgres":
		db.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			GetString(c, "DB_HOST", "localhost"),
			GetString(c, "DB_USER", "postgres"),
			GetString(c, "DB_PASSWORD", ""),
			GetString(c, "DB_NAME", "portfolio"),
			GetString(c, "DB_PORT", "5432"),
			GetString(c, "DB_SSLMODE", "disable"),
		)
	}
	return db
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET (or JWT_SECRET_SSM_PARAM) is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.Database.Type {
	case "postgres", "supa", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	return nil
}
