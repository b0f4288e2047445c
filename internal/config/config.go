package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/sgchris/gresources/internal/resourcepath"
)

// DatabaseConfig holds the persistent store settings. Driver selects the
// backend: "sqlite" (default) or "postgres".
type DatabaseConfig struct {
	Driver             string
	SQLitePath         string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// LimitsConfig holds the path and payload limits enforced on every request.
type LimitsConfig struct {
	MaxPathDepth   int
	MaxNameLength  int
	MaxContentSize int64
}

// Validator returns a path validator using these limits.
func (l LimitsConfig) Validator() resourcepath.Validator {
	return resourcepath.Validator{MaxDepth: l.MaxPathDepth, MaxNameLength: l.MaxNameLength}
}

// LogConfig holds logger settings. File is the rotating operations log;
// an empty value disables it.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// MinIOConfig holds settings for mirroring resources to object storage.
type MinIOConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	AdminPort string
	OwnerID   int64
	Database  DatabaseConfig
	Limits    LimitsConfig
	Log       LogConfig
	MinIO     MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"),
		AdminPort: getEnv("ADMIN_PORT", "9090"),
		OwnerID:   getEnvInt64("OWNER_ID", 1),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:         getEnv("DB_SQLITE_PATH", "db/gresources.db"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Limits: LimitsConfig{
			MaxPathDepth:   getEnvInt("MAX_PATH_DEPTH", resourcepath.DefaultMaxDepth),
			MaxNameLength:  getEnvInt("MAX_NAME_LENGTH", resourcepath.DefaultMaxNameLength),
			MaxContentSize: getEnvInt64("MAX_CONTENT_SIZE", resourcepath.DefaultMaxContentSize),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", defaultLogFile()),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 128),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 16),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// defaultLogFile places the operations log under the user's data directory:
// %LOCALAPPDATA%\gresources on Windows, ~/.local/share/gresources elsewhere.
func defaultLogFile() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return filepath.Join(dir, "gresources", "gresources.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "gresources", "gresources.log")
	}
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
