package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Dataset sources
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

// Config 应用配置
type Config struct {
	Port          string
	DatasetPath   string
	DatasetSource string // json, sqlite
	DBPath        string
	ImageRoot     string
	JWTSecret     string
	SessionTTL    time.Duration
	TokenTTL      time.Duration
	RateLimit     int           // Maximum overlay renders per window per client
	RateWindow    time.Duration
	JPEGQuality   int
	LogLevel      slog.Level
}

// Load 加载配置. Values in a .env file are applied first; real environment
// variables take precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Error loading .env file", "err", err)
	}

	datasetPath := getEnv("DATASET_PATH", "./assets/data/index.json")

	imageRoot := os.Getenv("IMAGE_ROOT")
	if imageRoot == "" {
		imageRoot = dirOf(datasetPath)
	}

	return &Config{
		Port:          getEnv("PORT", ":8080"),
		DatasetPath:   datasetPath,
		DatasetSource: strings.ToLower(getEnv("DATASET_SOURCE", SourceJSON)),
		DBPath:        getEnv("DB_PATH", "./data/catalog/catalog.db"),
		ImageRoot:     imageRoot,
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SessionTTL:    getDuration("SESSION_TTL", 30*time.Minute),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		RateLimit:     getInt("RATE_LIMIT", 60),
		RateWindow:    getDuration("RATE_WINDOW", time.Minute),
		JPEGQuality:   getInt("JPEG_QUALITY", 85),
		LogLevel:      getLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DatasetSource != SourceJSON && c.DatasetSource != SourceSQLite {
		return fmt.Errorf("DATASET_SOURCE must be %q or %q, got %q", SourceJSON, SourceSQLite, c.DatasetSource)
	}
	if c.DatasetSource == SourceSQLite && c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required when DATASET_SOURCE is %q", SourceSQLite)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.SessionTTL < 0 || c.TokenTTL < 0 {
		return fmt.Errorf("SESSION_TTL and TOKEN_TTL must not be negative")
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT must be positive")
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring invalid duration setting", "key", key, "value", v)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("Ignoring invalid log level", "key", key, "value", v)
		return fallback
	}
	return level
}

func dirOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[:i]
	}
	return "."
}
