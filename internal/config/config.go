package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	defaultConfigFile = "kalasa.yaml"
)

type Config struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	TextModel    string `yaml:"text_model"`
	ImageModel   string `yaml:"image_model"`

	StoreBackend   string `yaml:"store_backend"`
	DatabaseURL    string `yaml:"database_url"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisKeyPrefix string `yaml:"redis_key_prefix"`
	SeedDemoData   bool   `yaml:"seed_demo_data"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`

	MaxUploadBytes    int64 `yaml:"max_upload_bytes"`
	MaxImageDimension int   `yaml:"max_image_dimension"`
}

func Default() Config {
	return Config{
		TextModel:         "gemini-2.5-flash",
		ImageModel:        "gemini-2.5-flash-image",
		StoreBackend:      BackendSQLite,
		DatabaseURL:       "kalasa.db",
		RedisAddr:         "localhost:6379",
		RedisKeyPrefix:    "",
		SeedDemoData:      true,
		LogLevel:          "info",
		LogFormat:         "console",
		RequestTimeout:    60 * time.Second,
		RequestsPerMinute: 15,
		MaxUploadBytes:    20 << 20,
		MaxImageDimension: 1600,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or kalasa.yaml when path is empty and that file exists), then .env, then
// the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.TextModel = getEnv("KALASA_TEXT_MODEL", c.TextModel)
	c.ImageModel = getEnv("KALASA_IMAGE_MODEL", c.ImageModel)
	c.StoreBackend = getEnv("KALASA_STORE", c.StoreBackend)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvAsInt("REDIS_DB", c.RedisDB)
	c.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", c.RedisKeyPrefix)
	c.SeedDemoData = getEnvAsBool("KALASA_SEED", c.SeedDemoData)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.RequestTimeout = getEnvAsDuration("KALASA_REQUEST_TIMEOUT", c.RequestTimeout)
	c.RequestsPerMinute = getEnvAsInt("KALASA_REQUESTS_PER_MINUTE", c.RequestsPerMinute)
	c.MaxUploadBytes = int64(getEnvAsInt("KALASA_MAX_UPLOAD_BYTES", int(c.MaxUploadBytes)))
	c.MaxImageDimension = getEnvAsInt("KALASA_MAX_IMAGE_DIMENSION", c.MaxImageDimension)
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the sqlite store")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.StoreBackend, BackendSQLite, BackendRedis)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("max image dimension cannot be negative, got %d", c.MaxImageDimension)
	}
	return nil
}

// RequireGeminiKey is checked by the commands that call the generative model.
func (c *Config) RequireGeminiKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
