package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port         string
	StoreDriver  string
	MongoURI     string
	MongoDB      string
	DatabaseURL  string
	JWTSecret    string
	AdminEmail   string
	AllowOrigins string

	UploadDir       string
	UploadURLPrefix string
	FrontendURL     string
	OrderAdminEmail string

	RabbitMQURL    string
	NotifyExchange string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:     getEnvFromFile("MONGO_URI_FILE", "MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "storefront"),
		DatabaseURL:  getEnvFromFile("DATABASE_URL_FILE", "DATABASE_URL", ""),
		JWTSecret:    getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", ""),
		AdminEmail:   strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),

		UploadDir:       getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadURLPrefix: strings.TrimRight(getEnv("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		FrontendURL:     strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		OrderAdminEmail: getEnv("ORDER_ADMIN_EMAIL", ""),

		RabbitMQURL:    getEnvFromFile("RABBITMQ_URL_FILE", "RABBITMQ_URL", ""),
		NotifyExchange: getEnv("NOTIFY_EXCHANGE", "storefront.notifications"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.New("config: STORE_DRIVER must be one of mongo, postgres, memory")
	}

	if c.JWTSecret == "" {
		if c.StoreDriver != DriverMemory {
			return errors.New("config: JWT_SECRET is required")
		}
		c.JWTSecret = "dev-secret"
	}
	return nil
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
