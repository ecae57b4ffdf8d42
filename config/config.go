package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store backends
const (
	StoreSQL       = "sql"
	StoreFirestore = "firestore"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort         string        `env:"SERVER_PORT" env-default:"8080"`
	ServerHost         string        `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`

	// Document store: "sql" (gorm) or "firestore"
	StoreBackend string `env:"STORE_BACKEND" env-default:"sql"`

	// SQL configuration, DBDriver is "postgres" or "sqlite"
	DBDriver   string `env:"DB_DRIVER" env-default:"postgres"`
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" env-default:"recipehub"`
	DBSSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"recipehub.db"`

	// Firestore configuration
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`

	// Redis configuration, optional outside production
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	RedisURL      string `env:"REDIS_URL"`

	// JWT configuration
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	// TheMealDB
	MealDBBaseURL string        `env:"MEALDB_BASE_URL" env-default:"https://www.themealdb.com/api/json/v1/1"`
	MealDBTimeout time.Duration `env:"MEALDB_TIMEOUT" env-default:"10s"`

	// Comma separated list of allowed CORS origins
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	// Image uploads, disabled when the bucket is empty
	S3BucketName    string `env:"S3_BUCKET_NAME"`
	AWSRegion       string `env:"AWS_REGION" env-default:"us-east-1"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// secretFields maps Docker secret file names onto the fields they fill
func (c *Config) secretFields() map[string]*string {
	return map[string]*string{
		"db_user":        &c.DBUser,
		"db_password":    &c.DBPassword,
		"jwt_secret":     &c.JWTSecret,
		"redis_password": &c.RedisPassword,
		"redis_url":      &c.RedisURL,
	}
}

// LoadConfig reads the environment and, outside CI, overlays Docker secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if env != CI {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSecrets overrides fields with any Docker secret that is present
func loadSecrets(cfg *Config) {
	for name, field := range cfg.secretFields() {
		if value := readSecret(name); value != "" {
			*field = value
		}
	}
}

// AllowedOrigins splits CORSAllowedOrigins
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a Redis server is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
