package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const minJWTSecretLength = 32

// ValidateConfig checks the configuration against the current environment.
// Development and test runs may leave Redis unset and use a short secret;
// production may not.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	} else if env == Production && len(cfg.JWTSecret) < minJWTSecretLength {
		add("JWT_SECRET", fmt.Sprintf("must be at least %d characters in production", minJWTSecretLength))
	}

	if cfg.TokenTTL <= 0 {
		add("TOKEN_TTL", "must be positive")
	}
	if cfg.MealDBTimeout <= 0 {
		add("MEALDB_TIMEOUT", "must be positive")
	}

	switch cfg.StoreBackend {
	case StoreSQL:
		switch cfg.DBDriver {
		case "postgres":
			if cfg.DBHost == "" || cfg.DBName == "" {
				add("DB_HOST", "postgres driver needs DB_HOST and DB_NAME")
			}
			if env == Production && cfg.DBPassword == "" {
				add("DB_PASSWORD", "is required in production")
			}
		case "sqlite":
			if env == Production {
				add("DB_DRIVER", "sqlite is not supported in production")
			}
			if cfg.SQLitePath == "" {
				add("SQLITE_PATH", "is required for the sqlite driver")
			}
		default:
			add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver))
		}
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			add("FIRESTORE_PROJECT_ID", "is required for the firestore backend")
		}
	default:
		add("STORE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StoreBackend))
	}

	if env == Production && !cfg.RedisEnabled() {
		add("REDIS_URL", "REDIS_URL or REDIS_HOST is required in production")
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		add("LOG_FORMAT", "must be json or console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
