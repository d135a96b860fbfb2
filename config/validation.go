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

// ValidateConfig checks that the configuration is internally consistent.
// All problems are reported together.
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "must be set")
	}

	switch cfg.CustomFoodStore {
	case StoreMemory, StoreRedis, StoreSQL:
	default:
		add("CUSTOM_FOOD_STORE", fmt.Sprintf("unknown store %q", cfg.CustomFoodStore))
	}

	switch cfg.MealStore {
	case StoreMemory, StoreRedis:
	default:
		add("MEAL_STORE", fmt.Sprintf("unknown store %q", cfg.MealStore))
	}

	if cfg.CustomFoodStore == StoreSQL {
		switch cfg.DBDriver {
		case "sqlite":
			if cfg.DBPath == "" {
				add("DB_PATH", "required for the sqlite driver")
			}
		case "postgres":
			if cfg.DBHost == "" || cfg.DBName == "" {
				add("DB_HOST", "host and name are required for the postgres driver")
			}
			if cfg.DBPassword == "" && IsProduction() {
				add("DB_PASSWORD", "db_password secret is required in production")
			}
		default:
			add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
		}
	}

	if cfg.DebounceWindow <= 0 {
		add("DEBOUNCE_WINDOW", "must be positive")
	}
	if cfg.ImageAnalysisDelay < 0 {
		add("IMAGE_ANALYSIS_DELAY", "must not be negative")
	}
	if cfg.AIRequestsPerHour < 0 {
		add("AI_REQUESTS_PER_HOUR", "must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
