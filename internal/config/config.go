package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName      string
	Environment  string
	Store        StoreConfig
	Orchestrator OrchestratorConfig
	Logger       LoggerConfig
}

// StoreConfig controls the reactive task store.
type StoreConfig struct {
	// Latency is the simulated result-delivery delay applied to every
	// store operation.
	Latency time.Duration
	// Seed pre-populates the store with the demo tasks at startup.
	Seed bool
}

// OrchestratorConfig controls presentation-facing behavior.
type OrchestratorConfig struct {
	// SuccessMessageTTL is how long success messages stay on screen.
	SuccessMessageTTL time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
	Path     string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the application can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskdeck"),
		Environment: getString("APP_ENV", "development"),
		Store: StoreConfig{
			Latency: getDuration("STORE_LATENCY", 300*time.Millisecond),
			Seed:    getBool("STORE_SEED", true),
		},
		Orchestrator: OrchestratorConfig{
			SuccessMessageTTL: getDuration("SUCCESS_MESSAGE_TTL", 3*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
			Path:     getString("LOG_FILE", "taskdeck.log"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
