package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the daemon, API server and CLI need. It is built
// once at process start and passed down explicitly.
type Config struct {
	// Job store
	JobsDir string

	// Space audio assets (owned by the content subsystem; read-only here)
	SpacesDir string

	// Accounts / ledger database
	AccountsDriver string // "sqlite3" or "postgres"
	SQLitePath     string
	PostgresDSN    string

	// Worker loop
	PollInterval     time.Duration
	ErrorBackoff     time.Duration
	ProgressInterval time.Duration

	// Engines
	OpenAIKey          string
	WhisperCppBinary   string
	WhisperCppModelDir string

	// Notifications
	WebhookURL    string
	WebhookSecret string

	// Artifact storage (optional)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// API server
	APIHost     string
	APIPort     string
	Environment string
}

// LoadEnv loads environment variables from a .env file if one exists. Missing
// files are not an error; system-wide environment variables still apply.
func LoadEnv() error {
	envPaths := []string{".env", ".env.local", "../.env"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load builds a Config from the environment, applying defaults.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		JobsDir:            envOr("SPACEWORKS_JOBS_DIR", "data/jobs"),
		SpacesDir:          envOr("SPACEWORKS_SPACES_DIR", "data/spaces"),
		AccountsDriver:     envOr("SPACEWORKS_ACCOUNTS_DRIVER", "sqlite3"),
		SQLitePath:         envOr("SPACEWORKS_SQLITE_PATH", "data/accounts.db"),
		PostgresDSN:        os.Getenv("SPACEWORKS_POSTGRES_DSN"),
		PollInterval:       envDuration("SPACEWORKS_POLL_INTERVAL", 5*time.Second),
		ErrorBackoff:       envDuration("SPACEWORKS_ERROR_BACKOFF", 30*time.Second),
		ProgressInterval:   envDuration("SPACEWORKS_PROGRESS_INTERVAL", 30*time.Second),
		OpenAIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		WhisperCppBinary:   os.Getenv("WHISPER_CPP_BINARY"),
		WhisperCppModelDir: envOr("WHISPER_CPP_MODEL_DIR", "models"),
		WebhookURL:         os.Getenv("SPACEWORKS_WEBHOOK_URL"),
		WebhookSecret:      os.Getenv("SPACEWORKS_WEBHOOK_SECRET"),
		MinioEndpoint:      os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:     envOr("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:     envOr("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:        envOr("MINIO_BUCKET", "spaceworks-artifacts"),
		MinioUseSSL:        os.Getenv("MINIO_USE_SSL") == "true",
		APIHost:            envOr("SPACEWORKS_API_HOST", "0.0.0.0"),
		APIPort:            envOr("SPACEWORKS_API_PORT", "8080"),
		Environment:        envOr("SPACEWORKS_ENV", "development"),
	}

	if cfg.OpenAIKey != "" && !strings.HasPrefix(cfg.OpenAIKey, "sk-") {
		return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}
	if cfg.AccountsDriver != "sqlite3" && cfg.AccountsDriver != "postgres" {
		return nil, fmt.Errorf("unsupported accounts driver %q", cfg.AccountsDriver)
	}
	if cfg.AccountsDriver == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("SPACEWORKS_POSTGRES_DSN is required when the accounts driver is postgres")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain integers are treated as seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
