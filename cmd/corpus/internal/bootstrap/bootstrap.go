// Package bootstrap assembles a corpus module from CLI flags and environment
// variables so every verb shares the same construction path.
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	corpus "github.com/reflectoring/reflectoring.github.io-sub011"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging/gologger"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// Env variable names honored by the CLI. Flags win over the environment.
const (
	EnvContentDir = "CORPUS_CONTENT_DIR"
	EnvPattern    = "CORPUS_PATTERN"
	EnvDBDriver   = "CORPUS_DB_DRIVER"
	EnvDBDSN      = "CORPUS_DB_DSN"
	EnvBaseURL    = "CORPUS_BASE_URL"
	EnvLogLevel   = "CORPUS_LOG_LEVEL"
)

// LoadEnv loads environment variables from the given dotenv file, or from
// ./.env when the path is empty. A missing file is not an error.
func LoadEnv(path string) {
	if strings.TrimSpace(path) != "" {
		_ = godotenv.Load(path)
		return
	}
	_ = godotenv.Load()
}

// Getenv returns the environment value for key, or fallback when unset.
func Getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// GetenvInt returns the integer environment value for key, or fallback when
// unset or unparsable.
func GetenvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

// Options captures the configuration surface exposed by the CLI.
type Options struct {
	ContentDir     string
	Pattern        string
	Workers        int
	SchemaPath     string
	StorageEnabled bool
	DBDriver       string
	DBDSN          string
	BaseURL        string
	FeedLimit      int
	Debounce       time.Duration
	LogLevel       string
}

// Module wraps the corpus module together with a CLI-scoped logger.
type Module struct {
	Corpus *corpus.Module
	Logger interfaces.Logger
}

// BuildModule constructs a corpus module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := corpus.DefaultConfig()

	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Corpus.ContentDir = dir
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Corpus.Pattern = pattern
	}
	if opts.Workers > 0 {
		cfg.Validation.Workers = opts.Workers
	}
	if schema := strings.TrimSpace(opts.SchemaPath); schema != "" {
		cfg.Validation.SchemaPath = schema
	}

	cfg.Storage.Enabled = opts.StorageEnabled
	if driver := strings.TrimSpace(opts.DBDriver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := strings.TrimSpace(opts.DBDSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}

	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	if opts.FeedLimit > 0 {
		cfg.Site.FeedLimit = opts.FeedLimit
	}
	if opts.Debounce > 0 {
		cfg.Watch.Debounce = opts.Debounce
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	cfg.Logging.Format = "console"

	module, err := corpus.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise corpus module: %w", err)
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Focus:     cfg.Logging.Focus,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise cli logger: %w", err)
	}

	return &Module{
		Corpus: module,
		Logger: logging.ComponentLogger(provider, "corpus.cli"),
	}, nil
}
