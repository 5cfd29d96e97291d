package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	urlkit "github.com/goliatone/go-urlkit"
)

var ErrContentDirRequired = errors.New("corpus config: content directory is required")
var ErrPatternInvalid = errors.New("corpus config: document pattern is not a valid glob")
var ErrWorkersInvalid = errors.New("corpus config: worker count must be zero or positive")
var ErrDateLayoutEmpty = errors.New("corpus config: extra date layouts must not be empty strings")
var ErrStorageDriverUnknown = errors.New("corpus config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("corpus config: storage DSN is required when the index is enabled")
var ErrCacheTTLInvalid = errors.New("corpus config: cache TTL must be zero or positive")
var ErrFeedLimitInvalid = errors.New("corpus config: feed limit must be zero or positive")
var ErrSiteBaseURLRequired = errors.New("corpus config: site base URL is required for syndication")
var ErrWatchDebounceInvalid = errors.New("corpus config: watch debounce must be zero or positive")
var ErrLoggingLevelInvalid = errors.New("corpus config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("corpus config: logging format is invalid")

// Config aggregates runtime settings for the corpus module. Fields use simple
// types so host applications can populate them from flags, env vars, or their
// own configuration layers.
type Config struct {
	Corpus     CorpusConfig
	Validation ValidationConfig
	Markdown   MarkdownConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Site       SiteConfig
	Watch      WatchConfig
	Logging    LoggingConfig
}

// CorpusConfig locates the article files on disk.
type CorpusConfig struct {
	ContentDir string
	Pattern    string
	Recursive  bool
}

// ValidationConfig tunes the corpus validation run.
type ValidationConfig struct {
	// Workers bounds parallel document validation. Zero selects one worker
	// per CPU.
	Workers int
	// ExtraDateLayouts lists additional accepted timestamp layouts. The
	// canonical layout is always tried first and never needs listing.
	ExtraDateLayouts []string
	// SchemaPath points at an optional JSON-Schema document applied to the
	// raw front-matter mapping on top of the baseline field rules.
	SchemaPath string
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration of
// body rendering.
type MarkdownConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// StorageConfig selects the article index database.
type StorageConfig struct {
	Enabled bool
	Driver  string
	DSN     string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// SiteConfig feeds syndication output. RouteConfig overrides the route table
// derived from BaseURL when hosts need full control over URL layout.
type SiteConfig struct {
	BaseURL     string
	ArticlePath string
	FeedLimit   int
	RouteConfig *urlkit.Config
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	Debounce time.Duration
}

// LoggingConfig captures go-logger options for runtime logging.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for validating a blog corpus
// checked out in the working directory.
func DefaultConfig() Config {
	return Config{
		Corpus: CorpusConfig{
			ContentDir: "content",
			Pattern:    "**/*.md",
			Recursive:  true,
		},
		Validation: ValidationConfig{
			Workers: 0,
		},
		Markdown: MarkdownConfig{},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:corpus.db?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Site: SiteConfig{
			ArticlePath: "/blog/:slug",
			FeedLimit:   100,
		},
		Watch: WatchConfig{
			Debounce: 50 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Corpus.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Corpus.Pattern); pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %s", ErrPatternInvalid, pattern)
		}
	}
	if cfg.Validation.Workers < 0 {
		return ErrWorkersInvalid
	}
	for _, layout := range cfg.Validation.ExtraDateLayouts {
		if strings.TrimSpace(layout) == "" {
			return ErrDateLayoutEmpty
		}
	}
	if cfg.Storage.Enabled {
		if !isSupportedDriver(cfg.Storage.Driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Site.FeedLimit < 0 {
		return ErrFeedLimitInvalid
	}
	if cfg.Watch.Debounce < 0 {
		return ErrWatchDebounceInvalid
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func isSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
