// Package corpus validates the front matter of a blog article corpus and
// feeds the results into an article index, syndication artifacts, and watch
// mode. The package root wires the internal services together behind a single
// Module façade; hosts that need individual pieces use the accessors.
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	urlkit "github.com/goliatone/go-urlkit"
	repocache "github.com/goliatone/go-repository-cache/cache"

	corpuscmd "github.com/reflectoring/reflectoring.github.io-sub011/internal/commands/corpus"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging/gologger"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/syndication"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/validate"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/watch"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// DocumentService exports the document service contract for consumers of the
// corpus package.
type DocumentService = interfaces.DocumentService

// CorpusValidator exports the validation contract.
type CorpusValidator = interfaces.CorpusValidator

// IndexService exports the article index contract.
type IndexService = index.Service

// SyndicationService exports the feed and sitemap generator.
type SyndicationService = *syndication.Service

// Module is the top level corpus runtime façade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider

	documents *frontmatter.Service
	runner    *validate.Runner
	db        *bun.DB
	articles  index.Service
	synd      *syndication.Service
	watcher   *watch.Watcher
}

// Option overrides pieces of the module wiring.
type Option func(*moduleOptions)

type moduleOptions struct {
	db       *bun.DB
	sqlDB    *sql.DB
	provider interfaces.LoggerProvider
	renderer interfaces.BodyRenderer
}

// WithDB injects an already-configured bun database, dialect included.
func WithDB(db *bun.DB) Option {
	return func(o *moduleOptions) {
		o.db = db
	}
}

// WithSQLDB injects an open database handle. The module wraps it with the bun
// dialect matching the configured storage driver, so hosts that manage their
// own postgres connections only need to hand over the *sql.DB.
func WithSQLDB(sqlDB *sql.DB) Option {
	return func(o *moduleOptions) {
		o.sqlDB = sqlDB
	}
}

// WithLoggerProvider overrides the logger provider constructed from the
// logging configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithBodyRenderer overrides the default goldmark body renderer.
func WithBodyRenderer(renderer interfaces.BodyRenderer) Option {
	return func(o *moduleOptions) {
		o.renderer = renderer
	}
}

// New constructs a corpus module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides moduleOptions
	for _, opt := range opts {
		opt(&overrides)
	}

	provider := overrides.provider
	if provider == nil {
		p, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	}

	documents, err := frontmatter.NewService(frontmatter.Config{
		BasePath:  cfg.Corpus.ContentDir,
		Pattern:   cfg.Corpus.Pattern,
		Recursive: cfg.Corpus.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, overrides.renderer, frontmatter.WithServiceLogger(logging.FrontMatterLogger(provider)))
	if err != nil {
		return nil, err
	}

	validatorOpts := []validate.ValidatorOption{
		validate.WithValidatorLogger(logging.ValidateLogger(provider)),
	}
	if len(cfg.Validation.ExtraDateLayouts) > 0 {
		validatorOpts = append(validatorOpts, validate.WithExtraDateLayouts(cfg.Validation.ExtraDateLayouts...))
	}
	if path := strings.TrimSpace(cfg.Validation.SchemaPath); path != "" {
		overlay, err := validate.LoadSchemaOverlay(path)
		if err != nil {
			return nil, err
		}
		validatorOpts = append(validatorOpts, validate.WithSchemaOverlay(overlay))
	}

	runner := validate.NewRunner(documents.Loader(), validate.NewValidator(validatorOpts...),
		validate.WithWorkers(cfg.Validation.Workers),
		validate.WithRunnerLogger(logging.ValidateLogger(provider)),
	)

	m := &Module{
		cfg:       cfg,
		provider:  provider,
		documents: documents,
		runner:    runner,
	}

	if err := m.wireStorage(cfg, overrides); err != nil {
		return nil, err
	}
	m.wireSyndication(cfg)
	m.wireWatcher(cfg)

	return m, nil
}

func (m *Module) wireStorage(cfg Config, overrides moduleOptions) error {
	if overrides.db == nil && overrides.sqlDB == nil && !cfg.Storage.Enabled {
		return nil
	}

	db := overrides.db
	if db == nil && overrides.sqlDB != nil {
		wrapped, err := wrapDatabase(overrides.sqlDB, cfg.Storage.Driver)
		if err != nil {
			return err
		}
		db = wrapped
	}
	if db == nil {
		opened, err := openDatabase(cfg.Storage)
		if err != nil {
			return err
		}
		db = opened
	}
	m.db = db

	repo := index.NewBunArticleRepository(db)
	if cfg.Cache.Enabled {
		cacheCfg := repocache.DefaultConfig()
		if cfg.Cache.DefaultTTL > 0 {
			cacheCfg.TTL = cfg.Cache.DefaultTTL
		}
		cacheService, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			return err
		}
		repo = index.NewBunArticleRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	}

	m.articles = index.NewService(repo, index.WithLogger(logging.IndexLogger(m.provider)))
	return nil
}

func (m *Module) wireSyndication(cfg Config) {
	routeConfig := cfg.Site.RouteConfig
	if routeConfig == nil {
		if strings.TrimSpace(cfg.Site.BaseURL) == "" {
			return
		}
		routeConfig = syndication.DefaultRouteConfig(cfg.Site.BaseURL, cfg.Site.ArticlePath)
	}
	if m.articles == nil {
		return
	}

	resolver := syndication.NewURLResolver(urlkit.NewRouteManager(routeConfig), "", "")
	syndOpts := []syndication.Option{
		syndication.WithLogger(logging.SyndicationLogger(m.provider)),
	}
	if cfg.Site.FeedLimit > 0 {
		syndOpts = append(syndOpts, syndication.WithFeedLimit(cfg.Site.FeedLimit))
	}
	m.synd = syndication.NewService(m.articles, resolver, syndOpts...)
}

func (m *Module) wireWatcher(cfg Config) {
	watchOpts := []watch.Option{
		watch.WithLogger(logging.WatchLogger(m.provider)),
	}
	if cfg.Corpus.Pattern != "" {
		watchOpts = append(watchOpts, watch.WithPattern(cfg.Corpus.Pattern))
	}
	if cfg.Watch.Debounce > 0 {
		watchOpts = append(watchOpts, watch.WithDebounce(cfg.Watch.Debounce))
	}
	if m.articles != nil {
		watchOpts = append(watchOpts, watch.WithIndex(m.articles))
	}
	m.watcher = watch.New(cfg.Corpus.ContentDir, m.runner, watchOpts...)
}

func openDatabase(cfg StorageConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("corpus: open sqlite index: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres", "postgresql", "pg":
		return nil, fmt.Errorf("corpus: postgres index requires an injected connection, use WithDB or WithSQLDB")
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Driver)
	}
}

func wrapDatabase(sqlDB *sql.DB, driver string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pg":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case "", "sqlite", "sqlite3":
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Documents returns the document service (load, parse, serialize, render).
func (m *Module) Documents() DocumentService {
	return m.documents
}

// Validator returns the corpus validator.
func (m *Module) Validator() CorpusValidator {
	return m.runner
}

// Index returns the article index service, or nil when storage is disabled.
func (m *Module) Index() IndexService {
	return m.articles
}

// Syndication returns the feed and sitemap generator, or nil when no site base
// URL or route table is configured.
func (m *Module) Syndication() SyndicationService {
	return m.synd
}

// Watcher returns the filesystem watcher over the corpus root.
func (m *Module) Watcher() *watch.Watcher {
	return m.watcher
}

// DB exposes the underlying database handle for host integrations, or nil
// when storage is disabled.
func (m *Module) DB() *bun.DB {
	return m.db
}

// RegisterCommands builds the corpus command handlers over this module's
// services and registers them with reg (which may be nil to only construct
// the handlers).
func (m *Module) RegisterCommands(reg corpuscmd.CommandRegistry, opts ...corpuscmd.Option) (*corpuscmd.HandlerSet, error) {
	return corpuscmd.RegisterCorpusCommands(reg, m.runner, m.articles, m.provider, opts...)
}

// Close releases the database handle when the module opened it.
func (m *Module) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// EnsureSchema applies the embedded SQL migrations to the module's database.
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m.db == nil {
		return index.ErrStorageNotConfigured
	}
	return RunMigrations(ctx, m.db)
}
