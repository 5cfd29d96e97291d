package frontmatter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// Config controls how the document service discovers and parses article files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.DocumentService for filesystem-backed corpora.
type Service struct {
	cfg      Config
	renderer interfaces.BodyRenderer
	loader   *Loader
	logger   interfaces.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger injects the front-matter logger.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a document service over the configured base path. When
// renderer is nil a goldmark renderer with the configured defaults is used.
func NewService(cfg Config, renderer interfaces.BodyRenderer, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if renderer == nil {
		renderer = NewGoldmarkRenderer(cfg.Parser)
	}

	svc := &Service{
		cfg:      cfg,
		renderer: renderer,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// NewServiceWithFS constructs a document service over an explicit filesystem,
// primarily for tests and embedded corpora.
func NewServiceWithFS(filesystem fs.FS, cfg Config, renderer interfaces.BodyRenderer, opts ...ServiceOption) *Service {
	if renderer == nil {
		renderer = NewGoldmarkRenderer(cfg.Parser)
	}
	svc := &Service{
		cfg:      cfg,
		renderer: renderer,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Loader exposes the underlying loader so the corpus runner can walk the same
// file set the service serves.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Parse decodes raw document text without touching the filesystem.
func (s *Service) Parse(ctx context.Context, source []byte) (*interfaces.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return BuildDocument("", source, time.Time{}), nil
}

// Load reads a single article document relative to the configured base path.
// Rendering is deferred; callers that need HTML use RenderDocument.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every article document within the supplied directory,
// sorted by path.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}

	s.logger.Debug("documents.load_directory", "dir", dir, "count", len(docs))
	return docs, nil
}

// Serialize renders a normalized metadata record plus body back into
// front-matter text.
func (s *Service) Serialize(meta *interfaces.ArticleMetadata, body []byte, format interfaces.Format) ([]byte, error) {
	return Serialize(meta, body, format)
}

// Render parses Markdown bytes into HTML using the configured renderer.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.renderer.RenderWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document's Markdown body into HTML and caches
// the result on the document.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("document service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, fmt.Errorf("render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func toLoaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("document service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}

var _ interfaces.DocumentService = (*Service)(nil)
