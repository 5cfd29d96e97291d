package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// Summary aggregates the outcome of an index run.
type Summary struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Removed int `json:"removed"`
}

// Service mirrors a validation report into the article index. The index
// follows the file set: valid documents are upserted, invalid documents are
// skipped, and a rebuild leaves exactly the valid set behind.
type Service interface {
	IndexReport(ctx context.Context, report *interfaces.Report) (*Summary, error)
	Rebuild(ctx context.Context, report *interfaces.Report) (*Summary, error)
	GetBySlug(ctx context.Context, slug string) (*ArticleRecord, error)
	List(ctx context.Context, opts ListOptions) ([]*ArticleRecord, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type service struct {
	articles *BunArticleRepository
	logger   interfaces.Logger
}

// ServiceOption configures the index service.
type ServiceOption func(*service)

// WithLogger injects the index logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the index service over an article repository.
func NewService(articles *BunArticleRepository, opts ...ServiceOption) Service {
	svc := &service{
		articles: articles,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// IndexReport upserts every valid document from the report. Documents without
// metadata (violations, duplicates) are skipped and counted; a failing upsert
// does not abort the remaining documents.
func (s *service) IndexReport(ctx context.Context, report *interfaces.Report) (*Summary, error) {
	if s.articles == nil {
		return nil, ErrStorageNotConfigured
	}
	if report == nil {
		return &Summary{}, nil
	}

	summary := &Summary{}
	var errs []error

	for _, doc := range report.Documents {
		if doc.Meta == nil {
			summary.Skipped++
			continue
		}
		record := NewArticleRecord(doc.Meta, doc.FilePath, doc.Checksum)
		if _, err := s.articles.Upsert(ctx, record); err != nil {
			summary.Skipped++
			errs = append(errs, fmt.Errorf("index %s: %w", doc.FilePath, err))
			continue
		}
		summary.Indexed++
	}

	s.logger.Info("index.report.done",
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"errors", len(errs),
	)
	return summary, errors.Join(errs...)
}

// Rebuild replaces the whole index with the report's valid set inside one
// transaction.
func (s *service) Rebuild(ctx context.Context, report *interfaces.Report) (*Summary, error) {
	if s.articles == nil {
		return nil, ErrStorageNotConfigured
	}

	before, err := s.articles.Count(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	var records []*ArticleRecord
	if report != nil {
		for _, doc := range report.Documents {
			if doc.Meta == nil {
				summary.Skipped++
				continue
			}
			records = append(records, NewArticleRecord(doc.Meta, doc.FilePath, doc.Checksum))
		}
	}

	if err := s.articles.Replace(ctx, records); err != nil {
		return nil, err
	}
	summary.Indexed = len(records)
	if removed := before - len(records); removed > 0 {
		summary.Removed = removed
	}

	s.logger.Info("index.rebuild.done",
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"removed", summary.Removed,
	)
	return summary, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ArticleRecord, error) {
	if s.articles == nil {
		return nil, ErrStorageNotConfigured
	}
	return s.articles.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*ArticleRecord, error) {
	if s.articles == nil {
		return nil, ErrStorageNotConfigured
	}
	return s.articles.List(ctx, opts)
}

func (s *service) DeleteBySlug(ctx context.Context, slug string) error {
	if s.articles == nil {
		return ErrStorageNotConfigured
	}
	if err := s.articles.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	s.logger.Debug("index.article.removed", "slug", slug)
	return nil
}
