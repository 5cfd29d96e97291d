package index

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

// ListOptions tunes article listing. Articles always come back newest-first
// by publication date.
type ListOptions struct {
	Limit  int
	Offset int
}

// BunArticleRepository persists article records through bun, optionally
// wrapped in a TTL cache for read-heavy hosts.
type BunArticleRepository struct {
	db   *bun.DB
	repo repository.Repository[*ArticleRecord]
}

// NewBunArticleRepository constructs an uncached repository.
func NewBunArticleRepository(db *bun.DB) *BunArticleRepository {
	return NewBunArticleRepositoryWithCache(db, nil, nil)
}

// NewBunArticleRepositoryWithCache constructs a repository with optional caching.
func NewBunArticleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArticleRepository {
	base := NewArticleRepository(db)
	return &BunArticleRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

// Upsert writes the record under its deterministic id, updating the existing
// row when the slug is already indexed. The operation is idempotent per slug.
func (r *BunArticleRepository) Upsert(ctx context.Context, record *ArticleRecord) (*ArticleRecord, error) {
	if record == nil {
		return nil, fmt.Errorf("index: cannot upsert nil record")
	}

	existing, err := r.GetBySlug(ctx, record.Slug)
	if err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("index: create article %s: %w", record.Slug, err)
		}
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(existing.ID.String()),
		repository.UpdateColumns(
			"title",
			"categories",
			"authors",
			"published_at",
			"modified_at",
			"excerpt",
			"image",
			"source_path",
			"checksum",
			"updated_at",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("index: update article %s: %w", record.Slug, err)
	}
	return updated, nil
}

// GetBySlug fetches one indexed article.
func (r *BunArticleRepository) GetBySlug(ctx context.Context, slug string) (*ArticleRecord, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return result, nil
}

// List returns indexed articles newest-first, honoring pagination.
func (r *BunArticleRepository) List(ctx context.Context, opts ListOptions) ([]*ArticleRecord, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.published_at DESC, ?TableAlias.slug ASC")
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Limit > 0 {
				q = q.Limit(opts.Limit)
			}
			if opts.Offset > 0 {
				q = q.Offset(opts.Offset)
			}
			return q
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("index: list articles: %w", err)
	}
	return records, nil
}

// Count reports the number of indexed articles.
func (r *BunArticleRepository) Count(ctx context.Context) (int, error) {
	if r.db == nil {
		return 0, ErrStorageNotConfigured
	}
	count, err := r.db.NewSelect().Model((*ArticleRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("index: count articles: %w", err)
	}
	return count, nil
}

// DeleteBySlug removes an indexed article. Deleting an unknown slug is not an
// error; watch mode fires removals for files that were never valid.
func (r *BunArticleRepository) DeleteBySlug(ctx context.Context, slug string) error {
	if r.db == nil {
		return ErrStorageNotConfigured
	}
	if _, err := r.db.NewDelete().
		Model((*ArticleRecord)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exec(ctx); err != nil {
		return fmt.Errorf("index: delete article %s: %w", slug, err)
	}
	return nil
}

// Replace swaps the whole index for the supplied records inside one
// transaction, leaving exactly the given set behind.
func (r *BunArticleRepository) Replace(ctx context.Context, records []*ArticleRecord) error {
	if r.db == nil {
		return ErrStorageNotConfigured
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ArticleRecord)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return fmt.Errorf("index: clear articles: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&records).Exec(ctx); err != nil {
			return fmt.Errorf("index: insert articles: %w", err)
		}
		return nil
	})
}

func mapRepositoryError(err error, slug string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &ArticleNotFoundError{Slug: slug}
	}
	return fmt.Errorf("index: article repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
