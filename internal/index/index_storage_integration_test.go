package index_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := bunDB.NewCreateTable().Model((*index.ArticleRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create articles table: %v", err)
	}
	return bunDB
}

func metadata(t *testing.T, title, slug, published string) *interfaces.ArticleMetadata {
	t.Helper()
	date, err := time.Parse(interfaces.DateLayout, published)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return &interfaces.ArticleMetadata{
		Title:      title,
		Categories: []string{"Java"},
		Date:       date,
		Authors:    []string{"pratikdas"},
		URL:        slug,
	}
}

func TestUpsertIsIdempotentPerSlug(t *testing.T) {
	ctx := context.Background()
	repo := index.NewBunArticleRepository(newTestDB(t))

	meta := metadata(t, "Jackson", "jackson", "2022-01-15 06:00:00 +1000")

	first, err := repo.Upsert(ctx, index.NewArticleRecord(meta, "posts/jackson.md", "aa"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	meta.Title = "Jackson, Revisited"
	second, err := repo.Upsert(ctx, index.NewArticleRecord(meta, "posts/jackson.md", "bb"))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected stable id across upserts, got %s and %s", first.ID, second.ID)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after repeated upserts, got %d", count)
	}

	stored, err := repo.GetBySlug(ctx, "jackson")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if stored.Title != "Jackson, Revisited" {
		t.Fatalf("expected updated title, got %q", stored.Title)
	}
	if stored.Checksum != "bb" {
		t.Fatalf("expected updated checksum, got %q", stored.Checksum)
	}
}

func TestListNewestFirstWithPagination(t *testing.T) {
	ctx := context.Background()
	repo := index.NewBunArticleRepository(newTestDB(t))

	dates := map[string]string{
		"oldest": "2021-01-01 08:00:00 +0100",
		"middle": "2022-01-01 08:00:00 +0100",
		"newest": "2023-01-01 08:00:00 +0100",
	}
	for slug, published := range dates {
		if _, err := repo.Upsert(ctx, index.NewArticleRecord(metadata(t, slug, slug, published), slug+".md", "")); err != nil {
			t.Fatalf("upsert %s: %v", slug, err)
		}
	}

	records, err := repo.List(ctx, index.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Slug != "newest" || records[2].Slug != "oldest" {
		t.Fatalf("expected newest-first ordering, got %s..%s", records[0].Slug, records[2].Slug)
	}

	page, err := repo.List(ctx, index.ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paginated list: %v", err)
	}
	if len(page) != 1 || page[0].Slug != "middle" {
		t.Fatalf("expected the middle record, got %v", page)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	repo := index.NewBunArticleRepository(newTestDB(t))

	_, err := repo.GetBySlug(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !index.IsNotFound(err) {
		t.Fatalf("expected ArticleNotFoundError, got %v", err)
	}
}

func TestDeleteBySlugUnknownIsNoop(t *testing.T) {
	repo := index.NewBunArticleRepository(newTestDB(t))

	if err := repo.DeleteBySlug(context.Background(), "never-indexed"); err != nil {
		t.Fatalf("expected silent noop, got %v", err)
	}
}

func TestRepositoryWithCacheServesReads(t *testing.T) {
	ctx := context.Background()

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}

	repo := index.NewBunArticleRepositoryWithCache(newTestDB(t), cacheService, repocache.NewDefaultKeySerializer())

	if _, err := repo.Upsert(ctx, index.NewArticleRecord(metadata(t, "Cached", "cached", "2022-01-15 06:00:00 +1000"), "cached.md", "")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 3; i++ {
		record, err := repo.GetBySlug(ctx, "cached")
		if err != nil {
			t.Fatalf("cached read %d: %v", i, err)
		}
		if record.Slug != "cached" {
			t.Fatalf("unexpected record %+v", record)
		}
	}
}
