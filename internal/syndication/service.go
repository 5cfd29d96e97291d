// Package syndication renders downstream artifacts from the article index: a
// JSON feed of the newest articles and an XML sitemap. Absolute URLs are
// resolved through the configured route manager so the corpus tooling and the
// published site agree on the URL layout.
package syndication

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// DefaultFeedLimit caps feed length when hosts configure nothing else.
const DefaultFeedLimit = 100

// ArticleSource lists indexed articles. index.Service satisfies it; tests
// supply fakes.
type ArticleSource interface {
	List(ctx context.Context, opts index.ListOptions) ([]*index.ArticleRecord, error)
}

// FeedItem is one article entry in the JSON feed.
type FeedItem struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Published  time.Time  `json:"published"`
	Updated    *time.Time `json:"updated,omitempty"`
	Excerpt    string     `json:"excerpt,omitempty"`
	Categories []string   `json:"categories"`
	Authors    []string   `json:"authors"`
}

// Feed is the syndication document emitted for feed readers.
type Feed struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Items       []FeedItem `json:"items"`
}

// Service generates syndication artifacts from the article index.
type Service struct {
	articles ArticleSource
	resolver *URLResolver
	limit    int
	logger   interfaces.Logger
	now      func() time.Time
}

// Option configures the syndication service.
type Option func(*Service)

// WithFeedLimit overrides the default feed cap. Values below one keep the
// default.
func WithFeedLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithLogger injects the syndication logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the generation timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a syndication service over an article source and URL
// resolver.
func NewService(articles ArticleSource, resolver *URLResolver, opts ...Option) *Service {
	svc := &Service{
		articles: articles,
		resolver: resolver,
		limit:    DefaultFeedLimit,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Feed renders the newest articles as a JSON feed. A limit below one falls
// back to the configured cap.
func (s *Service) Feed(ctx context.Context, limit int) ([]byte, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	records, err := s.articles.List(ctx, index.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("syndication: load feed articles: %w", err)
	}

	feed := Feed{
		GeneratedAt: s.now().UTC(),
		Items:       make([]FeedItem, 0, len(records)),
	}
	for _, record := range records {
		url, err := s.resolver.ArticleURL(record.Slug)
		if err != nil {
			return nil, err
		}
		item := FeedItem{
			Title:      record.Title,
			URL:        url,
			Published:  record.PublishedAt,
			Categories: append([]string(nil), record.Categories...),
			Authors:    append([]string(nil), record.Authors...),
		}
		if record.ModifiedAt != nil {
			updated := *record.ModifiedAt
			item.Updated = &updated
		}
		if record.Excerpt != nil {
			item.Excerpt = *record.Excerpt
		}
		feed.Items = append(feed.Items, item)
	}

	payload, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("syndication: encode feed: %w", err)
	}

	s.logger.Debug("syndication.feed.generated", "items", len(feed.Items))
	return append(payload, '\n'), nil
}

// Sitemap renders an XML urlset with one entry per indexed article. lastmod
// prefers the modification timestamp and falls back to the publication date.
func (s *Service) Sitemap(ctx context.Context) ([]byte, error) {
	records, err := s.articles.List(ctx, index.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("syndication: load sitemap articles: %w", err)
	}

	type entry struct {
		location string
		lastMod  time.Time
	}

	entries := make([]entry, 0, len(records))
	seen := map[string]struct{}{}
	for _, record := range records {
		url, err := s.resolver.ArticleURL(record.Slug)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}

		lastMod := record.PublishedAt
		if record.ModifiedAt != nil {
			lastMod = *record.ModifiedAt
		}
		entries = append(entries, entry{location: url, lastMod: lastMod})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].location < entries[j].location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.location)))
		if !entry.lastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.lastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")

	s.logger.Debug("syndication.sitemap.generated", "entries", len(entries))
	return []byte(builder.String()), nil
}

func escapeXML(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}
