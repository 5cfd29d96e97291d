package index

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/identity"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// ArticleRecord is the persisted projection of a validated article. The id is
// derived deterministically from the slug, the ordered lists are stored as
// JSON arrays, and the source path plus checksum support change detection on
// incremental runs.
type ArticleRecord struct {
	bun.BaseModel `bun:"table:articles,alias:ar"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Categories  []string   `bun:"categories,type:jsonb,notnull" json:"categories"`
	Authors     []string   `bun:"authors,type:jsonb,notnull" json:"authors"`
	PublishedAt time.Time  `bun:"published_at,notnull" json:"published_at"`
	ModifiedAt  *time.Time `bun:"modified_at,nullzero" json:"modified_at,omitempty"`
	Excerpt     *string    `bun:"excerpt" json:"excerpt,omitempty"`
	Image       *string    `bun:"image" json:"image,omitempty"`
	SourcePath  string     `bun:"source_path,notnull" json:"source_path"`
	Checksum    string     `bun:"checksum,notnull,default:''" json:"checksum"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewArticleRecord maps a normalized metadata record onto its index row.
func NewArticleRecord(meta *interfaces.ArticleMetadata, sourcePath, checksum string) *ArticleRecord {
	if meta == nil {
		return nil
	}

	record := &ArticleRecord{
		ID:          identity.ArticleUUID(meta.URL),
		Slug:        meta.URL,
		Title:       meta.Title,
		Categories:  append([]string(nil), meta.Categories...),
		Authors:     append([]string(nil), meta.Authors...),
		PublishedAt: meta.Date,
		SourcePath:  sourcePath,
		Checksum:    checksum,
	}
	if meta.Modified != nil {
		modified := *meta.Modified
		record.ModifiedAt = &modified
	}
	if excerpt := strings.TrimSpace(meta.Excerpt); excerpt != "" {
		record.Excerpt = &excerpt
	}
	if image := strings.TrimSpace(meta.Image); image != "" {
		record.Image = &image
	}
	return record
}

// Metadata converts the row back into the normalized metadata shape used by
// serialization and syndication.
func (r *ArticleRecord) Metadata() *interfaces.ArticleMetadata {
	if r == nil {
		return nil
	}

	meta := &interfaces.ArticleMetadata{
		Title:      r.Title,
		Categories: append([]string(nil), r.Categories...),
		Date:       r.PublishedAt,
		Authors:    append([]string(nil), r.Authors...),
		URL:        r.Slug,
	}
	if r.ModifiedAt != nil {
		modified := *r.ModifiedAt
		meta.Modified = &modified
	}
	if r.Excerpt != nil {
		meta.Excerpt = *r.Excerpt
	}
	if r.Image != nil {
		meta.Image = *r.Image
	}
	return meta
}
