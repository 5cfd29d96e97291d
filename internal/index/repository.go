package index

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewArticleRepository builds the low-level article repository. Records are
// identified by slug, mirroring the publishing contract.
func NewArticleRepository(db *bun.DB) repository.Repository[*ArticleRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ArticleRecord]{
		NewRecord: func() *ArticleRecord { return &ArticleRecord{} },
		GetID: func(r *ArticleRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *ArticleRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *ArticleRecord) string {
			return r.Slug
		},
	})
}
