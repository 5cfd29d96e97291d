package interfaces

import (
	"context"
	"time"
)

// ViolationCode is a stable machine-readable identifier for a single class of
// front-matter constraint violation.
type ViolationCode string

const (
	// ViolationMissingField covers a required key that is absent, or a
	// required scalar that is present but empty.
	ViolationMissingField ViolationCode = "missing_field"
	// ViolationMalformedDate covers a date value that does not parse under
	// any accepted layout, or parses without a real calendar date.
	ViolationMalformedDate ViolationCode = "malformed_date"
	// ViolationNonMonotonicModified covers a modified timestamp earlier than
	// the publication date.
	ViolationNonMonotonicModified ViolationCode = "non_monotonic_modified"
	// ViolationDuplicateURL covers a slug declared by more than one document.
	ViolationDuplicateURL ViolationCode = "duplicate_url"
	// ViolationEmptyRequiredList covers a list key that is present but holds
	// no entries.
	ViolationEmptyRequiredList ViolationCode = "empty_required_list"
	// ViolationUnsafeSlug covers a url value containing characters outside
	// the URL-safe set.
	ViolationUnsafeSlug ViolationCode = "unsafe_slug"
	// ViolationSchema covers a failure reported by the optional JSON-Schema
	// overlay.
	ViolationSchema ViolationCode = "schema_violation"
	// ViolationInvalidFrontMatter covers a metadata block whose delimiters
	// were found but whose payload could not be decoded.
	ViolationInvalidFrontMatter ViolationCode = "invalid_front_matter"
)

// Violation describes one failed constraint on one document. Field names the
// front-matter key involved when the violation is field-scoped. Related lists
// the other documents involved in cross-document violations such as duplicate
// slugs.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
	Related []string      `json:"related,omitempty"`
}

// DocumentReport collects every violation found on a single document. Meta is
// populated only when the document produced zero violations.
type DocumentReport struct {
	FilePath   string           `json:"file_path"`
	URL        string           `json:"url,omitempty"`
	Checksum   string           `json:"checksum,omitempty"`
	Violations []Violation      `json:"violations,omitempty"`
	Meta       *ArticleMetadata `json:"meta,omitempty"`
}

// Valid reports whether the document passed every constraint.
func (r DocumentReport) Valid() bool {
	return len(r.Violations) == 0
}

// DuplicateURL records one slug collision: the slug plus every document that
// declared it, ordered by discovery.
type DuplicateURL struct {
	URL   string   `json:"url"`
	Paths []string `json:"paths"`
}

// Report is the outcome of a corpus validation run. Documents appear in
// corpus order (sorted by path). Duplicates is the global collision list;
// each collision is also mirrored onto the involved documents as a
// duplicate_url violation.
type Report struct {
	Documents  []DocumentReport `json:"documents"`
	Duplicates []DuplicateURL   `json:"duplicates,omitempty"`
	Scanned    int              `json:"scanned"`
	Valid      int              `json:"valid"`
	Invalid    int              `json:"invalid"`
	Duration   time.Duration    `json:"duration"`
}

// Violations returns the total number of violations across all documents.
func (r Report) Violations() int {
	total := 0
	for _, doc := range r.Documents {
		total += len(doc.Violations)
	}
	return total
}

// Clean reports whether the run found no violations at all.
func (r Report) Clean() bool {
	return r.Invalid == 0 && len(r.Duplicates) == 0
}

// CorpusValidator validates documents against the metadata schema, either one
// at a time or as a whole corpus batch.
type CorpusValidator interface {
	// ValidateDocument checks a single document in isolation. Cross-document
	// constraints (slug uniqueness) are out of scope at this level.
	ValidateDocument(ctx context.Context, doc *Document) DocumentReport
	// ValidateCorpus loads every matching document under dir and validates
	// the set, including slug uniqueness across the corpus.
	ValidateCorpus(ctx context.Context, dir string, opts LoadOptions) (*Report, error)
}
