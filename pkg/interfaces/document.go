package interfaces

import (
	"context"
	"time"
)

// DateLayout is the canonical timestamp format used by article front matter:
// a calendar date, a wall-clock time, and a numeric UTC offset. It is always
// the first layout tried on input and the only layout used on output.
const DateLayout = "2006-01-02 15:04:05 -0700"

// Format identifies the encoding of a front-matter block.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FrontMatter holds the decoded front-matter block exactly as authored, prior
// to normalization. Date fields stay raw strings so validation can distinguish
// an absent value from a malformed one. The Custom map collects keys outside
// the baseline schema; Raw preserves the complete original mapping.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Categories  []string       `yaml:"categories" json:"categories"`
	Date        string         `yaml:"date" json:"date"`
	Modified    string         `yaml:"modified" json:"modified"`
	Authors     []string       `yaml:"authors" json:"authors"`
	Excerpt     string         `yaml:"excerpt" json:"excerpt"`
	Description string         `yaml:"description" json:"description"`
	Image       string         `yaml:"image" json:"image"`
	URL         string         `yaml:"url" json:"url"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}

// Has reports whether the original mapping declared the given key, regardless
// of the decoded value. An empty list is present; a missing key is not.
func (f FrontMatter) Has(key string) bool {
	_, ok := f.Raw[key]
	return ok
}

// ArticleMetadata is the normalized metadata record produced for a document
// that passed validation. List order is preserved from the source. Extra
// carries keys outside the baseline schema so serialization keeps them.
type ArticleMetadata struct {
	Title      string         `json:"title"`
	Categories []string       `json:"categories"`
	Date       time.Time      `json:"date"`
	Modified   *time.Time     `json:"modified,omitempty"`
	Authors    []string       `json:"authors"`
	Excerpt    string         `json:"excerpt,omitempty"`
	Image      string         `json:"image,omitempty"`
	URL        string         `json:"url"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Document represents a corpus article: the raw front-matter block plus the
// free-form body that follows it. Checksum stores a SHA-256 digest of the
// original file content so incremental runs can detect changes without
// re-validating unchanged files.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Format       Format
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	Checksum     []byte
	// DecodeError records a front-matter block that could not be decoded at
	// all. The document still participates in the corpus run; the error is
	// surfaced as a violation rather than aborting the batch.
	DecodeError error
}

// ParseOptions customises Markdown body rendering, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// BodyRenderer converts Markdown article bodies into HTML. Implementations
// should be reusable across goroutines without additional locking.
type BodyRenderer interface {
	// Render converts Markdown into HTML using the renderer's default settings.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// DocumentService exposes the file workflows around corpus articles: loading
// documents from disk, serializing metadata records back to front matter, and
// rendering article bodies to HTML.
type DocumentService interface {
	Parse(ctx context.Context, source []byte) (*Document, error)
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Serialize(meta *ArticleMetadata, body []byte, format Format) ([]byte, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}
