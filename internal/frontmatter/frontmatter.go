package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// ErrNoFrontMatter marks a document that carries no front-matter block at
// all. The underlying parser treats delimiter-less input as pure body, so the
// absence has to be detected from the leading bytes.
var ErrNoFrontMatter = errors.New("no front-matter block found")

// baselineKeys enumerates the front-matter keys claimed by the metadata
// schema. Anything else in the mapping is an extra key that rides along
// untouched.
var baselineKeys = map[string]struct{}{
	"title":       {},
	"categories":  {},
	"date":        {},
	"modified":    {},
	"authors":     {},
	"excerpt":     {},
	"description": {},
	"image":       {},
	"url":         {},
}

// ParseFrontMatter extracts metadata and body content from the provided
// source bytes. It returns the decoded front matter, the body without
// delimiters, and any decode error. Date fields are kept as raw strings so
// callers can distinguish absent values from malformed ones.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var env frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}

	// Second decode into a plain mapping captures key presence exactly: a
	// key that is absent here was never authored, regardless of how the
	// typed envelope zero values look.
	raw := map[string]any{}
	if _, rawErr := frontmatter.Parse(bytes.NewReader(source), &raw); rawErr != nil {
		raw = map[string]any{}
	}

	return envelopeToFrontMatter(env, raw), body, nil
}

// DetectFormat inspects the leading bytes of a document and reports the
// front-matter encoding in use. Documents without a recognized delimiter
// return the empty Format.
func DetectFormat(source []byte) interfaces.Format {
	trimmed := bytes.TrimLeft(source, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("---")):
		return interfaces.FormatYAML
	case bytes.HasPrefix(trimmed, []byte("+++")):
		return interfaces.FormatTOML
	case bytes.HasPrefix(trimmed, []byte("{")):
		return interfaces.FormatJSON
	default:
		return ""
	}
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. A front-matter block that cannot be
// decoded does not fail the build; the error is recorded on the document so
// corpus runs can report it as a violation. BodyHTML is intentionally left
// empty so callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) *interfaces.Document {
	doc := &interfaces.Document{
		FilePath:     path,
		Format:       DetectFormat(source),
		LastModified: modified,
	}

	matter, body, err := ParseFrontMatter(source)
	if err != nil {
		doc.DecodeError = err
		doc.FrontMatter = interfaces.FrontMatter{Custom: map[string]any{}, Raw: map[string]any{}}
		return doc
	}

	doc.FrontMatter = matter
	doc.Body = body
	if doc.Format == "" {
		doc.DecodeError = ErrNoFrontMatter
	}
	return doc
}

// ExtraFields returns the subset of the raw mapping outside the baseline
// schema, preserving values as decoded.
func ExtraFields(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	extra := map[string]any{}
	for key, value := range raw {
		if _, known := baselineKeys[key]; known {
			continue
		}
		extra[key] = value
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title" json:"title"`
	Categories  []string       `yaml:"categories" json:"categories"`
	Date        string         `yaml:"date" json:"date"`
	Modified    string         `yaml:"modified" json:"modified"`
	Authors     []string       `yaml:"authors" json:"authors"`
	Excerpt     string         `yaml:"excerpt" json:"excerpt"`
	Description string         `yaml:"description" json:"description"`
	Image       string         `yaml:"image" json:"image"`
	URL         string         `yaml:"url" json:"url"`
	Custom      map[string]any `yaml:",inline" json:"-"`
}

func envelopeToFrontMatter(env frontMatterEnvelope, raw map[string]any) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	return interfaces.FrontMatter{
		Title:       env.Title,
		Categories:  append([]string(nil), env.Categories...),
		Date:        env.Date,
		Modified:    env.Modified,
		Authors:     append([]string(nil), env.Authors...),
		Excerpt:     env.Excerpt,
		Description: env.Description,
		Image:       env.Image,
		URL:         env.URL,
		Custom:      cloneMap(env.Custom),
		Raw:         cloneMap(raw),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
