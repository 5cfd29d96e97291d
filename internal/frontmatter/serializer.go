package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// ErrNilMetadata indicates a serialization call without a metadata record.
var ErrNilMetadata = errors.New("serialize front matter: metadata is nil")

// ErrUnsupportedFormat indicates a serialization format outside yaml, toml,
// and json.
var ErrUnsupportedFormat = errors.New("serialize front matter: unsupported format")

// marshalEnvelope fixes the key order of serialized front matter. Dates are
// emitted as strings in the canonical layout. Extra keys ride inline for YAML
// and are appended separately for TOML.
type marshalEnvelope struct {
	Title      string         `yaml:"title" toml:"title"`
	Categories []string       `yaml:"categories" toml:"categories"`
	Date       string         `yaml:"date" toml:"date"`
	Modified   string         `yaml:"modified,omitempty" toml:"modified,omitempty"`
	Authors    []string       `yaml:"authors" toml:"authors"`
	Excerpt    string         `yaml:"excerpt,omitempty" toml:"excerpt,omitempty"`
	Image      string         `yaml:"image,omitempty" toml:"image,omitempty"`
	URL        string         `yaml:"url" toml:"url"`
	Extra      map[string]any `yaml:",inline" toml:"-"`
}

// Serialize renders a normalized metadata record back into a complete
// document: the front-matter block in the requested format followed by the
// body exactly as supplied. Serializing a parsed document therefore
// reproduces a document that parses back to the same record and body.
func Serialize(meta *interfaces.ArticleMetadata, body []byte, format interfaces.Format) ([]byte, error) {
	block, err := SerializeMetadata(meta, format)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(block)+len(body))
	out = append(out, block...)
	out = append(out, body...)
	return out, nil
}

// SerializeMetadata renders only the delimited front-matter block for the
// requested format. An empty format defaults to YAML.
func SerializeMetadata(meta *interfaces.ArticleMetadata, format interfaces.Format) ([]byte, error) {
	if meta == nil {
		return nil, ErrNilMetadata
	}

	switch format {
	case interfaces.FormatYAML, "":
		return serializeYAML(meta)
	case interfaces.FormatTOML:
		return serializeTOML(meta)
	case interfaces.FormatJSON:
		return serializeJSON(meta)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func newMarshalEnvelope(meta *interfaces.ArticleMetadata) marshalEnvelope {
	env := marshalEnvelope{
		Title:      meta.Title,
		Categories: append([]string(nil), meta.Categories...),
		Date:       meta.Date.Format(interfaces.DateLayout),
		Authors:    append([]string(nil), meta.Authors...),
		Excerpt:    meta.Excerpt,
		Image:      meta.Image,
		URL:        meta.URL,
	}
	if meta.Modified != nil {
		env.Modified = meta.Modified.Format(interfaces.DateLayout)
	}
	if len(meta.Extra) > 0 {
		env.Extra = cloneMap(meta.Extra)
	}
	return env
}

func serializeYAML(meta *interfaces.ArticleMetadata) ([]byte, error) {
	payload, err := yaml.Marshal(newMarshalEnvelope(meta))
	if err != nil {
		return nil, fmt.Errorf("serialize front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(payload)
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

func serializeTOML(meta *interfaces.ArticleMetadata) ([]byte, error) {
	env := newMarshalEnvelope(meta)

	payload, err := toml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("serialize front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("+++\n")
	buf.Write(payload)
	if len(env.Extra) > 0 {
		extras, err := toml.Marshal(env.Extra)
		if err != nil {
			return nil, fmt.Errorf("serialize front matter extras: %w", err)
		}
		buf.Write(extras)
	}
	buf.WriteString("+++\n")
	return buf.Bytes(), nil
}

func serializeJSON(meta *interfaces.ArticleMetadata) ([]byte, error) {
	env := newMarshalEnvelope(meta)

	payload := map[string]any{
		"title":      env.Title,
		"categories": env.Categories,
		"date":       env.Date,
		"authors":    env.Authors,
		"url":        env.URL,
	}
	if env.Modified != "" {
		payload["modified"] = env.Modified
	}
	if env.Excerpt != "" {
		payload["excerpt"] = env.Excerpt
	}
	if env.Image != "" {
		payload["image"] = env.Image
	}
	for key, value := range env.Extra {
		payload[key] = value
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(out)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
