package frontmatter_test

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

func sampleMetadata(t *testing.T) *interfaces.ArticleMetadata {
	t.Helper()
	date, err := time.Parse(interfaces.DateLayout, "2022-01-15 06:00:00 +1000")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	modified := date.Add(48 * time.Hour)

	return &interfaces.ArticleMetadata{
		Title:      "Common Operations on Java Collections",
		Categories: []string{"Java", "Collections"},
		Date:       date,
		Modified:   &modified,
		Authors:    []string{"pratikdas"},
		Excerpt:    "Operations you reach for every day.",
		Image:      "assets/img/collections.png",
		URL:        "common-operations-on-java-collections",
		Extra:      map[string]any{"series": "java-basics"},
	}
}

// metadataFromDocument reparses serialized output through the normal pipeline
// so the round trip exercises exactly what corpus runs exercise.
func metadataFromDocument(t *testing.T, source []byte) *interfaces.ArticleMetadata {
	t.Helper()

	matter, _, err := frontmatter.ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("reparse serialized document: %v", err)
	}

	date, err := time.Parse(interfaces.DateLayout, matter.Date)
	if err != nil {
		t.Fatalf("reparse date %q: %v", matter.Date, err)
	}
	meta := &interfaces.ArticleMetadata{
		Title:      matter.Title,
		Categories: matter.Categories,
		Date:       date,
		Authors:    matter.Authors,
		Excerpt:    matter.Excerpt,
		Image:      matter.Image,
		URL:        matter.URL,
		Extra:      frontmatter.ExtraFields(matter.Raw),
	}
	if matter.Modified != "" {
		modified, err := time.Parse(interfaces.DateLayout, matter.Modified)
		if err != nil {
			t.Fatalf("reparse modified %q: %v", matter.Modified, err)
		}
		meta.Modified = &modified
	}
	return meta
}

func assertMetadataEqual(t *testing.T, want, got *interfaces.ArticleMetadata) {
	t.Helper()

	if want.Title != got.Title {
		t.Fatalf("title mismatch: %q vs %q", want.Title, got.Title)
	}
	if !reflect.DeepEqual(want.Categories, got.Categories) {
		t.Fatalf("categories mismatch: %v vs %v", want.Categories, got.Categories)
	}
	if !want.Date.Equal(got.Date) {
		t.Fatalf("date mismatch: %v vs %v", want.Date, got.Date)
	}
	switch {
	case want.Modified == nil && got.Modified != nil:
		t.Fatalf("unexpected modified %v", got.Modified)
	case want.Modified != nil && (got.Modified == nil || !want.Modified.Equal(*got.Modified)):
		t.Fatalf("modified mismatch: %v vs %v", want.Modified, got.Modified)
	}
	if !reflect.DeepEqual(want.Authors, got.Authors) {
		t.Fatalf("authors mismatch: %v vs %v", want.Authors, got.Authors)
	}
	if want.Excerpt != got.Excerpt {
		t.Fatalf("excerpt mismatch: %q vs %q", want.Excerpt, got.Excerpt)
	}
	if want.Image != got.Image {
		t.Fatalf("image mismatch: %q vs %q", want.Image, got.Image)
	}
	if want.URL != got.URL {
		t.Fatalf("url mismatch: %q vs %q", want.URL, got.URL)
	}
	if want.Extra["series"] != got.Extra["series"] {
		t.Fatalf("extra mismatch: %v vs %v", want.Extra, got.Extra)
	}
}

func TestSerializeRoundTripYAML(t *testing.T) {
	meta := sampleMetadata(t)
	body := []byte("Collections are containers of elements.\n")

	out, err := frontmatter.Serialize(meta, body, interfaces.FormatYAML)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.HasSuffix(out, body) {
		t.Fatal("body must follow the front-matter block unchanged")
	}

	assertMetadataEqual(t, meta, metadataFromDocument(t, out))
}

func TestSerializeRoundTripTOML(t *testing.T) {
	meta := sampleMetadata(t)
	body := []byte("Body.\n")

	out, err := frontmatter.Serialize(meta, body, interfaces.FormatTOML)
	if err != nil {
		t.Fatalf("serialize toml: %v", err)
	}

	assertMetadataEqual(t, meta, metadataFromDocument(t, out))
}

func TestSerializeRoundTripIsIdempotent(t *testing.T) {
	meta := sampleMetadata(t)
	body := []byte("Body.\n")

	first, err := frontmatter.Serialize(meta, body, interfaces.FormatYAML)
	if err != nil {
		t.Fatalf("first serialize: %v", err)
	}
	second, err := frontmatter.Serialize(metadataFromDocument(t, first), body, interfaces.FormatYAML)
	if err != nil {
		t.Fatalf("second serialize: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("serialize is not idempotent:\n%s\nvs\n%s", first, second)
	}
}

func TestSerializeOmitsOptionalFields(t *testing.T) {
	date, _ := time.Parse(interfaces.DateLayout, "2022-01-15 06:00:00 +1000")
	meta := &interfaces.ArticleMetadata{
		Title:      "Minimal",
		Categories: []string{"Java"},
		Date:       date,
		Authors:    []string{"pratikdas"},
		URL:        "minimal",
	}

	out, err := frontmatter.SerializeMetadata(meta, interfaces.FormatYAML)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if bytes.Contains(out, []byte("modified:")) {
		t.Fatalf("expected modified omitted, got\n%s", out)
	}
	if bytes.Contains(out, []byte("excerpt:")) {
		t.Fatalf("expected excerpt omitted, got\n%s", out)
	}
}

func TestSerializeRejectsNilAndUnknownFormat(t *testing.T) {
	if _, err := frontmatter.SerializeMetadata(nil, interfaces.FormatYAML); err == nil {
		t.Fatal("expected error for nil metadata")
	}
	if _, err := frontmatter.SerializeMetadata(sampleMetadata(t), "ini"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
