package frontmatter_test

import (
	"strings"
	"testing"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
)

func TestDeriveExcerptSkipsHeadingsAndCode(t *testing.T) {
	body := []byte("## Introduction\n\n```java\nList<String> names;\n```\n\nCollections hold *elements* and expose [operations](https://example.com) over them.\n\nSecond paragraph.\n")

	got := frontmatter.DeriveExcerpt(body, 0)
	want := "Collections hold elements and expose operations over them."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDeriveExcerptJoinsWrappedParagraph(t *testing.T) {
	body := []byte("First line of the paragraph\ncontinues on the second line.\n\nNext paragraph.\n")

	got := frontmatter.DeriveExcerpt(body, 0)
	if got != "First line of the paragraph continues on the second line." {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestDeriveExcerptTruncatesAtWordBoundary(t *testing.T) {
	body := []byte("alpha beta gamma delta epsilon\n")

	got := frontmatter.DeriveExcerpt(body, 12)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if strings.Contains(got, "gamma") {
		t.Fatalf("expected truncation before limit, got %q", got)
	}
}

func TestDeriveExcerptEmptyBody(t *testing.T) {
	if got := frontmatter.DeriveExcerpt([]byte("## Only a heading\n"), 0); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}
