package identity_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/identity"
)

func TestArticleUUIDIsDeterministic(t *testing.T) {
	first := identity.ArticleUUID("common-operations-on-java-collections")
	second := identity.ArticleUUID("common-operations-on-java-collections")

	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected stable uuid, got %s and %s", first, second)
	}
}

func TestArticleUUIDNormalizesWhitespaceAndCase(t *testing.T) {
	base := identity.ArticleUUID("jackson")
	padded := identity.ArticleUUID("  jackson  ")
	upper := identity.ArticleUUID("JACKSON")

	if base != padded {
		t.Fatalf("expected padded slug to map to same id, got %s and %s", base, padded)
	}
	if base != upper {
		t.Fatalf("expected case-insensitive slug mapping, got %s and %s", base, upper)
	}
}

func TestArticleUUIDDistinctSlugs(t *testing.T) {
	if identity.ArticleUUID("jackson") == identity.ArticleUUID("gson") {
		t.Fatal("expected distinct slugs to produce distinct ids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if identity.UUID("   ") != uuid.Nil {
		t.Fatal("expected blank key to map to uuid.Nil")
	}
}
