package validate_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/validate"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

func buildDoc(t *testing.T, source string) *interfaces.Document {
	t.Helper()
	return frontmatter.BuildDocument("content/article.md", []byte(source), time.Now())
}

func violationCodes(report interfaces.DocumentReport) []interfaces.ViolationCode {
	codes := make([]interfaces.ViolationCode, 0, len(report.Violations))
	for _, violation := range report.Violations {
		codes = append(codes, violation.Code)
	}
	return codes
}

func hasViolation(report interfaces.DocumentReport, code interfaces.ViolationCode, field string) bool {
	for _, violation := range report.Violations {
		if violation.Code == code && violation.Field == field {
			return true
		}
	}
	return false
}

func TestValidateDocumentCleanArticle(t *testing.T) {
	doc := buildDoc(t, `---
title: "X"
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: common-operations-on-java-collections
---
Body text.
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !report.Valid() {
		t.Fatalf("expected zero violations, got %v", report.Violations)
	}
	if report.Meta == nil {
		t.Fatal("expected metadata on a clean document")
	}
	if report.Meta.Title != "X" {
		t.Fatalf("unexpected title %q", report.Meta.Title)
	}
	if report.Meta.URL != "common-operations-on-java-collections" {
		t.Fatalf("unexpected url %q", report.Meta.URL)
	}
	if report.Meta.Modified != nil {
		t.Fatalf("expected nil modified, got %v", report.Meta.Modified)
	}
	if got := report.Meta.Date.Format(interfaces.DateLayout); got != "2022-01-15 06:00:00 +1000" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestValidateDocumentReportsEveryMissingField(t *testing.T) {
	doc := buildDoc(t, `---
image: assets/img/cover.png
---
Body.
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	for _, field := range []string{"title", "categories", "date", "authors", "url"} {
		if !hasViolation(report, interfaces.ViolationMissingField, field) {
			t.Fatalf("expected missing_field for %s, got %v", field, report.Violations)
		}
	}
	if report.Meta != nil {
		t.Fatal("expected no metadata for an invalid document")
	}
}

func TestValidateDocumentEmptyRequiredList(t *testing.T) {
	doc := buildDoc(t, `---
title: Empty lists
categories: []
date: 2022-01-15 06:00:00 +1000
authors: []
url: empty-lists
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationEmptyRequiredList, "categories") {
		t.Fatalf("expected empty_required_list for categories, got %v", violationCodes(report))
	}
	if !hasViolation(report, interfaces.ViolationEmptyRequiredList, "authors") {
		t.Fatalf("expected empty_required_list for authors, got %v", violationCodes(report))
	}
	if hasViolation(report, interfaces.ViolationMissingField, "categories") {
		t.Fatal("authored empty list must not double as missing field")
	}
}

func TestValidateDocumentMalformedDate(t *testing.T) {
	doc := buildDoc(t, `---
title: Bad date
categories: ["Java"]
date: 2022-02-30 06:00:00 +1000
authors: [pratikdas]
url: bad-date
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationMalformedDate, "date") {
		t.Fatalf("expected malformed_date, got %v", violationCodes(report))
	}
}

func TestValidateDocumentNonMonotonicModified(t *testing.T) {
	doc := buildDoc(t, `---
title: Stale edit stamp
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
modified: 2021-12-01 06:00:00 +1000
authors: [pratikdas]
url: stale-edit
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationNonMonotonicModified, "modified") {
		t.Fatalf("expected non_monotonic_modified, got %v", violationCodes(report))
	}
}

func TestValidateDocumentModifiedEqualToDateIsAllowed(t *testing.T) {
	doc := buildDoc(t, `---
title: Same instant
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
modified: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: same-instant
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !report.Valid() {
		t.Fatalf("expected valid document, got %v", report.Violations)
	}
	if report.Meta.Modified == nil {
		t.Fatal("expected modified timestamp on metadata")
	}
}

func TestValidateDocumentUnsafeSlug(t *testing.T) {
	doc := buildDoc(t, `---
title: Unsafe slug
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: "java collections & more"
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationUnsafeSlug, "url") {
		t.Fatalf("expected unsafe_slug, got %v", violationCodes(report))
	}
}

func TestValidateDocumentDescriptionAliasNormalizesToExcerpt(t *testing.T) {
	doc := buildDoc(t, `---
title: Alias
categories: ["Node"]
date: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: alias-article
description: Short summary via alias.
---
`)

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !report.Valid() {
		t.Fatalf("expected valid document, got %v", report.Violations)
	}
	if report.Meta.Excerpt != "Short summary via alias." {
		t.Fatalf("expected description alias to populate excerpt, got %q", report.Meta.Excerpt)
	}
}

func TestValidateDocumentUndecodableFrontMatter(t *testing.T) {
	doc := buildDoc(t, "---\ntitle: [unclosed\n---\nBody.\n")

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationInvalidFrontMatter, "") {
		t.Fatalf("expected invalid_front_matter, got %v", violationCodes(report))
	}
	// Required fields are still reported so one run surfaces every problem.
	if !hasViolation(report, interfaces.ViolationMissingField, "title") {
		t.Fatalf("expected missing_field for title, got %v", violationCodes(report))
	}
}

func TestValidateDocumentMissingFrontMatterBlock(t *testing.T) {
	doc := buildDoc(t, "Just prose, no front matter.\n")

	report := validate.NewValidator().ValidateDocument(context.Background(), doc)

	if !hasViolation(report, interfaces.ViolationInvalidFrontMatter, "") {
		t.Fatalf("expected invalid_front_matter for a delimiter-less document, got %v", violationCodes(report))
	}
	for _, field := range []string{"title", "categories", "date", "authors", "url"} {
		if !hasViolation(report, interfaces.ViolationMissingField, field) {
			t.Fatalf("expected missing_field for %s, got %v", field, violationCodes(report))
		}
	}
	if report.Meta != nil {
		t.Fatal("expected no metadata without a front-matter block")
	}
}

func TestValidateDocumentExtraDateLayouts(t *testing.T) {
	doc := buildDoc(t, `---
title: RFC3339 date
categories: ["Java"]
date: 2022-01-15T06:00:00+10:00
authors: [pratikdas]
url: rfc3339-date
---
`)

	strict := validate.NewValidator()
	if report := strict.ValidateDocument(context.Background(), doc); report.Valid() {
		t.Fatal("expected canonical-only parser to reject RFC3339 timestamps")
	}

	lenient := validate.NewValidator(validate.WithExtraDateLayouts(time.RFC3339))
	if report := lenient.ValidateDocument(context.Background(), doc); !report.Valid() {
		t.Fatalf("expected extra layout to accept RFC3339, got %v", report.Violations)
	}
}

func TestValidateDocumentSchemaOverlay(t *testing.T) {
	overlay, err := validate.NewSchemaOverlay(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"difficulty": map[string]any{"type": "string"},
		},
		"required": []any{"difficulty"},
	})
	if err != nil {
		t.Fatalf("new schema overlay: %v", err)
	}

	validator := validate.NewValidator(validate.WithSchemaOverlay(overlay))

	doc := buildDoc(t, `---
title: Overlay
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: overlay-article
---
`)

	report := validator.ValidateDocument(context.Background(), doc)
	found := false
	for _, violation := range report.Violations {
		if violation.Code == interfaces.ViolationSchema && strings.Contains(violation.Message, "difficulty") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected schema violation for missing difficulty, got %v", report.Violations)
	}
}

func TestValidateDocumentCanceledContextSkipsSchemaOverlay(t *testing.T) {
	overlay, err := validate.NewSchemaOverlay(map[string]any{
		"type":     "object",
		"required": []any{"difficulty"},
	})
	if err != nil {
		t.Fatalf("new schema overlay: %v", err)
	}

	validator := validate.NewValidator(validate.WithSchemaOverlay(overlay))

	doc := buildDoc(t, `---
title: Overlay
categories: ["Java"]
date: 2022-01-15 06:00:00 +1000
authors: [pratikdas]
url: overlay-article
---
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := validator.ValidateDocument(ctx, doc)
	for _, violation := range report.Violations {
		if violation.Code == interfaces.ViolationSchema {
			t.Fatalf("overlay must not run once the context is canceled, got %v", report.Violations)
		}
	}
}
