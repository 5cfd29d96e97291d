package validate

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	slug "github.com/goliatone/go-slug"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// fieldOrder fixes the order in which field-scoped violations surface, so a
// report reads top-to-bottom the way the front matter is authored.
var fieldOrder = []string{"title", "categories", "date", "modified", "authors", "url"}

// Validator checks a single document against the metadata schema. It is
// stateless and safe for concurrent use; cross-document constraints live in
// the Runner.
type Validator struct {
	dates  *DateParser
	schema *SchemaOverlay
	logger interfaces.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithExtraDateLayouts registers additional accepted timestamp layouts on top
// of the canonical one.
func WithExtraDateLayouts(layouts ...string) ValidatorOption {
	return func(v *Validator) {
		v.dates = NewDateParser(layouts...)
	}
}

// WithSchemaOverlay applies an optional JSON-Schema check to the raw
// front-matter mapping after the baseline field rules.
func WithSchemaOverlay(overlay *SchemaOverlay) ValidatorOption {
	return func(v *Validator) {
		v.schema = overlay
	}
}

// WithValidatorLogger injects the validation logger.
func WithValidatorLogger(logger interfaces.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator constructs a document validator with the canonical date layout
// and no schema overlay.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		dates:  NewDateParser(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateDocument checks doc against every schema constraint and returns the
// full violation list, never stopping at the first failure. Meta is populated
// only for clean documents.
func (v *Validator) ValidateDocument(ctx context.Context, doc *interfaces.Document) interfaces.DocumentReport {
	report := interfaces.DocumentReport{}
	if doc == nil {
		return report
	}

	fm := doc.FrontMatter
	report.FilePath = doc.FilePath
	report.URL = strings.TrimSpace(fm.URL)
	if len(doc.Checksum) > 0 {
		report.Checksum = hex.EncodeToString(doc.Checksum)
	}

	if doc.DecodeError != nil {
		report.Violations = append(report.Violations, interfaces.Violation{
			Code:    interfaces.ViolationInvalidFrontMatter,
			Message: fmt.Sprintf("front matter could not be decoded: %v", doc.DecodeError),
		})
	}

	fieldViolations := map[string][]interfaces.Violation{}
	record := func(field string, violation interfaces.Violation) {
		violation.Field = field
		fieldViolations[field] = append(fieldViolations[field], violation)
	}

	v.applyFieldRules(fm, record)

	date, modified := v.applyDateRules(fm, record)

	for _, field := range fieldOrder {
		report.Violations = append(report.Violations, fieldViolations[field]...)
	}

	// A canceled run skips the overlay; the runner surfaces the context
	// error for the batch.
	if v.schema != nil && doc.DecodeError == nil && ctx.Err() == nil {
		report.Violations = append(report.Violations, v.schema.Validate(fm.Raw)...)
	}

	if len(report.Violations) == 0 {
		report.Meta = newMetadata(fm, date, modified)
	} else {
		logging.WithDocumentContext(v.logger, doc.FilePath, string(doc.Format), "validate").
			Debug("document.validate.violations", "count", len(report.Violations))
	}

	return report
}

// applyFieldRules runs the ozzo rule set covering required scalars, required
// lists, and slug safety. Rules return coded errors so the flattening step can
// map each failure onto its violation code.
func (v *Validator) applyFieldRules(fm interfaces.FrontMatter, record func(string, interfaces.Violation)) {
	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, requiredString("title")),
		validation.Field(&fm.Categories, requiredList("categories", fm.Has("categories"))),
		validation.Field(&fm.Authors, requiredList("authors", fm.Has("authors"))),
		validation.Field(&fm.URL, requiredString("url"), safeSlug()),
	)
	if err == nil {
		return
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		record("", interfaces.Violation{
			Code:    interfaces.ViolationMissingField,
			Message: err.Error(),
		})
		return
	}

	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		code := interfaces.ViolationMissingField
		if coded, ok := fieldErr.(validation.Error); ok {
			code = interfaces.ViolationCode(coded.Code())
		}
		record(field, interfaces.Violation{
			Code:    code,
			Message: fieldErr.Error(),
		})
	}
}

// applyDateRules validates date and modified, returning the parsed values for
// metadata construction. A malformed date suppresses the monotonicity check;
// reporting both would blame one authoring mistake twice.
func (v *Validator) applyDateRules(fm interfaces.FrontMatter, record func(string, interfaces.Violation)) (time.Time, *time.Time) {
	var date time.Time
	dateOK := false

	if strings.TrimSpace(fm.Date) == "" {
		record("date", interfaces.Violation{
			Code:    interfaces.ViolationMissingField,
			Message: "date is required",
		})
	} else {
		parsed, err := v.dates.Parse(fm.Date)
		if err != nil {
			record("date", interfaces.Violation{
				Code:    interfaces.ViolationMalformedDate,
				Message: fmt.Sprintf("date %q is not a valid timestamp (expected %q)", fm.Date, interfaces.DateLayout),
			})
		} else {
			date = parsed
			dateOK = true
		}
	}

	if strings.TrimSpace(fm.Modified) == "" {
		return date, nil
	}

	parsed, err := v.dates.Parse(fm.Modified)
	if err != nil {
		record("modified", interfaces.Violation{
			Code:    interfaces.ViolationMalformedDate,
			Message: fmt.Sprintf("modified %q is not a valid timestamp (expected %q)", fm.Modified, interfaces.DateLayout),
		})
		return date, nil
	}

	if dateOK && parsed.Before(date) {
		record("modified", interfaces.Violation{
			Code:    interfaces.ViolationNonMonotonicModified,
			Message: fmt.Sprintf("modified %s precedes date %s", parsed.Format(interfaces.DateLayout), date.Format(interfaces.DateLayout)),
		})
		return date, nil
	}

	return date, &parsed
}

func newMetadata(fm interfaces.FrontMatter, date time.Time, modified *time.Time) *interfaces.ArticleMetadata {
	excerpt := strings.TrimSpace(fm.Excerpt)
	if excerpt == "" {
		// description is accepted as an input alias and normalized away.
		excerpt = strings.TrimSpace(fm.Description)
	}

	return &interfaces.ArticleMetadata{
		Title:      strings.TrimSpace(fm.Title),
		Categories: append([]string(nil), fm.Categories...),
		Date:       date,
		Modified:   modified,
		Authors:    append([]string(nil), fm.Authors...),
		Excerpt:    excerpt,
		Image:      strings.TrimSpace(fm.Image),
		URL:        strings.TrimSpace(fm.URL),
		Extra:      frontmatter.ExtraFields(fm.Raw),
	}
}

func requiredString(field string) validation.Rule {
	return validation.By(func(value any) error {
		str, _ := value.(string)
		if strings.TrimSpace(str) == "" {
			return validation.NewError(string(interfaces.ViolationMissingField), field+" is required")
		}
		return nil
	})
}

// requiredList distinguishes an absent key from an authored-but-empty list:
// the former is a missing field, the latter an empty required list.
func requiredList(field string, present bool) validation.Rule {
	return validation.By(func(value any) error {
		entries, _ := value.([]string)
		nonEmpty := 0
		for _, entry := range entries {
			if strings.TrimSpace(entry) != "" {
				nonEmpty++
			}
		}
		if nonEmpty > 0 {
			return nil
		}
		if !present {
			return validation.NewError(string(interfaces.ViolationMissingField), field+" is required")
		}
		return validation.NewError(string(interfaces.ViolationEmptyRequiredList), field+" must declare at least one entry")
	})
}

// safeSlug enforces the URL-safe character constraint on url values. The
// error message carries the normalized suggestion when one can be derived.
func safeSlug() validation.Rule {
	return validation.By(func(value any) error {
		raw, _ := value.(string)
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		if slug.IsValid(trimmed) {
			return nil
		}
		message := fmt.Sprintf("url %q contains characters outside the URL-safe set", trimmed)
		if suggestion, err := slug.Normalize(trimmed); err == nil && suggestion != "" {
			message = fmt.Sprintf("%s (did you mean %q?)", message, suggestion)
		}
		return validation.NewError(string(interfaces.ViolationUnsafeSlug), message)
	})
}
