package logging

import (
	"context"
	"testing"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

func TestComponentLoggerDefaultsToNoOp(t *testing.T) {
	logger := ComponentLogger(nil, "corpus.frontmatter")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	// No-op loggers must swallow every call without panicking.
	logger.Info("noop", "key", "value")
	logger.WithContext(context.Background()).Error("noop")
}

func TestComponentLoggerAttachesComponentField(t *testing.T) {
	provider := &recordingProvider{}

	logger := FrontMatterLogger(provider)
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	if provider.requested != "corpus.frontmatter" {
		t.Fatalf("expected provider to receive namespace, got %q", provider.requested)
	}
	if got := provider.logger.fields["component"]; got != "corpus.frontmatter" {
		t.Fatalf("expected component field, got %v", got)
	}
}

func TestComponentLoggerFallsBackToRootNamespace(t *testing.T) {
	provider := &recordingProvider{}
	ComponentLogger(provider, "")
	if provider.requested != "corpus" {
		t.Fatalf("expected root namespace, got %q", provider.requested)
	}
}

func TestWithDocumentContextSkipsEmptyValues(t *testing.T) {
	provider := &recordingProvider{}
	logger := ComponentLogger(provider, "corpus.validate")

	enriched := WithDocumentContext(logger, " docs/article.md ", "", "validate")
	if enriched == nil {
		t.Fatal("expected logger, got nil")
	}

	fields := provider.logger.fields
	if fields["document_path"] != "docs/article.md" {
		t.Fatalf("expected trimmed path, got %v", fields["document_path"])
	}
	if _, ok := fields["format"]; ok {
		t.Fatal("expected empty format to be skipped")
	}
	if fields["corpus_action"] != "validate" {
		t.Fatalf("expected action field, got %v", fields["corpus_action"])
	}
}

func TestWithFieldsHandlesNilLogger(t *testing.T) {
	if got := WithFields(nil, map[string]any{"key": "value"}); got != nil {
		t.Fatalf("expected nil logger passthrough, got %#v", got)
	}
}

type recordingProvider struct {
	requested string
	logger    *recordingLogger
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	p.requested = name
	if p.logger == nil {
		p.logger = &recordingLogger{fields: map[string]any{}}
	}
	return p.logger
}

type recordingLogger struct {
	fields map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)
var _ interfaces.FieldsLogger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	for key, value := range fields {
		l.fields[key] = value
	}
	return l
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"command": "corpus.validate"})
	ctx = ContextWithFields(ctx, map[string]any{"operation": "corpus.validate"})

	fields := ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	if fields["command"] != "corpus.validate" || fields["operation"] != "corpus.validate" {
		t.Fatalf("unexpected fields %v", fields)
	}

	// Mutating the copy must not leak back into the context.
	fields["command"] = "mutated"
	if again := ContextFields(ctx); again["command"] != "corpus.validate" {
		t.Fatalf("context fields mutated: %v", again)
	}
}

func TestContextFieldsMissing(t *testing.T) {
	if fields := ContextFields(context.Background()); fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
}
