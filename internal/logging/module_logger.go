package logging

import (
	"context"
	"strings"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

const (
	rootComponent        = "corpus"
	frontmatterComponent = "corpus.frontmatter"
	validateComponent    = "corpus.validate"
	indexComponent       = "corpus.index"
	syndicationComponent = "corpus.syndication"
	watchComponent       = "corpus.watch"
	commandsComponent    = "corpus.commands"
)

const (
	fieldDocumentPath   = "document_path"
	fieldDocumentFormat = "format"
	fieldCorpusAction   = "corpus_action"
)

// ComponentLogger returns a component-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the component identifier as structured context so downstream entries can be
// filtered predictably.
func ComponentLogger(provider interfaces.LoggerProvider, component string) interfaces.Logger {
	if component == "" {
		component = rootComponent
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(component); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"component": component,
		})
	}

	return WithFields(logger, map[string]any{
		"component": component,
	})
}

// FrontMatterLogger returns the logger namespace reserved for document
// loading and front-matter parsing.
func FrontMatterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, frontmatterComponent)
}

// ValidateLogger returns the logger namespace reserved for corpus validation.
func ValidateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, validateComponent)
}

// IndexLogger returns the logger namespace reserved for the article index.
func IndexLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, indexComponent)
}

// SyndicationLogger returns the logger namespace reserved for feed and
// sitemap generation.
func SyndicationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, syndicationComponent)
}

// WatchLogger returns the logger namespace reserved for the filesystem
// watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, watchComponent)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, commandsComponent)
}

// WithDocumentContext enriches the provided logger with common document
// fields such as file path, front-matter format, and the corpus action being
// performed. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, format, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(format); trimmed != "" {
		fields[fieldDocumentFormat] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldCorpusAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
