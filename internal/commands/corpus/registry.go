package corpuscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/commands"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the corpus command handlers produced by
// RegisterCorpusCommands.
type HandlerSet struct {
	Validate *ValidateCorpusHandler
	Index    *IndexCorpusHandler
	Report   *ReportCorpusHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	reportSink          ReportSink
	validateHandlerOpts []commands.HandlerOption[ValidateCorpusCommand]
	indexHandlerOpts    []commands.HandlerOption[IndexCorpusCommand]
	reportHandlerOpts   []commands.HandlerOption[ReportCorpusCommand]
}

// WithReportSink captures validation reports produced by dispatched commands.
func WithReportSink(sink ReportSink) Option {
	return func(cfg *options) {
		cfg.reportSink = sink
	}
}

// WithValidateHandlerOptions forwards options to the ValidateCorpusHandler
// constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateCorpusCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// WithIndexHandlerOptions forwards options to the IndexCorpusHandler
// constructor.
func WithIndexHandlerOptions(opts ...commands.HandlerOption[IndexCorpusCommand]) Option {
	return func(cfg *options) {
		cfg.indexHandlerOpts = append(cfg.indexHandlerOpts, opts...)
	}
}

// WithReportHandlerOptions forwards options to the ReportCorpusHandler
// constructor.
func WithReportHandlerOptions(opts ...commands.HandlerOption[ReportCorpusCommand]) Option {
	return func(cfg *options) {
		cfg.reportHandlerOpts = append(cfg.reportHandlerOpts, opts...)
	}
}

// RegisterCorpusCommands builds the corpus command handlers and registers
// them with the provided registry. The returned HandlerSet lets callers wire
// additional integrations (dispatcher, cron) as needed.
func RegisterCorpusCommands(reg CommandRegistry, validator interfaces.CorpusValidator, articles index.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if validator == nil {
		return nil, errors.New("corpus command registration: validator is nil")
	}
	if articles == nil {
		return nil, errors.New("corpus command registration: index service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "corpus")

	validateHandler := NewValidateCorpusHandler(validator, logger, cfg.reportSink, cfg.validateHandlerOpts...)
	indexHandler := NewIndexCorpusHandler(validator, articles, logger, cfg.indexHandlerOpts...)
	reportHandler := NewReportCorpusHandler(validator, logger, cfg.reportHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(validateHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(indexHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(reportHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Validate: validateHandler,
		Index:    indexHandler,
		Report:   reportHandler,
	}, nil
}

// RegisterIndexCron wires the index handler into a cron registrar using the
// supplied command configuration and message payload. The handler is executed
// with a background context.
func RegisterIndexCron(reg CronRegistrar, handler *IndexCorpusHandler, cfg command.HandlerConfig, msg IndexCorpusCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
