package corpuscmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/commands"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

const (
	validateOperation = "corpus.validate"
	indexOperation    = "corpus.index"
	reportOperation   = "corpus.report"
)

var (
	_ command.Commander[ValidateCorpusCommand] = (*ValidateCorpusHandler)(nil)
	_ command.Commander[IndexCorpusCommand]    = (*IndexCorpusHandler)(nil)
	_ command.Commander[ReportCorpusCommand]   = (*ReportCorpusHandler)(nil)
)

// ReportSink receives the report produced by a validation run, letting
// callers capture results from dispatched commands.
type ReportSink func(*interfaces.Report)

// ValidateCorpusHandler runs corpus validation via the shared command handler
// foundation.
type ValidateCorpusHandler struct {
	inner *commands.Handler[ValidateCorpusCommand]
}

// NewValidateCorpusHandler creates a handler bound to the supplied validator.
func NewValidateCorpusHandler(validator interfaces.CorpusValidator, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[ValidateCorpusCommand]) *ValidateCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ValidateCorpusCommand) error {
		report, err := validator.ValidateCorpus(ctx, msg.Directory, interfaces.LoadOptions{Pattern: msg.Pattern})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}

		logging.WithFields(baseLogger, map[string]any{
			"scanned":    report.Scanned,
			"valid":      report.Valid,
			"invalid":    report.Invalid,
			"duplicates": len(report.Duplicates),
			"violations": report.Violations(),
		}).Info("corpus.command.validate.completed")

		if msg.FailOnViolations && !report.Clean() {
			return fmt.Errorf("corpus validation found %d violations across %d documents", report.Violations(), report.Invalid)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateCorpusCommand]{
		commands.WithLogger[ValidateCorpusCommand](baseLogger),
		commands.WithOperation[ValidateCorpusCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.FailOnViolations {
				fields["fail_on_violations"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateCorpusCommand].
func (h *ValidateCorpusHandler) Execute(ctx context.Context, msg ValidateCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IndexCorpusHandler validates a corpus and refreshes the article index via
// the shared command handler foundation.
type IndexCorpusHandler struct {
	inner *commands.Handler[IndexCorpusCommand]
}

// NewIndexCorpusHandler creates a handler bound to the supplied validator and
// index service.
func NewIndexCorpusHandler(validator interfaces.CorpusValidator, articles index.Service, logger interfaces.Logger, opts ...commands.HandlerOption[IndexCorpusCommand]) *IndexCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg IndexCorpusCommand) error {
		report, err := validator.ValidateCorpus(ctx, msg.Directory, interfaces.LoadOptions{Pattern: msg.Pattern})
		if err != nil {
			return err
		}

		var summary *index.Summary
		if msg.Rebuild {
			summary, err = articles.Rebuild(ctx, report)
		} else {
			summary, err = articles.IndexReport(ctx, report)
		}
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"scanned": report.Scanned,
			"indexed": summary.Indexed,
			"skipped": summary.Skipped,
			"removed": summary.Removed,
			"rebuild": msg.Rebuild,
		}).Info("corpus.command.index.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[IndexCorpusCommand]{
		commands.WithLogger[IndexCorpusCommand](baseLogger),
		commands.WithOperation[IndexCorpusCommand](indexOperation),
		commands.WithMessageFields(func(msg IndexCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Rebuild {
				fields["rebuild"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IndexCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IndexCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[IndexCorpusCommand].
func (h *IndexCorpusHandler) Execute(ctx context.Context, msg IndexCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReportCorpusHandler validates a corpus and persists the JSON report to
// disk.
type ReportCorpusHandler struct {
	inner *commands.Handler[ReportCorpusCommand]
}

// NewReportCorpusHandler creates a handler bound to the supplied validator.
func NewReportCorpusHandler(validator interfaces.CorpusValidator, logger interfaces.Logger, opts ...commands.HandlerOption[ReportCorpusCommand]) *ReportCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ReportCorpusCommand) error {
		report, err := validator.ValidateCorpus(ctx, msg.Directory, interfaces.LoadOptions{Pattern: msg.Pattern})
		if err != nil {
			return err
		}

		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode corpus report: %w", err)
		}
		if err := os.WriteFile(msg.OutputPath, append(payload, '\n'), 0o644); err != nil {
			return fmt.Errorf("write corpus report: %w", err)
		}

		logging.WithFields(baseLogger, map[string]any{
			"scanned": report.Scanned,
			"invalid": report.Invalid,
			"output":  msg.OutputPath,
		}).Info("corpus.command.report.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReportCorpusCommand]{
		commands.WithLogger[ReportCorpusCommand](baseLogger),
		commands.WithOperation[ReportCorpusCommand](reportOperation),
		commands.WithMessageFields(func(msg ReportCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
				"output":    msg.OutputPath,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ReportCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReportCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReportCorpusCommand].
func (h *ReportCorpusHandler) Execute(ctx context.Context, msg ReportCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}
