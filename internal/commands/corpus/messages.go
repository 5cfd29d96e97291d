// Package corpuscmd exposes corpus maintenance workflows as go-command
// messages so dispatchers and schedulers can trigger validation and index
// refreshes without linking against the services directly.
package corpuscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	validateCorpusMessageType = "corpus.validate"
	indexCorpusMessageType    = "corpus.index"
	reportCorpusMessageType   = "corpus.report"
)

// ValidateCorpusCommand triggers a full validation run over the articles
// under Directory. The resulting report is logged and forwarded to the
// optional report sink configured on the handler.
type ValidateCorpusCommand struct {
	// Directory selects the corpus root (relative or absolute) to scan.
	Directory string `json:"directory"`
	// Pattern overrides the filename glob used during discovery.
	Pattern string `json:"pattern,omitempty"`
	// FailOnViolations turns a dirty report into a command error so cron
	// schedules surface regressions.
	FailOnViolations bool `json:"fail_on_violations,omitempty"`
}

// Type implements command.Message.
func (ValidateCorpusCommand) Type() string { return validateCorpusMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ValidateCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("corpus.validate.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// IndexCorpusCommand validates the articles under Directory and persists the
// valid ones into the article index.
type IndexCorpusCommand struct {
	// Directory selects the corpus root (relative or absolute) to scan.
	Directory string `json:"directory"`
	// Pattern overrides the filename glob used during discovery.
	Pattern string `json:"pattern,omitempty"`
	// Rebuild replaces the whole index instead of upserting, dropping rows
	// whose source files no longer exist.
	Rebuild bool `json:"rebuild,omitempty"`
}

// Type implements command.Message.
func (IndexCorpusCommand) Type() string { return indexCorpusMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd IndexCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("corpus.index.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// ReportCorpusCommand validates the articles under Directory and writes the
// full JSON report to OutputPath.
type ReportCorpusCommand struct {
	// Directory selects the corpus root (relative or absolute) to scan.
	Directory string `json:"directory"`
	// Pattern overrides the filename glob used during discovery.
	Pattern string `json:"pattern,omitempty"`
	// OutputPath names the file the JSON report is written to.
	OutputPath string `json:"output_path"`
}

// Type implements command.Message.
func (ReportCorpusCommand) Type() string { return reportCorpusMessageType }

// Validate ensures directory and output path are present before handlers
// execute.
func (cmd ReportCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("corpus.report.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.OutputPath, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("corpus.report.output_path_required", "output path is required")
			}
			return nil
		})),
	)
}
