package validate

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/frontmatter"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// Runner validates a corpus as a batch: it fans per-document validation out
// over a worker pool and merges the per-document slug observations afterwards
// to detect publishing conflicts. It satisfies interfaces.CorpusValidator.
type Runner struct {
	loader    *frontmatter.Loader
	validator *Validator
	workers   int
	logger    interfaces.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers bounds parallel document validation. Values below one select
// one worker per CPU.
func WithWorkers(workers int) RunnerOption {
	return func(r *Runner) {
		r.workers = workers
	}
}

// WithRunnerLogger injects the corpus validation logger.
func WithRunnerLogger(logger interfaces.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a corpus runner over the supplied loader and document
// validator.
func NewRunner(loader *frontmatter.Loader, validator *Validator, opts ...RunnerOption) *Runner {
	r := &Runner{
		loader:    loader,
		validator: validator,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.validator == nil {
		r.validator = NewValidator()
	}
	return r
}

// ValidateDocument checks a single document in isolation. Slug uniqueness is
// a corpus-level concern and is not applied here.
func (r *Runner) ValidateDocument(ctx context.Context, doc *interfaces.Document) interfaces.DocumentReport {
	return r.validator.ValidateDocument(ctx, doc)
}

// ValidateCorpus loads every matching document under dir and validates the
// whole set. A canceled context stops scheduling further documents and
// returns the partial report alongside the context error; an individual
// document's violations never abort the rest of the batch.
func (r *Runner) ValidateCorpus(ctx context.Context, dir string, opts interfaces.LoadOptions) (*interfaces.Report, error) {
	started := time.Now()

	results, err := r.loader.LoadDirectory(ctx, dir, frontmatter.LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}

	report, runErr := r.ValidateDocuments(ctx, docs)
	report.Duration = time.Since(started)

	r.logger.Info("corpus.validate.done",
		"documents", report.Scanned,
		"valid", report.Valid,
		"invalid", report.Invalid,
		"duplicates", len(report.Duplicates),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, runErr
}

// ValidateDocuments validates an already-loaded document set. Documents keep
// their input order in the report.
func (r *Runner) ValidateDocuments(ctx context.Context, docs []*interfaces.Document) (*interfaces.Report, error) {
	report := &interfaces.Report{
		Documents: make([]interfaces.DocumentReport, len(docs)),
	}
	if len(docs) == 0 {
		return report, ctx.Err()
	}

	workers := r.effectiveWorkers(len(docs))
	runErr := r.runPool(ctx, docs, workers, report.Documents)

	r.mergeSlugObservations(report)

	for _, doc := range report.Documents {
		report.Scanned++
		if doc.Valid() {
			report.Valid++
		} else {
			report.Invalid++
		}
	}
	return report, runErr
}

// runPool distributes document indices across workers. Each worker writes
// only its own result slots; the cross-document slug merge happens afterwards
// from the completed slice, so no shared mutable state exists during the
// parallel phase.
func (r *Runner) runPool(ctx context.Context, docs []*interfaces.Document, workers int, results []interfaces.DocumentReport) error {
	if workers <= 1 || len(docs) == 1 {
		for idx, doc := range docs {
			if err := ctx.Err(); err != nil {
				r.fillSkipped(docs, results, idx)
				return err
			}
			results[idx] = r.validator.ValidateDocument(ctx, doc)
		}
		return ctx.Err()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.validator.ValidateDocument(ctx, docs[idx])
			}
		}()
	}

	var runErr error
	for idx := range docs {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			r.fillSkipped(docs, results, idx)
		case jobs <- idx:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()
	return runErr
}

// fillSkipped stamps path information onto slots the pool never reached so a
// partial report still accounts for every discovered document.
func (r *Runner) fillSkipped(docs []*interfaces.Document, results []interfaces.DocumentReport, from int) {
	for idx := from; idx < len(docs); idx++ {
		if results[idx].FilePath == "" && docs[idx] != nil {
			results[idx] = interfaces.DocumentReport{FilePath: docs[idx].FilePath}
		}
	}
}

// mergeSlugObservations performs the single-writer pass over declared slugs:
// collisions become one DuplicateURL entry per slug, mirrored onto every
// involved document as a duplicate_url violation referencing the others.
func (r *Runner) mergeSlugObservations(report *interfaces.Report) {
	type observation struct {
		slug  string
		paths []string
	}

	seen := map[string]*observation{}
	var order []string

	for _, doc := range report.Documents {
		if doc.URL == "" {
			continue
		}
		obs := seen[doc.URL]
		if obs == nil {
			obs = &observation{slug: doc.URL}
			seen[doc.URL] = obs
			order = append(order, doc.URL)
		}
		obs.paths = append(obs.paths, doc.FilePath)
	}

	for _, slug := range order {
		obs := seen[slug]
		if len(obs.paths) < 2 {
			continue
		}

		report.Duplicates = append(report.Duplicates, interfaces.DuplicateURL{
			URL:   slug,
			Paths: append([]string(nil), obs.paths...),
		})

		for idx := range report.Documents {
			doc := &report.Documents[idx]
			if doc.URL != slug {
				continue
			}
			related := make([]string, 0, len(obs.paths)-1)
			for _, path := range obs.paths {
				if path != doc.FilePath {
					related = append(related, path)
				}
			}
			doc.Violations = append(doc.Violations, interfaces.Violation{
				Code:    interfaces.ViolationDuplicateURL,
				Field:   "url",
				Message: "url " + slug + " is declared by more than one article",
				Related: related,
			})
			// A colliding document no longer carries publishable metadata.
			doc.Meta = nil
		}
	}
}

func (r *Runner) effectiveWorkers(docs int) int {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if docs > 0 && workers > docs {
		workers = docs
	}
	return workers
}

var _ interfaces.CorpusValidator = (*Runner)(nil)
