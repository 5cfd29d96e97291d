// Package watch keeps the validation report and article index in step with a
// corpus checked out on disk. It observes the corpus root through fsnotify,
// coalesces bursts of writes into a single revalidation, and drops index rows
// when article files disappear.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// DefaultDebounce is the window used to coalesce rapid successive filesystem
// events into one revalidation.
const DefaultDebounce = 50 * time.Millisecond

const defaultPattern = "**/*.md"

// ErrDirectoryRequired is returned when the watcher is started without a
// corpus root.
var ErrDirectoryRequired = errors.New("watch: corpus directory is required")

// ReportSink receives the report produced after each revalidation.
type ReportSink func(*interfaces.Report)

// Watcher revalidates a corpus directory whenever its article files change.
type Watcher struct {
	dir       string
	pattern   string
	validator interfaces.CorpusValidator
	articles  index.Service
	debounce  time.Duration
	logger    interfaces.Logger
	onReport  ReportSink

	mu          sync.Mutex
	slugsByPath map[string]string
}

// Option configures the watcher.
type Option func(*Watcher)

// WithPattern overrides the filename glob matched against paths relative to
// the corpus root.
func WithPattern(pattern string) Option {
	return func(w *Watcher) {
		if strings.TrimSpace(pattern) != "" {
			w.pattern = pattern
		}
	}
}

// WithDebounce overrides the event coalescing window.
func WithDebounce(debounce time.Duration) Option {
	return func(w *Watcher) {
		if debounce > 0 {
			w.debounce = debounce
		}
	}
}

// WithIndex mirrors revalidation results into the article index and removes
// rows for deleted files.
func WithIndex(articles index.Service) Option {
	return func(w *Watcher) {
		w.articles = articles
	}
}

// WithLogger injects the watch logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithReportSink registers a callback invoked with every fresh report.
func WithReportSink(sink ReportSink) Option {
	return func(w *Watcher) {
		w.onReport = sink
	}
}

// New constructs a watcher over the given corpus root.
func New(dir string, validator interfaces.CorpusValidator, opts ...Option) *Watcher {
	w := &Watcher{
		dir:         dir,
		pattern:     defaultPattern,
		validator:   validator,
		debounce:    DefaultDebounce,
		logger:      logging.NoOp(),
		slugsByPath: map[string]string{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the corpus root until the context is cancelled. An initial
// validation pass runs before the event loop starts so the report and index
// reflect the corpus as found on disk.
func (w *Watcher) Run(ctx context.Context) error {
	if strings.TrimSpace(w.dir) == "" {
		return ErrDirectoryRequired
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	if err := w.addRecursive(notifier, w.dir); err != nil {
		return err
	}

	if err := w.revalidate(ctx); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		dirty   bool
		removed = map[string]struct{}{}
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := w.addRecursive(notifier, event.Name); err != nil {
						w.logger.Warn("watch.add_dir.failed", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				removed[event.Name] = struct{}{}
			}
			dirty = true
			resetTimer()

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch.notify.error", "error", err)

		case <-timerCh:
			if !dirty {
				continue
			}
			dirty = false
			w.dropRemoved(ctx, removed)
			removed = map[string]struct{}{}
			if err := w.revalidate(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				w.logger.Error("watch.revalidate.failed", "error", err)
			}
		}
	}
}

func (w *Watcher) addRecursive(notifier *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		return notifier.Add(path)
	})
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (w *Watcher) dropRemoved(ctx context.Context, removed map[string]struct{}) {
	if w.articles == nil || len(removed) == 0 {
		return
	}
	for path := range removed {
		slug := w.slugForPath(path)
		if slug == "" {
			continue
		}
		if err := w.articles.DeleteBySlug(ctx, slug); err != nil {
			w.logger.Error("watch.index.remove_failed", "slug", slug, "error", err)
			continue
		}
		w.logger.Info("watch.index.removed", "slug", slug, "path", path)
	}
}

func (w *Watcher) revalidate(ctx context.Context) error {
	report, err := w.validator.ValidateCorpus(ctx, w.dir, interfaces.LoadOptions{Pattern: w.pattern})
	if err != nil {
		return err
	}

	w.rememberSlugs(report)

	if w.articles != nil {
		if _, err := w.articles.IndexReport(ctx, report); err != nil {
			w.logger.Error("watch.index.update_failed", "error", err)
		}
	}

	w.logger.Info("watch.revalidated",
		"scanned", report.Scanned,
		"valid", report.Valid,
		"invalid", report.Invalid,
	)

	if w.onReport != nil {
		w.onReport(report)
	}
	return nil
}

// rememberSlugs keeps a path-to-slug map so removal events can be translated
// into index deletions after the file is already gone.
func (w *Watcher) rememberSlugs(report *interfaces.Report) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, doc := range report.Documents {
		if doc.URL == "" {
			continue
		}
		w.slugsByPath[filepath.Join(w.dir, doc.FilePath)] = doc.URL
		w.slugsByPath[doc.FilePath] = doc.URL
	}
}

func (w *Watcher) slugForPath(path string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if slug, ok := w.slugsByPath[path]; ok {
		delete(w.slugsByPath, path)
		return slug
	}
	if rel, err := filepath.Rel(w.dir, path); err == nil {
		if slug, ok := w.slugsByPath[rel]; ok {
			delete(w.slugsByPath, rel)
			return slug
		}
	}
	return ""
}
