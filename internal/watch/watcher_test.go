package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/index"
	"github.com/reflectoring/reflectoring.github.io-sub011/internal/watch"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/testsupport"
)

type countingValidator struct {
	mu     sync.Mutex
	runs   int
	report *interfaces.Report
}

func (v *countingValidator) ValidateDocument(context.Context, *interfaces.Document) interfaces.DocumentReport {
	return interfaces.DocumentReport{}
}

func (v *countingValidator) ValidateCorpus(context.Context, string, interfaces.LoadOptions) (*interfaces.Report, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.runs++
	if v.report != nil {
		return v.report, nil
	}
	return &interfaces.Report{}, nil
}

func (v *countingValidator) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.runs
}

type recordingIndex struct {
	mu      sync.Mutex
	deleted []string
}

func (r *recordingIndex) IndexReport(context.Context, *interfaces.Report) (*index.Summary, error) {
	return &index.Summary{}, nil
}

func (r *recordingIndex) Rebuild(context.Context, *interfaces.Report) (*index.Summary, error) {
	return &index.Summary{}, nil
}

func (r *recordingIndex) GetBySlug(context.Context, string) (*index.ArticleRecord, error) {
	return nil, nil
}

func (r *recordingIndex) List(context.Context, index.ListOptions) ([]*index.ArticleRecord, error) {
	return nil, nil
}

func (r *recordingIndex) DeleteBySlug(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, slug)
	return nil
}

func (r *recordingIndex) deletedSlugs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

func startWatcher(t *testing.T, w *watch.Watcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancellation")
		}
	})
	return cancel
}

func TestWatcherRunsInitialValidation(t *testing.T) {
	dir := t.TempDir()
	validator := &countingValidator{}

	w := watch.New(dir, validator, watch.WithDebounce(20*time.Millisecond))
	startWatcher(t, w)

	require.Eventually(t, func() bool {
		return validator.count() == 1
	}, 2*time.Second, 10*time.Millisecond, "expected the initial validation pass")
}

func TestWatcherDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	article := filepath.Join(dir, "jackson.md")
	content := testsupport.ArticleFixture("Jackson", "jackson", "2022-01-15 06:00:00 +1000")
	require.NoError(t, os.WriteFile(article, content, 0o644))

	validator := &countingValidator{}
	w := watch.New(dir, validator, watch.WithDebounce(150*time.Millisecond))
	startWatcher(t, w)

	require.Eventually(t, func() bool {
		return validator.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A burst of writes inside one debounce window must trigger exactly one
	// revalidation.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(article, content, 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return validator.count() == 2
	}, 2*time.Second, 10*time.Millisecond, "expected the burst to collapse into one run")

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 2, validator.count(), "no further runs expected after the burst settled")
}

func TestWatcherIgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	validator := &countingValidator{}

	w := watch.New(dir, validator, watch.WithDebounce(20*time.Millisecond))
	startWatcher(t, w)

	require.Eventually(t, func() bool {
		return validator.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, validator.count(), "non-matching files must not trigger revalidation")
}

func TestWatcherRemovalDropsIndexRow(t *testing.T) {
	dir := t.TempDir()
	article := filepath.Join(dir, "jackson.md")
	require.NoError(t, os.WriteFile(article, testsupport.ArticleFixture("Jackson", "jackson", "2022-01-15 06:00:00 +1000"), 0o644))

	validator := &countingValidator{
		report: &interfaces.Report{
			Documents: []interfaces.DocumentReport{
				{FilePath: "jackson.md", URL: "jackson", Meta: &interfaces.ArticleMetadata{URL: "jackson"}},
			},
			Scanned: 1,
			Valid:   1,
		},
	}
	articles := &recordingIndex{}

	w := watch.New(dir, validator,
		watch.WithDebounce(20*time.Millisecond),
		watch.WithIndex(articles),
	)
	startWatcher(t, w)

	require.Eventually(t, func() bool {
		return validator.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(article))

	require.Eventually(t, func() bool {
		deleted := articles.deletedSlugs()
		return len(deleted) == 1 && deleted[0] == "jackson"
	}, 2*time.Second, 10*time.Millisecond, "expected the removed article's index row to be dropped")
}

func TestWatcherDeliversReportsToSink(t *testing.T) {
	dir := t.TempDir()
	validator := &countingValidator{report: &interfaces.Report{Scanned: 3, Valid: 3}}

	reports := make(chan *interfaces.Report, 4)
	w := watch.New(dir, validator,
		watch.WithDebounce(20*time.Millisecond),
		watch.WithReportSink(func(report *interfaces.Report) {
			reports <- report
		}),
	)
	startWatcher(t, w)

	select {
	case report := <-reports:
		assert.Equal(t, 3, report.Scanned)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the initial report on the sink")
	}
}

func TestWatcherRequiresDirectory(t *testing.T) {
	w := watch.New("", &countingValidator{})
	require.ErrorIs(t, w.Run(context.Background()), watch.ErrDirectoryRequired)
}
