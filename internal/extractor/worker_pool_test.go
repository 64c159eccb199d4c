package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
)

func newPlainExtractor(t *testing.T) *URLExtractor {
	t.Helper()

	options := DefaultExtractionOptions()
	options.Backend = BackendPlain

	return newTestExtractor(t, options)
}

func TestNewWorkerPool(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 4, newPlainExtractor(t))
	if pool == nil {
		t.Fatal("NewWorkerPool returned nil")
	}

	if pool.numWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", pool.numWorkers)
	}

	if pool.tasks == nil || pool.results == nil || pool.progressChan == nil {
		t.Error("Channels not initialized")
	}

	pool.Shutdown()
}

func TestNewWorkerPoolDefaultWorkers(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, newPlainExtractor(t))
	defer pool.Shutdown()

	if pool.numWorkers != 4 {
		t.Errorf("Expected default of 4 workers, got %d", pool.numWorkers)
	}
}

func TestWorkerPoolProcessing(t *testing.T) {
	dir := t.TempDir()

	var files []string

	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("paper%d.txt", i))
		body := fmt.Sprintf("artifact at https://example.org/tool%d.\n", i)

		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}

		files = append(files, path)
	}

	files = append(files, filepath.Join(dir, "missing.txt"))

	pool := NewWorkerPool(context.Background(), 2, newPlainExtractor(t))

	var (
		progressUpdates []ProgressUpdate
		progressMu      sync.Mutex
		wg              sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for update := range pool.Progress() {
			progressMu.Lock()
			progressUpdates = append(progressUpdates, update)
			progressMu.Unlock()
		}
	}()

	pool.Start()

	ids := make(map[string]string)

	go func() {
		for _, file := range files {
			pool.SubmitFile(file)
		}
	}()

	var results []ExtractionTaskResult
	for i := 0; i < len(files); i++ {
		results = append(results, <-pool.Results())
	}

	pool.Wait()
	wg.Wait()

	var urls []string

	failures := 0

	for _, result := range results {
		if result.Task.ID == "" {
			t.Errorf("Task for %s has no ID", result.Task.Filename)
		}

		if prev, dup := ids[result.Task.ID]; dup {
			t.Errorf("Duplicate task ID %s for %s and %s", result.Task.ID, prev, result.Task.Filename)
		}

		ids[result.Task.ID] = result.Task.Filename

		if result.Error != nil {
			failures++

			if !strings.HasSuffix(result.Task.Filename, "missing.txt") {
				t.Errorf("Unexpected failure for %s: %v", result.Task.Filename, result.Error)
			}

			continue
		}

		urls = append(urls, result.Result.URLs...)
	}

	if failures != 1 {
		t.Errorf("Expected 1 failure, got %d", failures)
	}

	sort.Strings(urls)

	expected := []string{"https://example.org/tool0", "https://example.org/tool1", "https://example.org/tool2"}
	if strings.Join(urls, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %q, got %q", expected, urls)
	}

	stats := pool.GetStats()
	if stats.TotalTasks != len(files) || stats.CompletedTasks != len(files) || stats.PendingTasks != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	progressMu.Lock()
	defer progressMu.Unlock()

	if len(progressUpdates) == 0 {
		t.Error("Expected progress updates, got none")
	}
}

func TestProgressTracker(t *testing.T) {
	tracker := NewProgressTracker()

	tracker.Update(ProgressUpdate{TaskID: "a", Status: TaskStatusPending})
	tracker.Update(ProgressUpdate{TaskID: "a", Status: TaskStatusCompleted})
	tracker.Update(ProgressUpdate{TaskID: "b", Status: TaskStatusFailed})
	tracker.Update(ProgressUpdate{TaskID: "c", Status: TaskStatusProcessing})

	summary := tracker.GetSummary()
	if summary.TotalTasks != 3 {
		t.Errorf("Expected 3 tasks, got %d", summary.TotalTasks)
	}

	if summary.StatusCounts[TaskStatusCompleted] != 1 || summary.StatusCounts[TaskStatusFailed] != 1 {
		t.Errorf("Unexpected status counts %v", summary.StatusCounts)
	}

	var buf bytes.Buffer
	tracker.PrintProgress(&buf)

	out := buf.String()
	if !strings.Contains(out, "1/3 completed") || !strings.Contains(out, "(1 failed)") {
		t.Errorf("Unexpected progress line %q", out)
	}
}
