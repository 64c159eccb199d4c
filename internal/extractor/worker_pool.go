package extractor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkerPool manages parallel extraction of several documents.
type WorkerPool struct {
	ctx            context.Context
	extractor      *URLExtractor
	tasks          chan ExtractionTask
	results        chan ExtractionTaskResult
	progressChan   chan ProgressUpdate
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	numWorkers     int
	totalTasks     int
	completedTasks int
	mu             sync.RWMutex
}

// ExtractionTask represents a single document extraction task.
type ExtractionTask struct {
	ID       string
	Filename string
}

// ExtractionTaskResult represents the result of a document extraction task.
type ExtractionTaskResult struct {
	Error  error
	Result *ExtractionResult
	Task   ExtractionTask
}

// ProgressUpdate provides progress information.
type ProgressUpdate struct {
	TaskID      string
	Filename    string
	Status      TaskStatus
	Message     string
	Completed   int
	Total       int
	ElapsedTime time.Duration
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// NewWorkerPool creates a worker pool sharing one extractor. The extractor
// holds no per-document state, so workers may use it concurrently.
func NewWorkerPool(ctx context.Context, numWorkers int, extractor *URLExtractor) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4 // used when the caller passes no count
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		extractor:    extractor,
		numWorkers:   numWorkers,
		tasks:        make(chan ExtractionTask, numWorkers*2), // lets the submitter run ahead of the workers
		results:      make(chan ExtractionTaskResult, numWorkers*2),
		progressChan: make(chan ProgressUpdate, 100),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return // queue closed by Wait
			}

			wp.processTask(workerID, task)
		}
	}
}

func (wp *WorkerPool) processTask(workerID int, task ExtractionTask) {
	start := time.Now()

	// Announce the pickup before the potentially slow text conversion
	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusProcessing,
		Message:  fmt.Sprintf("worker %d started processing", workerID),
	})

	// The shared extractor keeps no per-document state
	result, err := wp.extractor.ExtractFromFile(wp.ctx, task.Filename)
	elapsed := time.Since(start)

	// Failed tasks count as completed too; the result carries the error
	wp.mu.Lock()
	wp.completedTasks++
	completed := wp.completedTasks
	total := wp.totalTasks
	wp.mu.Unlock()

	status := TaskStatusCompleted
	message := fmt.Sprintf("worker %d completed in %v", workerID, elapsed)

	if err != nil {
		status = TaskStatusFailed
		message = fmt.Sprintf("worker %d failed: %v", workerID, err)
	}

	wp.sendProgress(ProgressUpdate{
		TaskID:      task.ID,
		Filename:    task.Filename,
		Status:      status,
		Completed:   completed,
		Total:       total,
		ElapsedTime: elapsed,
		Message:     message,
	})

	// Blocks until the caller drains Results
	wp.results <- ExtractionTaskResult{
		Task:   task,
		Result: result,
		Error:  err,
	}
}

// sendProgress drops the update when nobody keeps up with the channel.
func (wp *WorkerPool) sendProgress(update ProgressUpdate) {
	select {
	case wp.progressChan <- update:
	default:
		// nobody is listening fast enough; progress is best effort
	}
}

// SubmitTask queues a task for processing.
func (wp *WorkerPool) SubmitTask(task ExtractionTask) {
	wp.mu.Lock()
	wp.totalTasks++
	wp.mu.Unlock()

	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusPending,
		Message:  "task queued for processing",
	})

	select {
	case wp.tasks <- task:
	case <-wp.ctx.Done():
		// canceled before a worker was free; the task is dropped
	}
}

// SubmitFile queues filename under a fresh task ID and returns the ID.
func (wp *WorkerPool) SubmitFile(filename string) string {
	task := ExtractionTask{
		ID:       uuid.NewString(),
		Filename: filename,
	}
	wp.SubmitTask(task)

	return task.ID
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan ExtractionTaskResult {
	return wp.results
}

// Progress returns the progress channel.
func (wp *WorkerPool) Progress() <-chan ProgressUpdate {
	return wp.progressChan
}

// Wait closes the task queue, waits for the workers and closes the output channels.
func (wp *WorkerPool) Wait() {
	close(wp.tasks) // no SubmitTask may run after this point
	wp.wg.Wait()
	close(wp.results)
	close(wp.progressChan)
}

// Shutdown cancels outstanding work and releases the pool.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// GetStats returns current processing statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return WorkerPoolStats{
		TotalTasks:     wp.totalTasks,
		CompletedTasks: wp.completedTasks,
		PendingTasks:   wp.totalTasks - wp.completedTasks,
		NumWorkers:     wp.numWorkers,
	}
}

// WorkerPoolStats provides statistics about the worker pool.
type WorkerPoolStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	NumWorkers     int `json:"num_workers"`
}

// ProgressTracker tracks and reports progress for a batch of tasks.
type ProgressTracker struct {
	startTime    time.Time
	taskStatuses map[string]TaskStatus
	mu           sync.RWMutex
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		startTime:    time.Now(),
		taskStatuses: make(map[string]TaskStatus),
	}
}

// Update records the latest status of a task.
func (pt *ProgressTracker) Update(update ProgressUpdate) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.taskStatuses[update.TaskID] = update.Status
}

// GetSummary returns a summary of the current progress.
func (pt *ProgressTracker) GetSummary() ProgressSummary {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	summary := ProgressSummary{
		ElapsedTime:  time.Since(pt.startTime),
		StatusCounts: make(map[TaskStatus]int),
		TotalTasks:   len(pt.taskStatuses),
	}

	for _, status := range pt.taskStatuses {
		summary.StatusCounts[status]++
	}

	return summary
}

// ProgressSummary provides a summary of progress tracking.
type ProgressSummary struct {
	StatusCounts map[TaskStatus]int `json:"status_counts"`
	ElapsedTime  time.Duration      `json:"elapsed_time"`
	TotalTasks   int                `json:"total_tasks"`
}

// PrintProgress writes a one-line progress report to w.
func (pt *ProgressTracker) PrintProgress(w io.Writer) {
	summary := pt.GetSummary()

	completed := summary.StatusCounts[TaskStatusCompleted]
	failed := summary.StatusCounts[TaskStatusFailed]

	fmt.Fprintf(w, "\rprogress: %d/%d completed", completed, summary.TotalTasks)

	if failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}

	fmt.Fprintf(w, " [%v elapsed]", summary.ElapsedTime.Round(time.Second))
}
