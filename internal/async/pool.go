// Package async runs document analyses on a bounded set of workers, either
// as an ordered batch or as a long-lived queue fed by a watcher.
package async

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

// ErrClosed is returned by Enqueue after Shutdown.
var ErrClosed = errors.New("queue is shutting down")

// Processor analyzes one file. *analyzer.Analyzer satisfies it.
type Processor interface {
	AnalyzeFile(ctx context.Context, path string) analyzer.Result
}

// Job is one queued document.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

type Pool struct {
	proc     Processor
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	onResult func(analyzer.Result)

	ch    chan Job
	wg    sync.WaitGroup
	once  sync.Once
	runID string

	mu      sync.Mutex
	closed  bool
	done    chan struct{} // closed by Shutdown
	senders sync.WaitGroup
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithOnResult registers the callback queued jobs report to. It is called
// from worker goroutines.
func WithOnResult(fn func(analyzer.Result)) Option {
	return func(p *Pool) { p.onResult = fn }
}

func NewPool(proc Processor, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		proc:    proc,
		logger:  logger,
		workers: runtime.NumCPU(),
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process analyzes paths concurrently and returns the results in input
// order. A document that exceeds the per-document timeout is reported as
// failed with the context error.
func (p *Pool) Process(ctx context.Context, paths []string) []analyzer.Result {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = ulid.Make().String()
		ctx = common.WithRunID(ctx, runID)
	}
	results := make([]analyzer.Result, len(paths))
	idx := make(chan int)

	workers := min(p.workers, len(paths))
	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range idx {
				results[i] = p.processOne(ctx, workerID, paths[i])
			}
		}(w)
	}
	for i := range paths {
		idx <- i
	}
	close(idx)
	wg.Wait()

	p.logger.Info("batch complete", "run_id", runID, "documents", len(paths), "workers", workers)
	return results
}

func (p *Pool) processOne(ctx context.Context, workerID int, path string) analyzer.Result {
	jctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan analyzer.Result, 1)
	go func() { done <- p.proc.AnalyzeFile(jctx, path) }()

	select {
	case r := <-done:
		return r
	case <-jctx.Done():
		p.logger.Error("processing abandoned", "worker_id", workerID, "path", path, "error", jctx.Err())
		return analyzer.Failed(path, common.RunIDFromContext(ctx), jctx.Err())
	}
}

// Start launches the queue workers. Enqueue calls it on first use.
func (p *Pool) Start() {
	p.once.Do(func() {
		p.runID = ulid.Make().String()
		ctx := common.WithRunID(context.Background(), p.runID)
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go func(workerID int) {
				defer p.wg.Done()
				p.logger.Debug("worker started", "worker_id", workerID)

				for job := range p.ch {
					jctx := ctx
					if job.TraceID != "" {
						jctx = common.WithLogger(jctx, p.logger.With("trace_id", job.TraceID))
					}
					res := p.processOne(jctx, workerID, job.Path)
					p.logger.Debug("processed file", "worker_id", workerID, "path", job.Path,
						"wait_ms", time.Since(job.SubmittedAt).Milliseconds())
					if p.onResult != nil {
						p.onResult(res)
					}
				}

				p.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue queues job for the workers. When the queue is full it blocks until
// there is room, ctx ends or Shutdown starts, returning ErrClosed in the last
// case.
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	p.Start()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrClosed
	}
	p.senders.Add(1)
	p.mu.Unlock()
	defer p.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case p.ch <- job:
		p.logger.Info("queued file for processing", "path", job.Path)
		return nil
	default:
	}
	p.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case p.ch <- job:
		return nil
	case <-p.done:
		p.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to end.
func (p *Pool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	// Blocked senders see done and return; the channel closes after them.
	p.senders.Wait()
	close(p.ch)

	done := make(chan struct{})
	go func() { defer close(done); p.wg.Wait() }()

	select {
	case <-ctx.Done():
		p.logger.Warn("shutdown interrupted by context")
	case <-done:
		p.logger.Info("queue drained, shutdown complete")
	}
}
