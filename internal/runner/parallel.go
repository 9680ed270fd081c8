package runner

import (
	"context"
	"sync"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
)

// WorkerPool spreads loading and execution of scripts over a fixed number of goroutines
type WorkerPool struct {
	maxWorkers int
	compat     dialect.Compatibility
	delimiter  string
	executor   *Executor
}

// NewWorkerPool creates a worker pool. Files are split with compat unless their
// name carries a dialect hint, starting with delimiter ("" for the default).
func NewWorkerPool(maxWorkers int, compat dialect.Compatibility, delimiter string) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		compat:     compat,
		delimiter:  delimiter,
	}
}

// WithExecutor attaches the executor used by ExecuteParallel
func (wp *WorkerPool) WithExecutor(e *Executor) *WorkerPool {
	wp.executor = e
	return wp
}

// SplitParallel loads and splits files. Results are in the order of files.
func (wp *WorkerPool) SplitParallel(ctx context.Context, files []discovery.DiscoveredFile) []*LoadResult {
	results := make([]*LoadResult, len(files))

	wp.each(ctx, len(files), func(ctx context.Context, i, worker int) {
		file := &files[i]
		if ctx.Err() != nil {
			results[i] = &LoadResult{File: file, Err: ctx.Err(), Skipped: true}
			return
		}

		s, err := script.Load(file, wp.compat, wp.delimiter)
		if err != nil {
			logger.Debug("worker %d: %s: %v", worker, file.RelativePath, err)
			results[i] = &LoadResult{File: file, Err: err}
			return
		}
		logger.Debug("worker %d: %s: %d statement(s)", worker, file.RelativePath, len(s.Statements))
		results[i] = &LoadResult{File: file, Script: s}
	})

	return results
}

// ExecuteParallel runs scripts on the attached executor. Results are in the
// order of scripts; scripts not started before ctx was cancelled are
// reported as failed with the context error.
func (wp *WorkerPool) ExecuteParallel(ctx context.Context, scripts []*script.Script) []*ScriptRun {
	runs := make([]*ScriptRun, len(scripts))

	wp.each(ctx, len(scripts), func(ctx context.Context, i, worker int) {
		if ctx.Err() != nil {
			now := time.Now()
			runs[i] = &ScriptRun{
				Script:    scripts[i],
				StartTime: now,
				EndTime:   now,
				Status:    RunFailed,
				Error:     ctx.Err(),
			}
			return
		}

		logger.Debug("worker %d: running %s", worker, scripts[i].Name)
		runs[i] = wp.executor.Execute(ctx, scripts[i])
		logger.Debug("worker %d: [%s] %s", worker, runs[i].Status, scripts[i].Name)
	})

	return runs
}

// each calls fn for every index in [0, n) on up to maxWorkers goroutines.
// Distinct calls get distinct indexes.
func (wp *WorkerPool) each(ctx context.Context, n int, fn func(ctx context.Context, index, worker int)) {
	if n == 0 {
		return
	}

	workers := min(wp.maxWorkers, n)
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(ctx, i, 0)
		}
		return
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i, worker)
			}
		}(w)
	}
	wg.Wait()
}
