package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	"github.com/cybertec-postgresql/sqlsplit/internal/runner"
)

// Exec splits every script under paths and runs it against PostgreSQL. It
// returns the process exit code.
func Exec(ctx context.Context, config *Config, paths []string) (int, error) {
	startTime := time.Now()

	scripts, err := loadScripts(ctx, config, paths)
	if err != nil {
		return 1, err
	}
	if len(scripts) == 0 {
		fmt.Println("No SQL scripts found")
		return 0, nil
	}

	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	executor := runner.NewExecutor(pool, runner.ExecOptions{
		Timeout:     config.Timeout,
		Isolate:     config.Isolate,
		StopOnError: config.StopOnError,
	})

	var runs []*runner.ScriptRun
	if config.Parallelism > 1 {
		logger.Debug("executing scripts in parallel (workers: %d)", config.Parallelism)
		wp := runner.NewWorkerPool(config.Parallelism, config.Compatibility, config.Delimiter).WithExecutor(executor)
		runs = wp.ExecuteParallel(ctx, scripts)
	} else {
		logger.Debug("executing scripts sequentially")
		runs = executor.ExecuteBatch(ctx, scripts)
	}

	writer, closeOutput, err := openOutput(config.Output)
	if err != nil {
		return 1, err
	}
	defer func() { _ = closeOutput() }()

	if err := report.FormatRuns(runs, writer); err != nil {
		return 1, fmt.Errorf("failed to write results: %w", err)
	}
	logger.Debug("finished in %v", time.Since(startTime).Round(time.Millisecond))

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "Interrupted")
		return 1, nil
	}
	return runner.SummarizeRuns(runs).ExitCode(), nil
}
