package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ExecOptions controls how scripts are run
type ExecOptions struct {
	Timeout     time.Duration // Per-script timeout, 0 for none
	Isolate     bool          // Run each script in its own temporary database
	StopOnError bool          // Skip the remaining statements after a failure
}

// Executor runs split scripts statement by statement
type Executor struct {
	pool *database.Pool
	opts ExecOptions
}

// NewExecutor creates a new script executor
func NewExecutor(pool *database.Pool, opts ExecOptions) *Executor {
	return &Executor{
		pool: pool,
		opts: opts,
	}
}

// Execute runs the statements of s in order on one session. It never returns
// nil; failures are reported in the run.
func (e *Executor) Execute(ctx context.Context, s *script.Script) *ScriptRun {
	run := &ScriptRun{
		Script:    s,
		StartTime: time.Now(),
		Status:    RunPending,
	}

	runCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	err := e.executeScript(runCtx, run)
	switch {
	case err == nil:
		run.Status = RunPassed
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(runCtx.Err(), context.DeadlineExceeded):
		run.Status = RunTimeout
		run.Error = err
	default:
		run.Status = RunFailed
		run.Error = err
	}
	if err != nil {
		logger.Debug("%s: %v", s.Name, err)
	}

	run.EndTime = time.Now()
	return run
}

// ExecuteBatch runs scripts sequentially, stopping early if ctx is cancelled
func (e *Executor) ExecuteBatch(ctx context.Context, scripts []*script.Script) []*ScriptRun {
	var runs []*ScriptRun
	for _, s := range scripts {
		runs = append(runs, e.Execute(ctx, s))
		if ctx.Err() != nil {
			break
		}
	}
	return runs
}

// executeScript implements the per-script workflow:
// 1. Create a temp database when isolating
// 2. Open a session with a notice handler
// 3. Run every statement, mapping server errors back to the source
// 4. Drop the temp database
func (e *Executor) executeScript(ctx context.Context, run *ScriptRun) error {
	s := run.Script
	run.Statements = make([]StatementResult, len(s.Statements))
	for i, st := range s.Statements {
		run.Statements[i] = StatementResult{Index: i, Statement: st, Status: StatementPending}
	}

	var dbName string
	if e.opts.Isolate {
		tempDB, err := database.CreateTempDatabase(ctx, e.pool)
		if err != nil {
			return err
		}
		run.Database = tempDB
		dbName = tempDB.Name

		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.DestroyTempDatabase(cleanupCtx, e.pool, tempDB); err != nil {
				logger.Warn("%v", err)
			}
		}()
	}

	notices := database.NewNoticeCollector()
	cfg := e.pool.ConnConfig(dbName)
	cfg.OnNotice = notices.Handle

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	run.Status = RunRunning

	var firstErr error
	for i := range run.Statements {
		res := &run.Statements[i]
		if (firstErr != nil && e.opts.StopOnError) || ctx.Err() != nil {
			res.Status = StatementSkipped
			continue
		}

		notices.SetStatement(i)
		start := time.Now()
		tag, err := conn.Exec(ctx, res.Statement.SQL, pgx.QueryExecModeSimpleProtocol)
		res.Duration = time.Since(start)
		res.Notices = notices.Drain()

		if err != nil {
			res.Status = StatementFailed
			res.Error = e.locateError(s, i, err)
			if firstErr == nil {
				firstErr = res.Error
			}
			logger.Debug("%v", res.Error)
			continue
		}
		res.Status = StatementOK
		res.CommandTag = tag.String()
	}

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return firstErr
}

// locateError wraps err with the source position it refers to. A server error
// position points into the statement text; without one the statement start is used.
func (e *Executor) locateError(s *script.Script, index int, err error) *errors.ExecutionError {
	st := s.Statements[index]
	line, column := st.StartLine, st.StartColumn

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Position > 0 {
		line, column = s.Locate(st, byteOffset(st.SQL, int(pgErr.Position)-1))
	}

	return errors.NewExecutionError(s.Name, index, line, column, err)
}

// byteOffset converts a character index into a byte offset of s
func byteOffset(s string, chars int) int {
	off := 0
	for i := 0; i < chars && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return off
}
