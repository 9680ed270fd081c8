package runner

import (
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// LoadResult is the outcome of loading and splitting one file
type LoadResult struct {
	File    *discovery.DiscoveredFile
	Script  *script.Script // nil if Err is set
	Err     error
	Skipped bool // The context was cancelled before the file was read
}

// ScriptRun represents the execution of one script
type ScriptRun struct {
	Script     *script.Script
	Database   *database.TempDatabase // Set when the script ran isolated
	StartTime  time.Time
	EndTime    time.Time
	Status     RunStatus
	Statements []StatementResult
	Error      error // First failure, or a setup error
}

// RunStatus represents the current state of a script execution
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunPassed
	RunFailed
	RunTimeout
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunPassed:
		return "passed"
	case RunFailed:
		return "failed"
	case RunTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// StatementStatus is the outcome of a single statement
type StatementStatus int

const (
	StatementPending StatementStatus = iota
	StatementOK
	StatementFailed
	StatementSkipped
)

// String returns a string representation of StatementStatus
func (ss StatementStatus) String() string {
	switch ss {
	case StatementPending:
		return "pending"
	case StatementOK:
		return "ok"
	case StatementFailed:
		return "failed"
	case StatementSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StatementResult records how one statement of a script ran
type StatementResult struct {
	Index      int
	Statement  splitter.StatementInfo
	Status     StatementStatus
	Duration   time.Duration
	CommandTag string
	Notices    []database.Notice
	Error      error // *errors.ExecutionError for failed statements
}

// Duration returns the script execution duration
func (sr *ScriptRun) Duration() time.Duration {
	if sr.EndTime.IsZero() {
		return time.Since(sr.StartTime)
	}
	return sr.EndTime.Sub(sr.StartTime)
}

// Summary summarizes all script executions
type Summary struct {
	TotalScripts      int
	PassedScripts     int
	FailedScripts     int
	TimedOutScripts   int
	TotalStatements   int
	FailedStatements  int
	SkippedStatements int
	TotalDuration     time.Duration
}

// AllPassed returns true if every script passed
func (s *Summary) AllPassed() bool {
	return s.FailedScripts == 0 && s.TimedOutScripts == 0
}

// ExitCode returns the process exit code for the results
func (s *Summary) ExitCode() int {
	if s.AllPassed() {
		return 0
	}
	return 1
}

// SummarizeRuns creates a summary of execution results
func SummarizeRuns(runs []*ScriptRun) *Summary {
	summary := &Summary{
		TotalScripts: len(runs),
	}

	for _, run := range runs {
		summary.TotalDuration += run.Duration()

		switch run.Status {
		case RunPassed:
			summary.PassedScripts++
		case RunFailed:
			summary.FailedScripts++
		case RunTimeout:
			summary.TimedOutScripts++
		}

		for _, st := range run.Statements {
			summary.TotalStatements++
			switch st.Status {
			case StatementFailed:
				summary.FailedStatements++
			case StatementSkipped:
				summary.SkippedStatements++
			}
		}
	}

	return summary
}
