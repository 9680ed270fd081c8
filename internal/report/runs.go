package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/runner"
)

// FormatRuns prints the failed and skipped statements of every run followed
// by a summary.
func FormatRuns(runs []*runner.ScriptRun, writer io.Writer) error {
	for _, run := range runs {
		if _, err := fmt.Fprintf(writer, "[%s] %s (%d statement(s), %v)\n",
			run.Status, run.Script.Name, len(run.Statements), run.Duration().Round(time.Millisecond)); err != nil {
			return err
		}

		var rows [][]string
		failed := false
		for _, res := range run.Statements {
			for _, n := range res.Notices {
				rows = append(rows, []string{strconv.Itoa(res.Index + 1), lineCol(res), n.Severity, n.Message})
			}
			switch res.Status {
			case runner.StatementFailed:
				failed = true
				rows = append(rows, []string{strconv.Itoa(res.Index + 1), lineCol(res), "failed", res.Error.Error()})
			case runner.StatementSkipped:
				rows = append(rows, []string{strconv.Itoa(res.Index + 1), lineCol(res), "skipped", preview(res.Statement.SQL)})
			}
		}
		if run.Error != nil && !failed {
			rows = append(rows, []string{"-", "-", "error", run.Error.Error()})
		}

		if len(rows) > 0 {
			table := newTable(writer)
			table.SetHeader([]string{"#", "Line", "Status", "Message"})
			table.AppendBulk(rows)
			table.Render()
		}
	}

	summary := runner.SummarizeRuns(runs)
	_, err := fmt.Fprintf(writer, "\nScripts:    %d passed, %d failed, %d timed out, %d total\n"+
		"Statements: %d failed, %d skipped, %d total\n"+
		"Time:       %v\n",
		summary.PassedScripts, summary.FailedScripts, summary.TimedOutScripts, summary.TotalScripts,
		summary.FailedStatements, summary.SkippedStatements, summary.TotalStatements,
		summary.TotalDuration.Round(time.Millisecond))
	return err
}

func lineCol(res runner.StatementResult) string {
	return fmt.Sprintf("%d:%d", res.Statement.StartLine, res.Statement.StartColumn)
}
