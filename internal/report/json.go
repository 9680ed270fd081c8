package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// JSONReporter formats split scripts as JSON
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// jsonScript is the JSON document for one script
type jsonScript struct {
	File          string                   `json:"file"`
	Compatibility dialect.Compatibility    `json:"compatibility"`
	Count         int                      `json:"statement_count"`
	Statements    []splitter.StatementInfo `json:"statements"`
}

type jsonReport struct {
	Scripts []jsonScript `json:"scripts"`
}

func newJSONReport(scripts []*script.Script) jsonReport {
	r := jsonReport{Scripts: make([]jsonScript, 0, len(scripts))}
	for _, s := range scripts {
		stmts := s.Statements
		if stmts == nil {
			stmts = []splitter.StatementInfo{}
		}
		r.Scripts = append(r.Scripts, jsonScript{
			File:          s.Name,
			Compatibility: s.Compatibility,
			Count:         len(stmts),
			Statements:    stmts,
		})
	}
	return r
}

// Format renders scripts as JSON and writes to the writer
func (r *JSONReporter) Format(scripts []*script.Script, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newJSONReport(scripts)); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// FormatString returns the scripts as a JSON string
func (r *JSONReporter) FormatString(scripts []*script.Script) (string, error) {
	var sb strings.Builder
	if err := r.Format(scripts, &sb); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// FormatStatement renders a single statement, as printed by the locate command
func (r *JSONReporter) FormatStatement(s *script.Script, index int, writer io.Writer) error {
	doc := struct {
		File      string                 `json:"file"`
		Index     int                    `json:"index"`
		Statement splitter.StatementInfo `json:"statement"`
	}{s.Name, index, s.Statements[index]}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
