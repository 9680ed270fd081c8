package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cybertec-postgresql/sqlsplit/internal/script"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
	"github.com/olekukonko/tablewriter"
)

// previewWidth is the number of runes of SQL shown per statement
const previewWidth = 60

// TextReporter prints one table per script
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes a table of statements for every script
func (r *TextReporter) Format(scripts []*script.Script, writer io.Writer) error {
	for i, s := range scripts {
		if i > 0 {
			if _, err := fmt.Fprintln(writer); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(writer, "%s (%s): %d statement(s)\n", s.Name, s.Compatibility, len(s.Statements)); err != nil {
			return err
		}
		if len(s.Statements) == 0 {
			continue
		}

		table := newTable(writer)
		table.SetHeader([]string{"#", "Start", "End", "Range", "Delimiter", "SQL"})
		for j, st := range s.Statements {
			table.Append(statementRow(j, st))
		}
		table.Render()
	}
	return nil
}

// FormatString returns the tables as a string
func (r *TextReporter) FormatString(scripts []*script.Script) (string, error) {
	var sb strings.Builder
	if err := r.Format(scripts, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatStatement prints a single statement with its full text
func (r *TextReporter) FormatStatement(s *script.Script, index int, writer io.Writer) error {
	st := s.Statements[index]
	_, err := fmt.Fprintf(writer, "%s: statement %d at %d:%d-%d:%d [%d,%d)\n%s\n",
		s.Name, index+1, st.StartLine, st.StartColumn, st.EndLine, st.EndColumn,
		st.StartOffset, st.EndOffset, st.SQL)
	return err
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}

func newTable(writer io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

func statementRow(index int, st splitter.StatementInfo) []string {
	return []string{
		strconv.Itoa(index + 1),
		fmt.Sprintf("%d:%d", st.StartLine, st.StartColumn),
		fmt.Sprintf("%d:%d", st.EndLine, st.EndColumn),
		fmt.Sprintf("%d-%d", st.StartOffset, st.EndOffset),
		st.Delimiter,
		preview(st.SQL),
	}
}

// preview returns the first line of sql, cut to previewWidth runes
func preview(sql string) string {
	line, _, more := strings.Cut(sql, "\n")
	if utf8.RuneCountInString(line) > previewWidth {
		runes := []rune(line)
		return string(runes[:previewWidth]) + "..."
	}
	if more {
		return line + " ..."
	}
	return line
}
