package cli

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
)

// Caret identifies a position in a file, either by byte offset or by line and column
type Caret struct {
	Offset int // Used when Line is 0
	Line   int // 1-indexed
	Column int // 0-indexed
}

// statementFormatter prints a single statement
type statementFormatter interface {
	FormatStatement(s *script.Script, index int, writer io.Writer) error
}

// Locate prints the statement under caret in the file at path
func Locate(config *Config, path string, caret Caret, writer io.Writer) error {
	files, err := discovery.Discover(path)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return errors.NewArgumentError("path", path, "must name a single file")
	}

	s, err := script.Load(&files[0], config.Compatibility, config.Delimiter)
	if err != nil {
		return err
	}

	offset := caret.Offset
	if caret.Line > 0 {
		var ok bool
		if offset, ok = s.Offset(caret.Line, caret.Column); !ok {
			return errors.NewArgumentError("line", fmt.Sprintf("%d:%d", caret.Line, caret.Column), "outside the file")
		}
	}

	index := s.StatementIndex(offset)
	if index < 0 {
		return fmt.Errorf("no statement at offset %d in %s", offset, s.Name)
	}

	var f statementFormatter = report.NewTextReporter()
	if config.Format == string(report.FormatJSON) {
		f = report.NewJSONReporter()
	}
	return f.FormatStatement(s, index, writer)
}
