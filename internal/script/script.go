// Package script ties a SQL source file to its split statements.
package script

import (
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// Script is one split source file
type Script struct {
	File          *discovery.DiscoveredFile
	Name          string
	Source        string
	Compatibility dialect.Compatibility
	Statements    []splitter.StatementInfo

	lines *splitter.LineIndex
}

// Load reads file and splits it. A dialect hint in the file name takes
// precedence over Generic; an explicit MySQL or PostgreSQL choice wins over
// the hint. An empty delimiter selects the dialect default.
func Load(file *discovery.DiscoveredFile, c dialect.Compatibility, delimiter string) (*Script, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.RelativePath, err)
	}

	if c == dialect.Generic {
		c = file.CompatibilityOr(c)
	}

	s, err := split(file.RelativePath, string(content), c, delimiter)
	if err != nil {
		return nil, err
	}
	s.File = file
	return s, nil
}

// FromString splits src as if it were read from a file called name
func FromString(name, src string, c dialect.Compatibility) (*Script, error) {
	return split(name, src, c, "")
}

func split(name, src string, c dialect.Compatibility, delimiter string) (*Script, error) {
	sp, err := splitter.New(c)
	if err != nil {
		return nil, err
	}
	if delimiter != "" {
		if sp, err = sp.WithDelimiter(delimiter); err != nil {
			return nil, err
		}
	}

	return &Script{
		Name:          name,
		Source:        src,
		Compatibility: c,
		Statements:    sp.Split(src),
		lines:         splitter.NewLineIndex(src),
	}, nil
}

// StatementAt returns the statement under a caret at raw offset
func (s *Script) StatementAt(offset int) (splitter.StatementInfo, bool) {
	return splitter.FindStatementAtOffset(s.Statements, offset, s.Source)
}

// StatementIndex is StatementAt returning an index, or -1
func (s *Script) StatementIndex(offset int) int {
	return splitter.FindStatementIndex(s.Statements, offset, s.Source)
}

// Position returns the 1-based line and 0-based column of a raw offset
func (s *Script) Position(offset int) (line, column int) {
	return s.lines.Position(offset)
}

// Offset converts a 1-based line and 0-based column to a raw offset
func (s *Script) Offset(line, column int) (int, bool) {
	off, ok := s.lines.Offset(line, column)
	if !ok || off > len(s.Source) {
		return 0, false
	}
	return off, true
}

// Locate maps a byte position inside a statement's normalized text to a
// source line and column.
func (s *Script) Locate(stmt splitter.StatementInfo, sqlPos int) (line, column int) {
	return s.lines.Position(stmt.RawOffset(sqlPos))
}
