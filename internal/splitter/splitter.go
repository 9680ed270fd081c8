// Package splitter breaks SQL scripts into statements.
//
// A script is scanned once, byte by byte, by a small state machine whose
// states are the lexical contexts of SQL text: plain text, line and block
// comments, string literals, quoted identifiers and dollar quotes. Statement
// boundaries are recognized only in plain text, on the delimiter currently in
// effect, which a DELIMITER directive may change mid-script.
//
// Every statement carries its normalized text and the tables needed to map
// positions in that text back to the source, which is what an editor needs to
// highlight the statement under the caret or to place an error reported by the
// server.
//
// Usage:
//
//	stmts, err := splitter.Split(src, dialect.MySQL)
//	if err != nil { ... }
//	for _, st := range stmts {
//	    fmt.Println(st.StartLine, st.SQL)
//	}
//
// Malformed input never fails: an unterminated comment, literal or dollar
// quote simply extends to the end of the input.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

// Splitter holds the configuration of a split. It keeps no scan state and is
// safe for concurrent use.
type Splitter struct {
	rules     dialect.Rules
	delimiter string
}

// New returns a Splitter for the given dialect
func New(c dialect.Compatibility) (*Splitter, error) {
	rules, err := dialect.For(c)
	if err != nil {
		return nil, err
	}
	return &Splitter{rules: rules, delimiter: rules.DefaultDelimiter()}, nil
}

// WithDelimiter returns a copy of s that starts scripts with delimiter d
// instead of the dialect default.
func (s *Splitter) WithDelimiter(d string) (*Splitter, error) {
	if d == "" || strings.IndexFunc(d, func(r rune) bool { return r < utf8.RuneSelf && isSpace(byte(r)) }) >= 0 {
		return nil, errors.NewArgumentError("delimiter", d, "must be non-empty and contain no whitespace")
	}
	cp := *s
	cp.delimiter = d
	return &cp, nil
}

// Rules returns the dialect rules in use
func (s *Splitter) Rules() dialect.Rules { return s.rules }

// Delimiter returns the delimiter in effect at the start of a script
func (s *Splitter) Delimiter() string { return s.delimiter }

// Split returns the statements of src in source order
func (s *Splitter) Split(src string) []StatementInfo {
	sc := &scanner{
		src:   src,
		rules: s.rules,
		delim: s.delimiter,
		mode:  textMode,
		buf:   newBuilder(),
		lines: NewLineIndex(src),
	}
	return sc.run()
}

// Split is a convenience wrapper around New and (*Splitter).Split
func Split(src string, c dialect.Compatibility) ([]StatementInfo, error) {
	s, err := New(c)
	if err != nil {
		return nil, err
	}
	return s.Split(src), nil
}

// scanner is the state of one Split call
type scanner struct {
	src   string
	rules dialect.Rules
	delim string // active delimiter
	pos   int
	mode  mode
	start int // raw offset where the current statement began
	buf   *builder
	lines *LineIndex
	out   []StatementInfo
}

func (s *scanner) run() []StatementInfo {
	for s.pos < len(s.src) {
		if s.mode.kind == modeText {
			s.text()
			continue
		}
		s.apply(advance(s.src, s.pos, s.mode))
	}
	s.flush("")
	return s.out
}

// text handles one decision point in plain text
func (s *scanner) text() {
	if s.buf.empty() {
		if delim, width, ok := parseDirective(s.src, s.pos); ok {
			s.pos += width
			s.delim = delim
			s.buf.reset()
			s.start = s.pos
			return
		}
	}

	// comment markers win over a delimiter sharing their first byte, as with "/" and "/*"
	m, width, opened := opening(s.src, s.pos, s.rules)
	isComment := m.kind == modeLineComment || m.kind == modeBlockComment
	if opened && isComment {
		s.apply(step{next: m, width: width})
		return
	}

	if matchDelimiter(s.src, s.pos, s.delim, peek(s.src, s.pos-1)) {
		s.pos += len(s.delim)
		s.flush(s.delim)
		return
	}

	if opened {
		s.apply(step{next: m, width: width, keep: true})
		return
	}

	_, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.buf.write(s.src, s.pos, size)
	s.pos += size
}

func (s *scanner) apply(st step) {
	if st.keep {
		s.buf.write(s.src, s.pos, st.width)
	} else {
		s.buf.elide(s.src, s.pos, st.width)
	}
	s.pos += st.width
	s.mode = st.next
}

// flush closes the current statement. Statements that normalize to nothing
// produce no StatementInfo.
func (s *scanner) flush(delim string) {
	if sql, points := s.buf.text(); sql != "" {
		s.out = append(s.out, s.statement(sql, points, delim))
	}
	s.buf.reset()
	s.start = s.pos
}

func (s *scanner) statement(sql string, points []PosMapping, delim string) StatementInfo {
	startOffset := points[0].RawPos
	endOffset := rawOffset(points, len(sql)-1) + 1
	startLine, startCol := s.lines.Position(startOffset)
	endLine, endCol := s.lines.Position(endOffset - 1)

	return StatementInfo{
		SQL:            sql,
		Delimiter:      delim,
		RawStartOffset: s.start,
		RawEndOffset:   s.pos,
		StartOffset:    startOffset,
		EndOffset:      endOffset,
		StartLine:      startLine,
		StartColumn:    startCol,
		EndLine:        endLine,
		EndColumn:      endCol,
		NewLineOffsets: newLineOffsets(sql, points),
		SQLPosToRawPos: points,
	}
}
