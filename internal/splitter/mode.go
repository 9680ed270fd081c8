package splitter

import (
	"strings"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
)

// modeKind is the lexical context the scanner is in
type modeKind int

const (
	modeText modeKind = iota
	modeLineComment
	modeBlockComment
	modeString
	modeQuotedIdent
	modeDollarQuote
)

// String returns a string representation of modeKind
func (k modeKind) String() string {
	switch k {
	case modeText:
		return "text"
	case modeLineComment:
		return "line-comment"
	case modeBlockComment:
		return "block-comment"
	case modeString:
		return "string"
	case modeQuotedIdent:
		return "quoted-identifier"
	case modeDollarQuote:
		return "dollar-quote"
	default:
		return "unknown"
	}
}

// mode is the scan state. close holds the terminator of quoted modes: the
// quote character, or the full $tag$ of a dollar quote. escapes marks quoted
// text in which a backslash escapes the following byte.
type mode struct {
	kind    modeKind
	close   string
	escapes bool
}

var textMode = mode{kind: modeText}

// step is the outcome of one transition: width bytes were consumed, keep says
// whether they belong to the normalized statement, next is the resulting mode.
type step struct {
	next  mode
	width int
	keep  bool
}

// opening detects a comment or quote opener at src[pos]. It returns the mode
// entered and the width of the opener.
func opening(src string, pos int, rules dialect.Rules) (mode, int, bool) {
	ch := src[pos]
	next := peek(src, pos+1)

	if w := rules.LineCommentWidth(ch, next); w > 0 {
		return mode{kind: modeLineComment}, w, true
	}
	if ch == '/' && next == '*' {
		return mode{kind: modeBlockComment}, 2, true
	}
	if ch == rules.StringQuoteChar() {
		return mode{kind: modeString, close: string(ch), escapes: rules.BackslashEscapes()}, 1, true
	}
	if (ch == 'e' || ch == 'E') && next == rules.StringQuoteChar() && rules.EscapeStrings() && !isIdentByte(peek(src, pos-1)) {
		return mode{kind: modeString, close: string(next), escapes: true}, 2, true
	}
	if close, ok := rules.IdentifierQuoteClose(ch); ok {
		return mode{kind: modeQuotedIdent, close: string(close), escapes: rules.IdentifierQuoteEscapes(ch)}, 1, true
	}
	if ch == '$' && rules.SupportsDollarQuote() && !inIdentifier(src, pos) {
		if tag, ok := dollarTag(src, pos); ok {
			return mode{kind: modeDollarQuote, close: tag}, len(tag), true
		}
	}
	return textMode, 0, false
}

// advance consumes the body of a non-text mode starting at pos, up to and
// including its terminator. Unterminated bodies run to the end of src.
func advance(src string, pos int, m mode) step {
	switch m.kind {
	case modeLineComment:
		return lineComment(src, pos)
	case modeBlockComment:
		return blockComment(src, pos)
	case modeString:
		return quoted(src, pos, m.close[0], m.escapes)
	case modeQuotedIdent:
		return quoted(src, pos, m.close[0], m.escapes)
	case modeDollarQuote:
		return dollarBody(src, pos, m.close)
	default:
		return step{next: textMode}
	}
}

// lineComment stops before the newline; the newline stays in the text as whitespace
func lineComment(src string, pos int) step {
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		return step{next: textMode, width: i}
	}
	return step{next: textMode, width: len(src) - pos}
}

// blockComment does not nest: the first */ closes it
func blockComment(src string, pos int) step {
	if i := strings.Index(src[pos:], "*/"); i >= 0 {
		return step{next: textMode, width: i + 2}
	}
	return step{next: textMode, width: len(src) - pos}
}

// quoted consumes up to the closing quote. A doubled closing quote is an escaped
// quote; with backslash set, a backslash escapes the byte after it.
func quoted(src string, pos int, close byte, backslash bool) step {
	i := pos
	for i < len(src) {
		switch ch := src[i]; {
		case backslash && ch == '\\':
			i += 2
		case ch == close:
			if peek(src, i+1) == close {
				i += 2
				continue
			}
			return step{next: textMode, width: i + 1 - pos, keep: true}
		default:
			i++
		}
	}
	return step{next: textMode, width: len(src) - pos, keep: true}
}

func dollarBody(src string, pos int, tag string) step {
	if i := strings.Index(src[pos:], tag); i >= 0 {
		return step{next: textMode, width: i + len(tag), keep: true}
	}
	return step{next: textMode, width: len(src) - pos, keep: true}
}

// dollarTag reads a $tag$ or $$ opener at src[pos]. Tags follow identifier
// rules and cannot start with a digit, so $1 stays a parameter.
func dollarTag(src string, pos int) (string, bool) {
	i := pos + 1
	if i < len(src) && isIdentStart(src[i]) {
		i++
		for i < len(src) && isIdentByte(src[i]) {
			i++
		}
	}
	if i < len(src) && src[i] == '$' {
		return src[pos : i+1], true
	}
	return "", false
}

// matchDelimiter reports whether delim starts at src[pos] as a standalone
// token. prev is the byte before pos, or 0.
func matchDelimiter(src string, pos int, delim string, prev byte) bool {
	if !strings.HasPrefix(src[pos:], delim) {
		return false
	}
	if isIdentByte(delim[0]) && isIdentByte(prev) {
		return false
	}
	if isIdentByte(delim[len(delim)-1]) && isIdentByte(peek(src, pos+len(delim))) {
		return false
	}
	return true
}

const directiveKeyword = "delimiter"

// parseDirective recognizes "DELIMITER <token>" at src[pos]. It returns the new
// delimiter and the width of the directive including the rest of its line.
func parseDirective(src string, pos int) (string, int, bool) {
	end := pos + len(directiveKeyword)
	if end > len(src) || !strings.EqualFold(src[pos:end], directiveKeyword) {
		return "", 0, false
	}
	if ch := peek(src, end); ch != ' ' && ch != '\t' {
		return "", 0, false
	}
	i := end
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	tokStart := i
	for i < len(src) && !isSpace(src[i]) {
		i++
	}
	if i == tokStart {
		return "", 0, false
	}
	delim := src[tokStart:i]
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		i += nl + 1
	} else {
		i = len(src)
	}
	return delim, i - pos, true
}

func peek(src string, i int) byte {
	if i >= 0 && i < len(src) {
		return src[i]
	}
	return 0
}

// inIdentifier reports whether src[pos] continues an identifier. After the
// first character, PostgreSQL identifiers may contain $.
func inIdentifier(src string, pos int) bool {
	i := pos
	for i > 0 && (isIdentByte(src[i-1]) || src[i-1] == '$') {
		i--
	}
	return i < pos && isIdentStart(src[i])
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIdentByte(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
