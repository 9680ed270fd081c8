package dialect

import (
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

// DefaultDelimiter terminates statements until a DELIMITER directive changes it
const DefaultDelimiter = ";"

// QuotePair is an identifier quote. The close character doubled inside the
// identifier stands for itself.
type QuotePair struct {
	Open  byte
	Close byte
}

var (
	doubleQuote = QuotePair{Open: '"', Close: '"'}
	backtick    = QuotePair{Open: '`', Close: '`'}
	bracket     = QuotePair{Open: '[', Close: ']'}
)

// Rules is the lexical policy of one Compatibility profile.
// The zero value is not usable; obtain Rules through For.
type Rules struct {
	compat           Compatibility
	hashComment      bool
	identQuotes      []QuotePair
	backslashEscapes bool
	quotedEscapes    bool
	dollarQuote      bool
	escapeStrings    bool
	delimiter        string
}

var profiles = map[Compatibility]Rules{
	Generic: {
		compat:      Generic,
		identQuotes: []QuotePair{doubleQuote, backtick, bracket},
		delimiter:   DefaultDelimiter,
	},
	MySQL: {
		compat:           MySQL,
		hashComment:      true,
		identQuotes:      []QuotePair{doubleQuote, backtick},
		backslashEscapes: true,
		quotedEscapes:    true,
		delimiter:        DefaultDelimiter,
	},
	PostgreSQL: {
		compat:        PostgreSQL,
		identQuotes:   []QuotePair{doubleQuote},
		dollarQuote:   true,
		escapeStrings: true,
		delimiter:     DefaultDelimiter,
	},
}

// For returns the rules of a profile
func For(c Compatibility) (Rules, error) {
	r, ok := profiles[c]
	if !ok {
		return Rules{}, errors.NewArgumentError("compatibility", int(c), "unknown dialect")
	}
	return r, nil
}

// Compatibility returns the profile these rules belong to
func (r Rules) Compatibility() Compatibility { return r.compat }

// IsLineCommentStart reports whether ch (followed by next) opens a line comment.
// "--" always does; "#" only where the dialect says so.
func (r Rules) IsLineCommentStart(ch, next byte) bool {
	if ch == '-' && next == '-' {
		return true
	}
	return ch == '#' && r.hashComment
}

// LineCommentWidth returns the length of the line comment marker at ch, or 0
func (r Rules) LineCommentWidth(ch, next byte) int {
	switch {
	case ch == '-' && next == '-':
		return 2
	case ch == '#' && r.hashComment:
		return 1
	}
	return 0
}

// IdentifierQuoteChars returns the identifier quote pairs of the dialect
func (r Rules) IdentifierQuoteChars() []QuotePair {
	out := make([]QuotePair, len(r.identQuotes))
	copy(out, r.identQuotes)
	return out
}

// IdentifierQuoteClose returns the closing character for an identifier opened by open
func (r Rules) IdentifierQuoteClose(open byte) (byte, bool) {
	for _, q := range r.identQuotes {
		if q.Open == open {
			return q.Close, true
		}
	}
	return 0, false
}

// IdentifierQuoteEscapes reports whether a backslash escapes the next byte inside
// the identifier quote opened by open. MySQL reads "..." as a string unless
// ANSI_QUOTES is set, so it gets string escaping there.
func (r Rules) IdentifierQuoteEscapes(open byte) bool {
	return r.quotedEscapes && open == '"'
}

// StringQuoteChar returns the string literal quote
func (r Rules) StringQuoteChar() byte { return '\'' }

// BackslashEscapes reports whether a backslash escapes the next byte inside string literals
func (r Rules) BackslashEscapes() bool { return r.backslashEscapes }

// EscapeStrings reports whether E'...' literals, which honor backslash escapes, exist
func (r Rules) EscapeStrings() bool { return r.escapeStrings }

// SupportsDollarQuote reports whether $tag$...$tag$ literals exist
func (r Rules) SupportsDollarQuote() bool { return r.dollarQuote }

// DefaultDelimiter returns the delimiter in effect at the start of a script
func (r Rules) DefaultDelimiter() string { return r.delimiter }
