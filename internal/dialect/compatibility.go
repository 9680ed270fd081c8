// Package dialect holds the per-dialect lexical policies consulted by the splitter:
// which characters quote identifiers, which markers open comments, whether dollar
// quoting exists, and the delimiter in effect at the start of a script.
package dialect

import (
	"fmt"
	"strings"

	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

// Compatibility selects a dialect profile
type Compatibility int

const (
	Generic    Compatibility = iota // ANSI-ish, permissive identifier quoting
	MySQL                           // # comments, backticks, backslash escapes
	PostgreSQL                      // dollar quoting
)

var compatibilityNames = map[string]Compatibility{
	"generic":        Generic,
	"compat_generic": Generic,
	"mysql":          MySQL,
	"compat_mysql":   MySQL,
	"mariadb":        MySQL,
	"postgresql":     PostgreSQL,
	"postgres":       PostgreSQL,
	"pg":             PostgreSQL,
}

// String returns a string representation of Compatibility
func (c Compatibility) String() string {
	switch c {
	case Generic:
		return "generic"
	case MySQL:
		return "mysql"
	case PostgreSQL:
		return "postgresql"
	default:
		return fmt.Sprintf("compatibility(%d)", int(c))
	}
}

// Valid reports whether c is one of the known profiles
func (c Compatibility) Valid() bool {
	_, ok := profiles[c]
	return ok
}

// ParseCompatibility resolves a profile name, case-insensitively
func ParseCompatibility(name string) (Compatibility, error) {
	if c, ok := compatibilityNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return Generic, errors.NewArgumentError("compatibility", name,
		fmt.Sprintf("unknown dialect (supported: %s)", strings.Join(Names(), ", ")))
}

// Names returns the canonical profile names
func Names() []string {
	return []string{Generic.String(), MySQL.String(), PostgreSQL.String()}
}

// MarshalText implements encoding.TextMarshaler
func (c Compatibility) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.NewArgumentError("compatibility", int(c), "unknown dialect")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Compatibility) UnmarshalText(text []byte) error {
	parsed, err := ParseCompatibility(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
