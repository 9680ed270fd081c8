package discovery

import (
	"path/filepath"
	"strings"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
)

// dialect suffixes recognized in file names, checked in order
var hintSuffixes = []struct {
	suffix string
	compat dialect.Compatibility
}{
	{".mysql.sql", dialect.MySQL},
	{".mariadb.sql", dialect.MySQL},
	{".pg.sql", dialect.PostgreSQL},
	{".postgres.sql", dialect.PostgreSQL},
	{".postgresql.sql", dialect.PostgreSQL},
}

// ClassifyFile returns the dialect a file name asks for, e.g. "schema.mysql.sql".
// The second result is false when the name carries no hint.
func ClassifyFile(filename string) (dialect.Compatibility, bool) {
	lower := strings.ToLower(filename)
	for _, h := range hintSuffixes {
		if strings.HasSuffix(lower, h.suffix) {
			return h.compat, true
		}
	}
	return dialect.Generic, false
}

// ClassifyPath determines the dialect hint from a full path
func ClassifyPath(path string) (dialect.Compatibility, bool) {
	return ClassifyFile(filepath.Base(path))
}

// IsSQLFile reports whether filename has a .sql extension
func IsSQLFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".sql")
}
