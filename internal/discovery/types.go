package discovery

import (
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
)

// DiscoveredFile represents a SQL script found during filesystem traversal
type DiscoveredFile struct {
	Path          string                // Absolute path to file
	RelativePath  string                // Path relative to search root
	Compatibility dialect.Compatibility // Dialect implied by the file name
	HasHint       bool                  // Whether Compatibility came from the file name
	ModTime       time.Time             // Last modification time
}

// CompatibilityOr returns the file's dialect hint, or fallback when it has none
func (f *DiscoveredFile) CompatibilityOr(fallback dialect.Compatibility) dialect.Compatibility {
	if f.HasHint {
		return f.Compatibility
	}
	return fallback
}
