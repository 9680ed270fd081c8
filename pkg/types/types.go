package types

import (
	"strings"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

// Config holds runtime configuration combining flags, environment variables, and defaults
type Config struct {
	// Splitting
	Compatibility dialect.Compatibility // Dialect applied to files without a name hint
	Delimiter     string                // Initial delimiter, "" for the dialect default

	// Output
	Format  string // Report format (json, text, html)
	Output  string // Report output path, "-" for stdout
	Verbose bool   // Enable debug logging

	// Execution
	ConnectionString string        // PostgreSQL connection string (URI or key=value)
	Timeout          time.Duration // Per-script timeout
	Parallelism      int           // Max concurrent scripts (1 = sequential)
	Isolate          bool          // Run each script in a temporary database
	StopOnError      bool          // Skip the rest of a script after a failed statement
}

// ConfigError is the error returned by Validate
type ConfigError = errors.ConfigError

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if !c.Compatibility.Valid() {
		return errors.NewConfigError("compat", "unknown dialect "+c.Compatibility.String())
	}
	if c.Delimiter != "" && strings.ContainsAny(c.Delimiter, " \t\r\n\f\v") {
		return errors.NewConfigError("delimiter", "must not contain whitespace")
	}
	if c.Parallelism < 1 {
		return errors.NewConfigError("parallel", "must be at least 1")
	}
	if c.Timeout <= 0 {
		return errors.NewConfigError("timeout", "must be positive")
	}
	if c.Format == "" {
		return errors.NewConfigError("format", "must not be empty")
	}
	return nil
}
