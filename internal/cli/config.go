package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Compatibility:    dialect.Generic,
	Delimiter:        "",
	Format:           "text",
	Output:           "-",
	ConnectionString: "",
	Timeout:          30 * time.Second,
	Parallelism:      1,
	Isolate:          false,
	StopOnError:      false,
	Verbose:          false,
}

// Environment variables read by LoadConfig
const (
	EnvCompat    = "SQLSPLIT_COMPAT"
	EnvDelimiter = "SQLSPLIT_DELIMITER"
	EnvParallel  = "SQLSPLIT_PARALLEL"
	EnvDatabase  = "DATABASE_URL"
)

// LoadConfig returns the defaults overlaid with the environment. Values that
// cannot be parsed are ignored with a warning.
func LoadConfig() *Config {
	cfg := DefaultConfig

	if v := os.Getenv(EnvCompat); v != "" {
		if c, err := dialect.ParseCompatibility(v); err == nil {
			cfg.Compatibility = c
		} else {
			logger.Warn("ignoring %s=%q: %v", EnvCompat, v, err)
		}
	}
	if v := os.Getenv(EnvDelimiter); v != "" {
		cfg.Delimiter = v
	}
	if v := os.Getenv(EnvParallel); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Parallelism = n
		} else {
			logger.Warn("ignoring %s=%q: not a number", EnvParallel, v)
		}
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.ConnectionString = v
	}

	return &cfg
}

// FlagValues holds command-line flags. Zero values leave the config unchanged.
type FlagValues struct {
	Compat      string
	Delimiter   string
	Format      string
	Output      string
	Connection  string
	Timeout     time.Duration
	Parallel    int
	Isolate     bool
	StopOnError bool
	Verbose     bool
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f FlagValues) error {
	if f.Compat != "" {
		compat, err := dialect.ParseCompatibility(f.Compat)
		if err != nil {
			return &ConfigError{Field: "compat", Message: err.Error()}
		}
		c.Compatibility = compat
	}
	if f.Delimiter != "" {
		c.Delimiter = f.Delimiter
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Parallel != 0 {
		c.Parallelism = f.Parallel
	}
	c.Isolate = c.Isolate || f.Isolate
	c.StopOnError = c.StopOnError || f.StopOnError
	c.Verbose = f.Verbose
	return nil
}
