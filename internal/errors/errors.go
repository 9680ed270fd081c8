package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ArgumentError reports an invalid argument passed across a package boundary
type ArgumentError struct {
	Name    string
	Value   any
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%v: %s", e.Name, e.Value, e.Message)
}

// NewArgumentError creates a new ArgumentError
func NewArgumentError(name string, value any, message string) *ArgumentError {
	return &ArgumentError{
		Name:    name,
		Value:   value,
		Message: message,
	}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("connection failed: %s (%s)", e.Message, e.Suggestion)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// ExecutionError represents a failed statement, located in its source file
type ExecutionError struct {
	File      string
	Statement int // 0-based index of the statement in its script
	Line      int // 1-indexed
	Column    int // 0-indexed
	SQLError  *pgconn.PgError
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("%s:%d:%d: statement %d failed: [%s] %s",
			e.File, e.Line, e.Column, e.Statement+1, e.SQLError.Code, e.SQLError.Message)
	}
	return fmt.Sprintf("%s:%d:%d: statement %d failed: %v", e.File, e.Line, e.Column, e.Statement+1, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	if e.SQLError != nil {
		return e.SQLError
	}
	return e.Err
}

// NewExecutionError creates a new ExecutionError. A *pgconn.PgError anywhere
// in err's chain is kept in SQLError.
func NewExecutionError(file string, statement, line, column int, err error) *ExecutionError {
	e := &ExecutionError{
		File:      file,
		Statement: statement,
		Line:      line,
		Column:    column,
		Err:       err,
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		e.SQLError = pgErr
	}
	return e
}
