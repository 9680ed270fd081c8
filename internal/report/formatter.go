package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlsplit/internal/script"
)

// Formatter is an interface for split report formatters
type Formatter interface {
	// Format renders scripts and writes to the writer
	Format(scripts []*script.Script, writer io.Writer) error

	// FormatString returns the rendered scripts as a string
	FormatString(scripts []*script.Script) (string, error)

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported report formats
type FormatType string

const (
	FormatJSON FormatType = "json"
	FormatText FormatType = "text"
	FormatHTML FormatType = "html"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(), nil
	case FormatText:
		return NewTextReporter(), nil
	case FormatHTML:
		return NewHTMLReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %v)", format, SupportedFormats())
	}
}

// FormatToWriter renders scripts to a writer using the specified format
func FormatToWriter(scripts []*script.Script, format FormatType, writer io.Writer) error {
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(scripts, writer)
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatJSON, FormatText, FormatHTML:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatText), string(FormatHTML)}
}
