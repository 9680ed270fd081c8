package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	"github.com/cybertec-postgresql/sqlsplit/internal/runner"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
)

// loadScripts discovers and splits every script under paths. Files that
// cannot be read are reported and left out.
func loadScripts(ctx context.Context, config *Config, paths []string) ([]*script.Script, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := discovery.DiscoverAll(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to discover scripts: %w", err)
	}
	logger.Debug("found %d script(s)", len(files))

	wp := runner.NewWorkerPool(config.Parallelism, config.Compatibility, config.Delimiter)
	var scripts []*script.Script
	for _, r := range wp.SplitParallel(ctx, files) {
		if r.Err != nil {
			if r.Skipped {
				return nil, r.Err
			}
			logger.Warn("%v", r.Err)
			continue
		}
		scripts = append(scripts, r.Script)
	}
	return scripts, nil
}

// Split executes the split workflow and writes a report of every script
func Split(ctx context.Context, config *Config, paths []string) error {
	if !report.ValidFormat(config.Format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", config.Format, report.SupportedFormats())
	}

	scripts, err := loadScripts(ctx, config, paths)
	if err != nil {
		return err
	}

	formatter, err := report.GetFormatter(report.FormatType(config.Format))
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(config.Output)
	if err != nil {
		return err
	}
	if err := formatter.Format(scripts, writer); err != nil {
		_ = closeOutput()
		return fmt.Errorf("failed to format report: %w", err)
	}
	if err := closeOutput(); err != nil {
		return err
	}

	// Print success message to stderr (so it doesn't interfere with stdout output)
	if config.Output != "-" && config.Output != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", config.Output)
	}
	return nil
}
