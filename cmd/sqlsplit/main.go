package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/cybertec-postgresql/sqlsplit/internal/cli"
	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

// splitFlags are shared by every command that reads scripts
func splitFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "compat",
			Aliases: []string{"d"},
			Usage:   fmt.Sprintf("SQL dialect for files without a name hint (%v)", dialect.Names()),
		},
		&urfavecli.StringFlag{
			Name:  "delimiter",
			Usage: "Statement delimiter in effect at the start of each script",
		},
		&urfavecli.IntFlag{
			Name:  "parallel",
			Usage: "Maximum concurrent scripts (1 = sequential)",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

func main() {
	app := &urfavecli.Command{
		Name:    "sqlsplit",
		Usage:   "Split SQL scripts into statements and map positions back to the source",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "split",
				Usage:     "Split scripts and report their statements",
				ArgsUsage: "[path...]",
				Action:    splitCommand,
				Flags: append(splitFlags(),
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: fmt.Sprintf("Output format (%v)", report.SupportedFormats()),
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
					},
				),
			},
			{
				Name:      "locate",
				Usage:     "Print the statement under a caret position",
				ArgsUsage: "file",
				Action:    locateCommand,
				Flags: append(splitFlags(),
					&urfavecli.IntFlag{
						Name:  "offset",
						Usage: "Byte offset of the caret",
					},
					&urfavecli.IntFlag{
						Name:  "line",
						Usage: "1-based caret line (takes precedence over --offset)",
					},
					&urfavecli.IntFlag{
						Name:  "column",
						Usage: "0-based byte column of the caret on --line",
					},
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (text or json)",
					},
				),
			},
			{
				Name:      "exec",
				Usage:     "Run scripts statement by statement against PostgreSQL",
				ArgsUsage: "[path...]",
				Action:    execCommand,
				Flags: append(splitFlags(),
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
					},
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-script timeout",
					},
					&urfavecli.BoolFlag{
						Name:  "isolate",
						Usage: "Run each script in its own temporary database",
					},
					&urfavecli.BoolFlag{
						Name:  "stop-on-error",
						Usage: "Skip the rest of a script after the first failed statement",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Results file path (use - for stdout)",
					},
				),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig layers defaults, environment and flags, then validates the result.
// An invalid configuration exits with status 2.
func loadConfig(cmd *urfavecli.Command) *cli.Config {
	config := cli.LoadConfig()

	err := cli.ApplyFlagsToConfig(config, cli.FlagValues{
		Compat:      cmd.String("compat"),
		Delimiter:   cmd.String("delimiter"),
		Format:      cmd.String("format"),
		Output:      cmd.String("output"),
		Connection:  cmd.String("connection"),
		Timeout:     cmd.Duration("timeout"),
		Parallel:    cmd.Int("parallel"),
		Isolate:     cmd.Bool("isolate"),
		StopOnError: cmd.Bool("stop-on-error"),
		Verbose:     cmd.Bool("verbose"),
	})
	if err == nil {
		err = config.Validate()
	}
	var configErr *cli.ConfigError
	if stderrors.As(err, &configErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger.SetVerbose(config.Verbose)
	return config
}

// splitCommand handles the 'sqlsplit split' command
func splitCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)
	return cli.Split(ctx, config, cmd.Args().Slice())
}

// locateCommand handles the 'sqlsplit locate' command
func locateCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)

	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("locate requires a file argument")
	}

	caret := cli.Caret{
		Offset: cmd.Int("offset"),
		Line:   cmd.Int("line"),
		Column: cmd.Int("column"),
	}
	return cli.Locate(config, path, caret, os.Stdout)
}

// execCommand handles the 'sqlsplit exec' command
func execCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)

	exitCode, err := cli.Exec(ctx, config, cmd.Args().Slice())
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}
