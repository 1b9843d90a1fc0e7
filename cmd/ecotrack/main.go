package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ecotrack/internal/config"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
)

func main() {
	ctx := infrastructure.EnsureTraceID(context.Background())
	root := newRootCommand(&globals{})
	if err := root.ExecuteContext(ctx); err != nil {
		infrastructure.WithError(infrastructure.GetLogger(), err).ErrorContext(ctx, "Command failed")
		os.Exit(1)
	}
}

// globals is the state shared by every subcommand. cfg and logger are filled
// in by the root pre-run unless already set.
type globals struct {
	cfg      *config.Config
	logger   *slog.Logger
	logLevel string
	noColor  bool
}

func newRootCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecotrack",
		Short: "Clean, explore and visualise company ESG and financial data",
		Long: strings.TrimSpace(`
EcoTrack turns a raw company ESG/financial CSV into a cleaned dataset and
serves an interactive dashboard over it.

  ecotrack clean      deduplicate and impute the raw dataset
  ecotrack describe   print summary statistics of a dataset
  ecotrack serve      start the dashboard server
`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides ECOTRACK_LOGGING_LEVEL")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newCleanCommand(g),
		newServeCommand(g),
		newDescribeCommand(g),
		newVersionCommand(),
	)
	return cmd
}

func (g *globals) init() error {
	if g.noColor {
		color.NoColor = true
	}

	if g.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		g.cfg = cfg
	}
	if g.logLevel != "" {
		g.cfg.Logging.Level = g.logLevel
		if err := g.cfg.Validate(); err != nil {
			return apierrors.NewConfigError("invalid --log-level", err)
		}
	}

	if g.logger == nil {
		logger, err := infrastructure.InitializeLogger(g.cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		g.logger = logger
	}
	return nil
}

func (g *globals) paths() (*config.Paths, error) {
	paths, err := g.cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	return paths, nil
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

func printHeading(w io.Writer, format string, args ...interface{}) {
	headerColor.Fprintf(w, format+"\n", args...)
}
