package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ecotrack/internal/cleaning"
	"ecotrack/internal/files"
	"ecotrack/internal/infrastructure"
	"ecotrack/internal/validation"
)

func newCleanCommand(g *globals) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove duplicate rows and impute missing values",
		Long: `Loads the raw dataset, drops exact duplicate rows, fills missing numeric
cells with the column median and missing text cells with the column mode,
then writes the cleaned CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths, err := g.paths()
			if err != nil {
				return err
			}
			if in == "" {
				in = paths.InputFile
			}
			if out == "" {
				out = paths.CleanedFile
			}
			in, err = files.NewDiscovery(paths.BaseDir).Resolve(in)
			if err != nil {
				return err
			}

			validator := validation.NewFileValidator(g.logger)
			if err := validator.ValidateDataFile(in); err != nil {
				return err
			}
			if err := validator.ValidateOutputFile(out, ".csv"); err != nil {
				return err
			}

			// Metrics are only scraped from the server; traces honour the config.
			otelCfg := infrastructure.OTelConfigFrom(g.cfg.Telemetry)
			otelCfg.MetricExporter = "none"
			providers, err := infrastructure.InitializeOTel(otelCfg, g.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
			}
			defer func() {
				if err := providers.Shutdown(ctx); err != nil {
					g.logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
				}
			}()
			metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
			if err != nil {
				return err
			}

			report, err := cleaning.NewCleaner(g.logger, metrics).Run(ctx, in, out)
			if err != nil {
				return err
			}
			printCleanReport(cmd, out, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Raw dataset (.csv or .xlsx), or a directory to use its newest dataset; defaults to data.input_file")
	cmd.Flags().StringVar(&out, "out", "", "Cleaned CSV to write; defaults to data.cleaned_file")
	return cmd
}

func printCleanReport(cmd *cobra.Command, out string, r *cleaning.Report) {
	w := cmd.OutOrStdout()
	successColor.Fprintf(w, "Cleaned dataset written to %s\n", out)
	fmt.Fprintf(w, "rows: %d -> %d, duplicates removed: %d, cells imputed: %d\n",
		r.InputRows, r.OutputRows, r.DuplicatesRemoved, r.TotalImputed())
	for _, name := range r.EmptyColumns {
		warnColor.Fprintf(w, "column %s has no values and was left empty\n", name)
	}
	if len(r.ImputedCells) == 0 {
		return
	}

	columns := make([]string, 0, len(r.ImputedCells))
	for name := range r.ImputedCells {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Imputed", "Fill value"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, name := range columns {
		fill, ok := r.Modes[name]
		if !ok {
			fill = strconv.FormatFloat(r.Medians[name], 'g', -1, 64)
		}
		table.Append([]string{name, strconv.Itoa(r.ImputedCells[name]), fill})
	}
	table.Render()
}
