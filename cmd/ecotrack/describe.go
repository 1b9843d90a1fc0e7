package main

import (
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ecotrack/internal/dataset"
	"ecotrack/internal/eda"
	"ecotrack/internal/files"
	"ecotrack/internal/validation"
)

// ExportExtensions are the summary formats accepted by describe --export
var ExportExtensions = []string{".csv", ".json", ".xlsx"}

func newDescribeCommand(g *globals) *cobra.Command {
	var dataPath, export string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print column info and summary statistics of a dataset",
		Long: `Prints the row count, the kind and non-missing count of every column and
count/mean/std/min/25%/50%/75%/max of every numeric column. --export also
writes the summary as CSV, JSON or XLSX, chosen by the file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths, err := g.paths()
			if err != nil {
				return err
			}
			if dataPath == "" {
				dataPath = paths.CleanedFile
			}
			dataPath, err = files.NewDiscovery(paths.BaseDir).Resolve(dataPath)
			if err != nil {
				return err
			}

			validator := validation.NewFileValidator(g.logger)
			if err := validator.ValidateDataFile(dataPath); err != nil {
				return err
			}
			if export != "" {
				if err := validator.ValidateOutputFile(export, ExportExtensions...); err != nil {
					return err
				}
			}

			table, err := dataset.Load(ctx, dataPath)
			if err != nil {
				return err
			}
			info := eda.Info(table)
			summary, err := eda.Describe(ctx, table)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printInfo(w, dataPath, info)
			printSummary(w, summary)

			if export != "" {
				if err := eda.WriteSummary(export, info, summary); err != nil {
					return err
				}
				successColor.Fprintf(w, "Summary exported to %s\n", export)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Dataset or directory to describe; defaults to data.cleaned_file")
	cmd.Flags().StringVarP(&export, "export", "o", "", "Write the summary to a .csv, .json or .xlsx file")
	return cmd
}

func printInfo(w io.Writer, path string, info eda.DatasetInfo) {
	printHeading(w, "%s: %d rows, %d columns", path, info.Rows, len(info.Columns))

	table := newTable(w, []string{"Column", "Kind", "Non-null"})
	for _, c := range info.Columns {
		table.Append([]string{c.Name, c.Kind.String(), strconv.Itoa(c.NonNull)})
	}
	table.Render()
}

func printSummary(w io.Writer, s *eda.Summary) {
	if len(s.Columns) == 0 {
		warnColor.Fprintln(w, "no numeric columns")
		return
	}
	printHeading(w, "Summary statistics")

	table := newTable(w, eda.SummaryHeaders)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, c := range s.Columns {
		table.Append([]string{
			c.Column,
			strconv.Itoa(c.Count),
			formatStat(c.Mean),
			formatStat(c.Std),
			formatStat(c.Min),
			formatStat(c.P25),
			formatStat(c.P50),
			formatStat(c.P75),
			formatStat(c.Max),
		})
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
