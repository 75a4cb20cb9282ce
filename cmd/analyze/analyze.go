// Package analyze implements the command that runs an RFM analysis on a
// single sales CSV file.
package analyze

import (
	"context"
	"fmt"
	"os"
	"slices"

	"vorp/rfm-csv/cmd/root"
	"vorp/rfm-csv/internal/batch"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/ui"
	"vorp/rfm-csv/internal/validation"

	"github.com/spf13/cobra"
)

// Options extend the pipeline options with what the terminal view shows.
type Options struct {
	batch.Options
	ShowRecords bool
	Filter      rfm.RecordFilter
	Page        int
	PageSize    int
}

var (
	reportFormat string
	withInsights bool
	noExport     bool
	noReport     bool
	showRecords  bool
	search       string
	segment      string
	page         int
	pageSize     int
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run an RFM analysis on a sales CSV file",
	Long: `Run an RFM analysis on a sales CSV file.

Columns are detected from the header unless given with the mapping flags. The
command prints the KPIs, the segment distribution and the recency by frequency
matrix, and writes the scored customers, the segment summary and a report next
to the input (or into --output).

Example:
  rfm-csv analyze sales.csv --format markdown --records --segment Champions`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeFunc,
}

func init() {
	root.AddMappingFlags(Cmd)
	Cmd.Flags().StringVar(&reportFormat, "format", "", "Report format: json or markdown (default from config)")
	Cmd.Flags().BoolVar(&noReport, "no-report", false, "Do not write a report file")
	Cmd.Flags().BoolVar(&noExport, "no-export", false, "Do not write the records and segments CSV files")
	Cmd.Flags().BoolVar(&withInsights, "insights", false, "Ask the AI for strategic recommendations")
	Cmd.Flags().BoolVar(&showRecords, "records", false, "Print the scored customers")
	Cmd.Flags().StringVar(&search, "search", "", "Only show customers whose id or name contains this text")
	Cmd.Flags().StringVar(&segment, "segment", "", "Only show customers of this segment")
	Cmd.Flags().IntVar(&page, "page", 1, "Page of customers to print")
	Cmd.Flags().IntVar(&pageSize, "page-size", rfm.DefaultPageSize, "Customers per page")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input file is required (argument or --input)")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := c.GetConfig()

	opts := Options{
		Options: batch.Options{
			Mapping:      root.Mapping.ColumnMapping(),
			Delimiter:    cfg.Delimiter(),
			OutputDir:    cfg.Output.Directory,
			ReportFormat: cfg.Output.ReportFormat,
			SkipExports:  noExport,
			Insights:     withInsights,
		},
		ShowRecords: showRecords || search != "" || segment != "",
		Filter:      rfm.RecordFilter{Search: search, Segment: segment},
		Page:        page,
		PageSize:    pageSize,
	}
	if reportFormat != "" {
		opts.ReportFormat = reportFormat
	}
	if noReport {
		opts.ReportFormat = ""
	}

	renderer := ui.NewRenderer(os.Stdout, c.GetCatalog())
	_, err := Run(cmd.Context(), c.GetAnalyzer(), renderer, input, opts)
	return err
}

// Run analyzes input and prints the outcome with renderer.
func Run(ctx context.Context, analyzer *batch.Analyzer, renderer *ui.Renderer, input string, opts Options) (*batch.FileResult, error) {
	if err := validation.IsValidPath(input); err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	fr, err := analyzer.AnalyzeFile(ctx, input, opts.Options)
	if err != nil {
		return nil, err
	}
	render(renderer, fr, opts)
	return fr, nil
}

func validateOptions(opts Options) error {
	if opts.ReportFormat != "" {
		if err := validation.IsValidOutputFormat(opts.ReportFormat); err != nil {
			return err
		}
	}
	if opts.Filter.Segment != "" && !slices.Contains(models.SegmentNames(), opts.Filter.Segment) {
		return fmt.Errorf("unknown segment: %s", opts.Filter.Segment)
	}
	return nil
}

func render(r *ui.Renderer, fr *batch.FileResult, opts Options) {
	result := fr.Result
	if result.IsEmpty() {
		r.PrintWarning("No valid customers found in %s", fr.Input)
		printStats(r, result.Stats)
		return
	}

	r.PrintKPIs(fr.Report.KPIs, dateutils.ToISODate(result.ReferenceDate))
	r.PrintDistribution(result.Summaries)
	r.PrintMatrix(fr.Report.Matrix)

	if opts.ShowRecords {
		filtered := rfm.Filter(result.Records, opts.Filter)
		if len(filtered) == 0 {
			r.PrintInfo("No customers match the filter")
		} else {
			r.PrintRecords(rfm.Paginate(filtered, opts.Page, opts.PageSize))
		}
	}

	if fr.Report.Insights != nil {
		if fr.Report.Insights.Generated {
			r.PrintInfo("Strategic recommendations:")
		} else {
			r.PrintWarning("AI recommendations unavailable")
		}
		r.PrintText(insights.PlainText(fr.Report.Insights.Text))
	}

	printStats(r, result.Stats)
	for _, out := range fr.Outputs {
		r.PrintSuccess("Wrote %s", out)
	}
}

func printStats(r *ui.Renderer, s models.Stats) {
	skipped := s.RowsSkippedMissingID + s.RowsSkippedInvalidDate
	if skipped > 0 {
		r.PrintWarning("Skipped %d of %d rows (%d without customer id, %d with an invalid date)",
			skipped, s.RowsRead, s.RowsSkippedMissingID, s.RowsSkippedInvalidDate)
	}
	if s.UnparseableValues > 0 {
		r.PrintWarning("%d order values could not be parsed and counted as zero", s.UnparseableValues)
	}
}
