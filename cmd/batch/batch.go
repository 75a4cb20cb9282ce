// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"vorp/rfm-csv/cmd/root"
	"vorp/rfm-csv/internal/batch"
	"vorp/rfm-csv/internal/ui"
	"vorp/rfm-csv/internal/validation"

	"github.com/spf13/cobra"
)

var (
	reportFormat string
	noExport     bool
	withInsights bool
	quiet        bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch analyze every CSV file of a directory",
	Long: `Batch analyze every CSV file of an input directory and write the results to another directory.

Each file is analyzed independently with the same column mapping rules. A file
that cannot be analyzed is reported and skipped; the others are still processed.
Files produced by a previous run are ignored.

Example:
  rfm-csv batch -i exports/ -o results/ --format json`,
	RunE: batchFunc,
}

func init() {
	root.AddMappingFlags(Cmd)
	Cmd.Flags().StringVar(&reportFormat, "format", "", "Report format: json or markdown (default from config)")
	Cmd.Flags().BoolVar(&noExport, "no-export", false, "Do not write the records and segments CSV files")
	Cmd.Flags().BoolVar(&withInsights, "insights", false, "Ask the AI for strategic recommendations for each file")
	Cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		return fmt.Errorf("input directory must be specified")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := c.GetConfig()

	opts := batch.Options{
		Mapping:      root.Mapping.ColumnMapping(),
		Delimiter:    cfg.Delimiter(),
		OutputDir:    cfg.Output.Directory,
		ReportFormat: cfg.Output.ReportFormat,
		SkipExports:  noExport,
		Insights:     withInsights,
	}
	if reportFormat != "" {
		opts.ReportFormat = reportFormat
	}
	if opts.ReportFormat != "" {
		if err := validation.IsValidOutputFormat(opts.ReportFormat); err != nil {
			return err
		}
	}
	if !quiet {
		opts.Progress = os.Stderr
	}

	root.Log.WithField("directory", inputDir).Info("Batch command called")
	summary, err := Run(cmd.Context(), c.GetAnalyzer(), ui.NewRenderer(os.Stdout, c.GetCatalog()), inputDir, opts)
	if err != nil {
		return err
	}
	if summary.Processed == 0 && summary.Failed > 0 {
		return fmt.Errorf("all %d files failed", summary.Failed)
	}
	return nil
}

// Run analyzes every CSV file of inputDir and prints one line per file.
func Run(ctx context.Context, analyzer *batch.Analyzer, renderer *ui.Renderer, inputDir string, opts batch.Options) (*batch.Summary, error) {
	summary, err := analyzer.AnalyzeDirectory(ctx, inputDir, opts)
	if err != nil {
		return summary, err
	}
	printSummary(renderer, summary)
	return summary, nil
}

func printSummary(r *ui.Renderer, s *batch.Summary) {
	if s.Processed == 0 && s.Failed == 0 {
		r.PrintWarning("No CSV files found")
		return
	}

	for _, fr := range s.Results {
		r.PrintSuccess("%s: %d customers, %d segments", filepath.Base(fr.Input), len(fr.Result.Records), len(fr.Result.Summaries))
	}

	failed := make([]string, 0, len(s.Failures))
	for file := range s.Failures {
		failed = append(failed, file)
	}
	sort.Strings(failed)
	for _, file := range failed {
		r.PrintError("%s: %v", filepath.Base(file), s.Failures[file])
	}

	if s.Failed > 0 {
		r.PrintWarning("Processed %d files, %d failed", s.Processed, s.Failed)
		return
	}
	r.PrintInfo("Processed %d files", s.Processed)
}
