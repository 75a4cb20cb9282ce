// Package batch runs the analysis pipeline over one CSV file or every CSV
// file of a directory and writes the derived artifacts.
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"vorp/rfm-csv/internal/common"
	"vorp/rfm-csv/internal/fileutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"

	"github.com/schollz/progressbar/v3"
)

// Options control one file or directory run.
type Options struct {
	// Mapping holds explicit column names; empty fields are auto-detected.
	Mapping models.ColumnMapping
	// Delimiter is used when the header line has no semicolon.
	Delimiter rune
	// OutputDir receives the artifacts. Empty writes them next to the input.
	OutputDir string
	// ReportFormat is json or markdown. Empty skips the report.
	ReportFormat string
	// SkipExports disables the records and segments CSV files.
	SkipExports bool
	// Insights requests AI recommendations for the report.
	Insights bool
	// Progress receives the progress bar of directory runs. Nil disables it.
	Progress io.Writer
}

// FileResult is the outcome of analyzing one file.
type FileResult struct {
	Input   string
	Mapping models.ColumnMapping
	Result  *models.Result
	Report  *report.Report
	Outputs []string
}

// Summary is the outcome of a directory run.
type Summary struct {
	Processed int
	Failed    int
	Results   []*FileResult
	Failures  map[string]error
}

// Analyzer wires the engine, the insight service and the report generator
// into the file pipeline.
type Analyzer struct {
	engine   *rfm.Engine
	insights *insights.Service
	reports  *report.Generator
	logger   logging.Logger
}

// NewAnalyzer creates an Analyzer. insightsSvc and reports may be nil.
func NewAnalyzer(engine *rfm.Engine, insightsSvc *insights.Service, reports *report.Generator, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if insightsSvc == nil {
		insightsSvc = insights.NewService(nil, 0, logger)
	}
	if reports == nil {
		reports = report.NewGenerator(nil, logger)
	}
	return &Analyzer{engine: engine, insights: insightsSvc, reports: reports, logger: logger}
}

// AnalyzeFile reads inputFile, resolves the column mapping, runs the engine and
// writes the requested artifacts.
func (a *Analyzer) AnalyzeFile(ctx context.Context, inputFile string, opts Options) (*FileResult, error) {
	table, err := common.ReadRawRowsFromFile(inputFile, opts.Delimiter, a.logger)
	if err != nil {
		return nil, err
	}

	mapping, err := common.ResolveMapping(table.Headers, opts.Mapping)
	if err != nil {
		return nil, fmt.Errorf("invalid column mapping for %s: %w", filepath.Base(inputFile), err)
	}
	a.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: "customer_id", Value: mapping.CustomerID},
		logging.Field{Key: "order_date", Value: mapping.OrderDate},
		logging.Field{Key: "order_value", Value: mapping.OrderValue},
	).Debug("Resolved column mapping")

	result, err := a.engine.Analyze(ctx, table.Rows, mapping)
	if err != nil {
		return nil, err
	}

	fr := &FileResult{Input: inputFile, Mapping: mapping, Result: result}

	var insight *insights.Insight
	if opts.Insights {
		generated := a.insights.Generate(ctx, result.Summaries)
		insight = &generated
	}
	fr.Report = a.reports.Build(result, filepath.Base(inputFile), insight)

	if err := a.writeOutputs(fr, table.Delimiter, opts); err != nil {
		return nil, err
	}
	return fr, nil
}

func (a *Analyzer) writeOutputs(fr *FileResult, delimiter rune, opts Options) error {
	if !opts.SkipExports {
		recordsPath := fileutils.OutputPath(fr.Input, opts.OutputDir, fileutils.RecordsSuffix)
		if err := common.WriteRecordsToCSV(fr.Result.Records, recordsPath, delimiter, a.logger); err != nil {
			return err
		}
		segmentsPath := fileutils.OutputPath(fr.Input, opts.OutputDir, fileutils.SegmentsSuffix)
		if err := common.WriteSummariesToCSV(fr.Result.Summaries, segmentsPath, delimiter, a.logger); err != nil {
			return err
		}
		fr.Outputs = append(fr.Outputs, recordsPath, segmentsPath)
	}

	if opts.ReportFormat != "" {
		reportPath := fileutils.OutputPath(fr.Input, opts.OutputDir, fileutils.ReportSuffix+report.Extension(opts.ReportFormat))
		if err := a.reports.WriteReport(fr.Report, opts.ReportFormat, reportPath); err != nil {
			return err
		}
		fr.Outputs = append(fr.Outputs, reportPath)
	}
	return nil
}

// AnalyzeDirectory analyzes every CSV file of dir independently. A file that
// fails is logged and counted; the run goes on with the next file. The error
// return is reserved for an unreadable directory and cancellation.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, opts Options) (*Summary, error) {
	files, err := fileutils.ListCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(
		logging.Field{Key: "directory", Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)},
	).Info("Starting batch analysis")

	summary := &Summary{Failures: make(map[string]error)}
	if len(files) == 0 {
		a.logger.WithField("directory", dir).Warn("No CSV files found")
		return summary, nil
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("batch analysis cancelled: %w", err)
		}

		fr, err := a.AnalyzeFile(ctx, file, opts)
		if err != nil {
			summary.Failed++
			summary.Failures[file] = err
			a.logger.WithError(err).WithField(logging.FieldFile, file).Error("Failed to analyze file")
		} else {
			summary.Processed++
			summary.Results = append(summary.Results, fr)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	a.logger.WithFields(
		logging.Field{Key: "processed", Value: summary.Processed},
		logging.Field{Key: "failed", Value: summary.Failed},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	).Info("Batch analysis completed")
	return summary, nil
}
