package rfm

import (
	"context"
	"fmt"
	"time"

	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/validation"
)

// Engine runs the full segmentation pipeline over one dataset at a time.
// It holds no per-run state, so a single Engine may serve concurrent runs.
type Engine struct {
	logger     logging.Logger
	aggregator Aggregator
}

// NewEngine creates an Engine. A nil logger falls back to the default logger.
func NewEngine(logger logging.Logger, dates dateutils.DateParser) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{
		logger:     logger,
		aggregator: Aggregator{Dates: dates},
	}
}

// Analyze groups, scores and classifies rows. Malformed rows are skipped, never
// reported as errors; a dataset without any valid row yields an empty Result.
// The only error conditions are an incomplete mapping and ctx being done
// before scoring starts.
func (e *Engine) Analyze(ctx context.Context, rows []models.RawRow, mapping models.ColumnMapping) (*models.Result, error) {
	if err := validation.ValidateMapping(mapping, nil); err != nil {
		return nil, err
	}

	start := time.Now()
	set, stats := e.aggregator.Aggregate(rows, mapping)
	e.logger.WithFields(
		logging.Field{Key: logging.FieldStage, Value: "aggregate"},
		logging.Field{Key: logging.FieldRows, Value: stats.RowsRead},
		logging.Field{Key: logging.FieldCustomers, Value: stats.Customers},
		logging.Field{Key: "skipped_missing_id", Value: stats.RowsSkippedMissingID},
		logging.Field{Key: "skipped_invalid_date", Value: stats.RowsSkippedInvalidDate},
		logging.Field{Key: "unparseable_values", Value: stats.UnparseableValues},
	).Debug("Aggregated rows by customer")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled after aggregation: %w", err)
	}

	ref, ok := ReferenceDate(set)
	if !ok {
		e.logger.WithField(logging.FieldRows, stats.RowsRead).Warn("No valid transactions found, returning empty result")
		return &models.Result{
			Records:   []models.RFMRecord{},
			Summaries: []models.SegmentSummary{},
			Stats:     stats,
		}, nil
	}

	records := Score(DeriveMetrics(set, ref))
	summaries := Summarize(records)

	e.logger.WithFields(
		logging.Field{Key: logging.FieldStage, Value: "score"},
		logging.Field{Key: logging.FieldCustomers, Value: len(records)},
		logging.Field{Key: logging.FieldReferenceDt, Value: dateutils.ToISODate(ref)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	).Info("RFM analysis completed")

	return &models.Result{
		Records:       records,
		Summaries:     summaries,
		ReferenceDate: ref,
		Stats:         stats,
	}, nil
}
