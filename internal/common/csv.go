// Package common provides CSV ingestion, column detection and CSV export shared by
// the CLI commands, the batch analyzer and the HTTP server.
package common

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// DefaultDelimiter is used when neither the header line nor the configuration
// suggest another one.
const DefaultDelimiter = ','

// Table is the content of one sales file.
type Table struct {
	Headers   []string
	Rows      []models.RawRow
	Delimiter rune
}

// DetectDelimiter returns ';' when the header line contains one, fallback otherwise.
func DetectDelimiter(headerLine string, fallback rune) rune {
	if strings.ContainsRune(headerLine, ';') {
		return ';'
	}
	if fallback == 0 {
		return DefaultDelimiter
	}
	return fallback
}

// ReadRawRowsFromFile opens filePath and reads it with ReadRawRows.
func ReadRawRowsFromFile(filePath string, delimiter rune, logger logging.Logger) (*Table, error) {
	logger.WithField(logging.FieldFile, filePath).Info("Reading sales CSV file")

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return ReadRawRows(file, filePath, delimiter, logger)
}

// ReadRawRows reads a CSV stream with a header row into raw rows.
//
// The delimiter is taken from the header line (see DetectDelimiter). Headers and
// cells are trimmed and stripped of surrounding quotes, and rows whose cells are
// all empty are skipped. Missing trailing cells read as empty strings.
func ReadRawRows(in io.Reader, source string, delimiter rune, logger logging.Logger) (*Table, error) {
	br := bufio.NewReader(in)
	var headerLine string
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &parsererror.ParseError{Source: source, Err: err}
		}
		headerLine = strings.TrimPrefix(line, "\ufeff")
		if strings.TrimSpace(headerLine) != "" || err != nil {
			break
		}
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "CSV with a header row",
			Msg:            "no header row found",
		}
	}

	delim := DetectDelimiter(headerLine, delimiter)
	reader := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.ParseError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &parsererror.InvalidFormatError{FilePath: source, ExpectedFormat: "CSV with a header row", Msg: "no header row found"}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = cleanCell(h)
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.RawRow, len(headers))
		empty := true
		for i, h := range headers {
			value := ""
			if i < len(record) {
				value = cleanCell(record[i])
			}
			if value != "" {
				empty = false
			}
			row[h] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delim)},
		logging.Field{Key: logging.FieldRows, Value: len(rows)},
	).Info("Successfully read CSV data")

	return &Table{Headers: headers, Rows: rows, Delimiter: delim}, nil
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// recordRow is the CSV shape of an RFMRecord.
type recordRow struct {
	CustomerID       string `csv:"customer_id"`
	CustomerName     string `csv:"customer_name"`
	Salesperson      string `csv:"salesperson"`
	Recency          int    `csv:"recency"`
	LastPurchaseDate string `csv:"last_purchase_date"`
	Frequency        int    `csv:"frequency"`
	Monetary         string `csv:"monetary"`
	RScore           int    `csv:"r_score"`
	FScore           int    `csv:"f_score"`
	MScore           int    `csv:"m_score"`
	RFMScore         string `csv:"rfm_score"`
	Segment          string `csv:"segment"`
}

// summaryRow is the CSV shape of a SegmentSummary.
type summaryRow struct {
	Segment      string  `csv:"segment"`
	Count        int     `csv:"count"`
	Percentage   float64 `csv:"percentage"`
	AvgRecency   float64 `csv:"avg_recency"`
	AvgFrequency float64 `csv:"avg_frequency"`
	AvgMonetary  string  `csv:"avg_monetary"`
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// MarshalRecords writes records as CSV to w.
func MarshalRecords(records []models.RFMRecord, w io.Writer, delimiter rune) error {
	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow{
			CustomerID:       r.CustomerID,
			CustomerName:     r.CustomerName,
			Salesperson:      r.Salesperson,
			Recency:          r.Recency,
			LastPurchaseDate: dateutils.ToISODate(r.LastPurchaseDate),
			Frequency:        r.Frequency,
			Monetary:         r.Monetary.StringFixed(2),
			RScore:           r.RScore,
			FScore:           r.FScore,
			MScore:           r.MScore,
			RFMScore:         r.RFMScore,
			Segment:          r.Segment,
		})
	}
	return marshal(rows, w, delimiter)
}

// MarshalSummaries writes segment summaries as CSV to w.
func MarshalSummaries(summaries []models.SegmentSummary, w io.Writer, delimiter rune) error {
	rows := make([]summaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, summaryRow{
			Segment:      s.Name,
			Count:        s.Count,
			Percentage:   round2(s.Percentage),
			AvgRecency:   round2(s.AvgRecency),
			AvgFrequency: round2(s.AvgFrequency),
			AvgMonetary:  s.AvgMonetary.StringFixed(2),
		})
	}
	return marshal(rows, w, delimiter)
}

func marshal(rows interface{}, w io.Writer, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteRecordsToCSV writes per-customer RFM records to csvFile, creating the
// parent directory when needed.
func WriteRecordsToCSV(records []models.RFMRecord, csvFile string, delimiter rune, logger logging.Logger) error {
	if records == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}
	return writeFile(csvFile, len(records), logger, func(w io.Writer) error {
		return MarshalRecords(records, w, delimiter)
	})
}

// WriteSummariesToCSV writes segment summaries to csvFile.
func WriteSummariesToCSV(summaries []models.SegmentSummary, csvFile string, delimiter rune, logger logging.Logger) error {
	if summaries == nil {
		return fmt.Errorf("cannot write nil summaries to CSV")
	}
	return writeFile(csvFile, len(summaries), logger, func(w io.Writer) error {
		return MarshalSummaries(summaries, w, delimiter)
	})
}

func writeFile(csvFile string, count int, logger logging.Logger, write func(io.Writer) error) error {
	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: count},
	).Debug("Writing CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- output path chosen by the user
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := write(file); err != nil {
		return err
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: count},
	).Info("Successfully wrote CSV file")
	return nil
}

// ReadSummariesFromCSV reads a segments file previously written by
// WriteSummariesToCSV.
func ReadSummariesFromCSV(csvFile string, delimiter rune) ([]models.SegmentSummary, error) {
	file, err := os.Open(csvFile) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	var rows []summaryRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, &parsererror.ParseError{Source: csvFile, Err: err}
	}

	summaries := make([]models.SegmentSummary, 0, len(rows))
	for _, row := range rows {
		avg, err := decimal.NewFromString(row.AvgMonetary)
		if err != nil {
			return nil, &parsererror.ParseError{Source: csvFile, Field: "avg_monetary", Value: row.AvgMonetary, Err: err}
		}
		summaries = append(summaries, models.SegmentSummary{
			Name:         row.Segment,
			Count:        row.Count,
			Percentage:   row.Percentage,
			AvgRecency:   row.AvgRecency,
			AvgFrequency: row.AvgFrequency,
			AvgMonetary:  avg,
		})
	}
	return summaries, nil
}
