// Package report renders the consolidated outcome of an analysis run as a
// JSON document or a Markdown report.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vorp/rfm-csv/internal/currencyutils"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/fileutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/store"

	"github.com/google/uuid"
)

// Supported report formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// BarChartWidth is the width in characters of the longest distribution bar.
const BarChartWidth = 30

// SegmentRow is one line of the segment table: the summary figures plus the
// catalog display information.
type SegmentRow struct {
	models.SegmentSummary
	Label       string `json:"label,omitempty"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Report is the consolidated outcome of one analysis.
type Report struct {
	ID            string            `json:"id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Source        string            `json:"source,omitempty"`
	ReferenceDate string            `json:"reference_date"`
	KPIs          rfm.KPIs          `json:"kpis"`
	Segments      []SegmentRow      `json:"segments"`
	Matrix        *rfm.Matrix       `json:"matrix"`
	Stats         models.Stats      `json:"stats"`
	Insights      *insights.Insight `json:"insights,omitempty"`
}

// Generator builds and renders reports.
type Generator struct {
	catalog *store.SegmentCatalog
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

// NewGenerator creates a Generator. A nil catalog uses the built-in segment
// catalog and a nil logger falls back to the default logger.
func NewGenerator(catalog *store.SegmentCatalog, logger logging.Logger) *Generator {
	if catalog == nil {
		catalog = store.DefaultCatalog()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{
		catalog: catalog,
		logger:  logger.WithField(logging.FieldComponent, "ReportGenerator"),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Build assembles the report of result. Segments are ordered by customer
// count, largest first. insight may be nil.
func (g *Generator) Build(result *models.Result, source string, insight *insights.Insight) *Report {
	if result == nil {
		result = &models.Result{}
	}

	summaries := rfm.SortByCount(result.Summaries)
	rows := make([]SegmentRow, 0, len(summaries))
	for _, s := range summaries {
		info, _ := g.catalog.Lookup(s.Name)
		rows = append(rows, SegmentRow{
			SegmentSummary: s,
			Label:          info.Label,
			Color:          g.catalog.Color(s.Name),
			Description:    info.Description,
		})
	}

	return &Report{
		ID:            g.newID(),
		GeneratedAt:   g.now().UTC(),
		Source:        source,
		ReferenceDate: dateutils.ToISODate(result.ReferenceDate),
		KPIs:          rfm.ComputeKPIs(result.Records),
		Segments:      rows,
		Matrix:        rfm.BuildMatrix(result.Records),
		Stats:         result.Stats,
		Insights:      insight,
	}
}

// Generate renders report in the given format (json or markdown).
func (g *Generator) Generate(report *Report, format string) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	switch format {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatMarkdown:
		return []byte(g.generateMarkdownReport(report)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders report and writes it to path.
func (g *Generator) WriteReport(report *Report, format, path string) error {
	data, err := g.Generate(report, format)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(path, data); err != nil {
		return err
	}
	g.logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format},
	).Info("Report written")
	return nil
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	if format == FormatMarkdown {
		return ".md"
	}
	return "." + format
}

func (g *Generator) generateJSONReport(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *Generator) generateMarkdownReport(report *Report) string {
	var b strings.Builder

	b.WriteString("# RFM Strategic Analysis\n\n")
	fmt.Fprintf(&b, "- Report: `%s`\n", report.ID)
	fmt.Fprintf(&b, "- Generated: %s\n", dateutils.FormatDate(report.GeneratedAt, dateutils.DateLayoutFull))
	if report.Source != "" {
		fmt.Fprintf(&b, "- Source: %s\n", report.Source)
	}
	if report.ReferenceDate != "" {
		fmt.Fprintf(&b, "- Reference date: %s\n", report.ReferenceDate)
	}

	b.WriteString("\n## Key Performance Indicators\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Customers processed | %d |\n", report.KPIs.Customers)
	fmt.Fprintf(&b, "| Gross revenue | %s |\n", currencyutils.FormatAmount(report.KPIs.TotalRevenue, "BRL"))
	fmt.Fprintf(&b, "| Average ticket | %s |\n", currencyutils.FormatAmount(report.KPIs.AverageTicket, "BRL"))
	fmt.Fprintf(&b, "| Average frequency | %.2f |\n", report.KPIs.AvgFrequency)
	fmt.Fprintf(&b, "| Average recency | %.0fd |\n", report.KPIs.AvgRecency)

	if len(report.Segments) > 0 {
		b.WriteString("\n## Customer Distribution\n\n```\n")
		b.WriteString(DistributionChart(report.Segments, BarChartWidth))
		b.WriteString("```\n")

		b.WriteString("\n## Segment Analysis\n\n")
		b.WriteString("| Segment | Customers | % | Recency | Freq. | Avg. Ticket | Description |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---|\n")
		for _, s := range report.Segments {
			fmt.Fprintf(&b, "| %s | %d | %.1f%% | %.0fd | %.1f | %s | %s |\n",
				s.Name, s.Count, s.Percentage, s.AvgRecency, s.AvgFrequency,
				currencyutils.FormatAmount(s.AvgMonetary, "BRL"), s.Description)
		}
	}

	if report.Matrix != nil && report.KPIs.Customers > 0 {
		b.WriteString("\n## Recency x Frequency Matrix\n\n")
		b.WriteString("| F \\ R | 1 | 2 | 3 | 4 | 5 |\n|---|---|---|---|---|---|\n")
		for f := models.MaxScore; f >= models.MinScore; f-- {
			fmt.Fprintf(&b, "| **%d** |", f)
			for r := models.MinScore; r <= models.MaxScore; r++ {
				cell := report.Matrix.Cell(r, f)
				if cell.Count == 0 {
					b.WriteString(" - |")
					continue
				}
				fmt.Fprintf(&b, " %d %s |", cell.Count, cell.Segment)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Data Quality\n\n")
	b.WriteString("| Counter | Rows |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Rows read | %d |\n", report.Stats.RowsRead)
	fmt.Fprintf(&b, "| Skipped, missing customer id | %d |\n", report.Stats.RowsSkippedMissingID)
	fmt.Fprintf(&b, "| Skipped, invalid date | %d |\n", report.Stats.RowsSkippedInvalidDate)
	fmt.Fprintf(&b, "| Unparseable values counted as 0 | %d |\n", report.Stats.UnparseableValues)

	if report.Insights != nil && report.Insights.Text != "" {
		b.WriteString("\n## Recommended Strategy\n\n")
		b.WriteString(insights.PlainText(report.Insights.Text))
		b.WriteString("\n")
	}

	return b.String()
}

// BarWidth scales count against maxCount into at most width characters. A
// non-empty segment always gets at least one character.
func BarWidth(count, maxCount, width int) int {
	if maxCount <= 0 || count <= 0 || width <= 0 {
		return 0
	}
	w := count * width / maxCount
	if w < 1 {
		w = 1
	}
	return w
}

// DistributionChart draws one text bar per segment, labelled with
// "count (pct%)".
func DistributionChart(rows []SegmentRow, width int) string {
	maxCount, nameWidth := 0, 0
	for _, s := range rows {
		if s.Count > maxCount {
			maxCount = s.Count
		}
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	var b strings.Builder
	for _, s := range rows {
		bar := BarWidth(s.Count, maxCount, width)
		fmt.Fprintf(&b, "%-*s %s%s %s\n", nameWidth, strings.ToUpper(s.Name),
			strings.Repeat("█", bar), strings.Repeat("░", width-bar), BarLabel(s.Count, s.Percentage))
	}
	return b.String()
}

// BarLabel formats the label printed after a distribution bar.
func BarLabel(count int, percentage float64) string {
	return fmt.Sprintf("%d (%.1f%%)", count, percentage)
}
