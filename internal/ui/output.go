// Package ui renders analysis results on the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"vorp/rfm-csv/internal/currencyutils"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// Renderer writes styled analysis output to a writer. Colors degrade to plain
// text when the writer is not a terminal.
type Renderer struct {
	out     io.Writer
	catalog *store.SegmentCatalog
	lg      *lipgloss.Renderer
	styles  styles
	width   int
}

// NewRenderer creates a Renderer writing to out. A nil catalog uses the
// built-in segment colors.
func NewRenderer(out io.Writer, catalog *store.SegmentCatalog) *Renderer {
	if catalog == nil {
		catalog = store.DefaultCatalog()
	}
	lg := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		catalog: catalog,
		lg:      lg,
		styles:  newStyles(lg),
		width:   report.BarChartWidth,
	}
}

// PrintSuccess prints a success message
func (r *Renderer) PrintSuccess(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(r.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func (r *Renderer) PrintError(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(r.out, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func (r *Renderer) PrintWarning(format string, args ...interface{}) {
	_, _ = warningColor.Fprintf(r.out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func (r *Renderer) PrintInfo(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(r.out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintText prints text as is, followed by a newline.
func (r *Renderer) PrintText(text string) {
	_, _ = fmt.Fprintln(r.out, text)
}

// PrintKPIs prints the headline figures in a bordered box.
func (r *Renderer) PrintKPIs(k rfm.KPIs, referenceDate string) {
	lines := []string{
		r.styles.Title.Render("RFM ANALYSIS"),
		"",
		fmt.Sprintf("%s %d", r.styles.Label.Render("Customers:"), k.Customers),
		fmt.Sprintf("%s %s", r.styles.Label.Render("Revenue:"), currencyutils.FormatAmount(k.TotalRevenue, "BRL")),
		fmt.Sprintf("%s %s", r.styles.Label.Render("Average ticket:"), currencyutils.FormatAmount(k.AverageTicket, "BRL")),
		fmt.Sprintf("%s %.2f", r.styles.Label.Render("Average frequency:"), k.AvgFrequency),
		fmt.Sprintf("%s %.0fd", r.styles.Label.Render("Average recency:"), k.AvgRecency),
	}
	if referenceDate != "" {
		lines = append(lines, fmt.Sprintf("%s %s", r.styles.Label.Render("Reference date:"), referenceDate))
	}
	_, _ = fmt.Fprintln(r.out, r.styles.KPIBox.Render(strings.Join(lines, "\n")))
}

// PrintDistribution prints one bar per segment in the segment's color, sized
// by its count relative to the largest segment.
func (r *Renderer) PrintDistribution(summaries []models.SegmentSummary) {
	sorted := rfm.SortByCount(summaries)
	maxCount, nameWidth := 0, 0
	for _, s := range sorted {
		if s.Count > maxCount {
			maxCount = s.Count
		}
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	for _, s := range sorted {
		bar := report.BarWidth(s.Count, maxCount, r.width)
		fill := r.lg.NewStyle().Foreground(lipgloss.Color(r.catalog.Color(s.Name))).Render(strings.Repeat("█", bar))
		track := r.styles.Track.Render(strings.Repeat("░", r.width-bar))
		_, _ = fmt.Fprintf(r.out, "%-*s %s%s %s\n", nameWidth, s.Name, fill, track, report.BarLabel(s.Count, s.Percentage))
	}
}

const matrixCellWidth = 22

// PrintMatrix prints the recency by frequency grid, F=5 on top.
func (r *Renderer) PrintMatrix(m *rfm.Matrix) {
	if m == nil {
		return
	}
	header := []string{r.styles.Label.Render("F \\ R")}
	for score := models.MinScore; score <= models.MaxScore; score++ {
		header = append(header, r.styles.Label.Render(fmt.Sprintf("%-*s", matrixCellWidth, fmt.Sprintf("R%d", score))))
	}
	_, _ = fmt.Fprintln(r.out, strings.Join(header, " "))

	for f := models.MaxScore; f >= models.MinScore; f-- {
		cells := []string{r.styles.Label.Render(fmt.Sprintf("F%d   ", f))}
		for score := models.MinScore; score <= models.MaxScore; score++ {
			cell := m.Cell(score, f)
			text := "-"
			if cell.Count > 0 {
				text = fmt.Sprintf("%d %s", cell.Count, cell.Segment)
			}
			style := r.lg.NewStyle().Foreground(lipgloss.Color(r.catalog.Color(cell.Segment)))
			cells = append(cells, style.Render(fmt.Sprintf("%-*s", matrixCellWidth, text)))
		}
		_, _ = fmt.Fprintln(r.out, strings.Join(cells, " "))
	}
}

// PrintRecords prints a page of customer records as a plain table.
func (r *Renderer) PrintRecords(page rfm.Page) {
	_, _ = boldColor.Fprintf(r.out, "%-12s %-28s %6s %5s %14s %5s  %s\n",
		"ID", "NAME", "REC", "FREQ", "MONETARY", "RFM", "SEGMENT")
	for _, rec := range page.Records {
		_, _ = fmt.Fprintf(r.out, "%-12s %-28s %5dd %5d %14s %5s  %s\n",
			truncate(rec.CustomerID, 12), truncate(rec.CustomerName, 28), rec.Recency,
			rec.Frequency, currencyutils.FormatAmount(rec.Monetary, "BRL"), rec.RFMScore, rec.Segment)
	}
	if page.TotalPages > 1 {
		_, _ = fmt.Fprintf(r.out, "Page %d of %d (%d records)\n", page.Page, page.TotalPages, page.Total)
	}
}

// PrintCatalog lists the segment catalog with colored names.
func (r *Renderer) PrintCatalog() {
	for _, info := range r.catalog.All() {
		name := r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(info.Color)).Render(info.Name)
		_, _ = fmt.Fprintf(r.out, "%s (%s) %s\n  %s\n", name, info.Label, info.Color, info.Description)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
