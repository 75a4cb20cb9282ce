package rfm

import (
	"sort"

	"vorp/rfm-csv/internal/models"

	"github.com/shopspring/decimal"
)

// Summarize groups records by segment, in order of first appearance, and
// computes count, share of customers and metric means per segment. Segments
// without members are not listed.
func Summarize(records []models.RFMRecord) []models.SegmentSummary {
	type totals struct {
		count     int
		recency   int
		frequency int
		monetary  decimal.Decimal
	}

	var order []string
	groups := make(map[string]*totals)
	for _, rec := range records {
		g, ok := groups[rec.Segment]
		if !ok {
			g = &totals{monetary: decimal.Zero}
			groups[rec.Segment] = g
			order = append(order, rec.Segment)
		}
		g.count++
		g.recency += rec.Recency
		g.frequency += rec.Frequency
		g.monetary = g.monetary.Add(rec.Monetary)
	}

	total := float64(len(records))
	summaries := make([]models.SegmentSummary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		n := float64(g.count)
		summaries = append(summaries, models.SegmentSummary{
			Name:         name,
			Count:        g.count,
			Percentage:   n / total * 100,
			AvgRecency:   float64(g.recency) / n,
			AvgFrequency: float64(g.frequency) / n,
			AvgMonetary:  g.monetary.Div(decimal.NewFromInt(int64(g.count))),
		})
	}
	return summaries
}

// SortByCount returns a copy of summaries ordered by member count, largest
// first. Equal counts keep their relative order.
func SortByCount(summaries []models.SegmentSummary) []models.SegmentSummary {
	out := make([]models.SegmentSummary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
