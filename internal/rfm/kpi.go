package rfm

import (
	"vorp/rfm-csv/internal/models"

	"github.com/shopspring/decimal"
)

// KPIs are the headline figures of an analysis.
type KPIs struct {
	Customers     int             `json:"customers"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	AvgFrequency  float64         `json:"avg_frequency"`
	AvgRecency    float64         `json:"avg_recency"`
}

// ComputeKPIs derives the headline figures from records. Averages over an
// empty set are zero.
func ComputeKPIs(records []models.RFMRecord) KPIs {
	k := KPIs{Customers: len(records), TotalRevenue: decimal.Zero, AverageTicket: decimal.Zero}
	if len(records) == 0 {
		return k
	}

	var recency, frequency int
	for _, rec := range records {
		k.TotalRevenue = k.TotalRevenue.Add(rec.Monetary)
		recency += rec.Recency
		frequency += rec.Frequency
	}
	n := float64(len(records))
	k.AverageTicket = k.TotalRevenue.Div(decimal.NewFromInt(int64(len(records))))
	k.AvgFrequency = float64(frequency) / n
	k.AvgRecency = float64(recency) / n
	return k
}
