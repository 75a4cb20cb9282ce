package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerAggregate collects the valid transactions of one customer.
// Dates and Values are parallel: Dates[i] and Values[i] belong to the same row.
type CustomerAggregate struct {
	ID          string
	Name        string
	Salesperson string
	Dates       []time.Time
	Values      []decimal.Decimal
}

// RFMRecord is the scored result for one customer
type RFMRecord struct {
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Salesperson      string          `json:"salesperson,omitempty"`
	Recency          int             `json:"recency"`
	LastPurchaseDate time.Time       `json:"last_purchase_date"`
	Frequency        int             `json:"frequency"`
	Monetary         decimal.Decimal `json:"monetary"`
	RScore           int             `json:"r_score"`
	FScore           int             `json:"f_score"`
	MScore           int             `json:"m_score"`
	RFMScore         string          `json:"rfm_score"`
	Segment          string          `json:"segment"`
}

// SegmentSummary holds the aggregate figures of one observed segment
type SegmentSummary struct {
	Name         string          `json:"name"`
	Count        int             `json:"count"`
	Percentage   float64         `json:"percentage"`
	AvgRecency   float64         `json:"avg_recency"`
	AvgFrequency float64         `json:"avg_frequency"`
	AvgMonetary  decimal.Decimal `json:"avg_monetary"`
}

// Stats counts what happened to the input rows during one analysis
type Stats struct {
	RowsRead               int `json:"rows_read"`
	RowsSkippedMissingID   int `json:"rows_skipped_missing_id"`
	RowsSkippedInvalidDate int `json:"rows_skipped_invalid_date"`
	UnparseableValues      int `json:"unparseable_values"`
	Customers              int `json:"customers"`
}

// Result is the complete output of one analysis run
type Result struct {
	Records       []RFMRecord      `json:"records"`
	Summaries     []SegmentSummary `json:"summaries"`
	ReferenceDate time.Time        `json:"reference_date"`
	Stats         Stats            `json:"stats"`
}

// IsEmpty reports whether the run produced no customers.
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Records) == 0
}

// TotalRevenue returns the sum of monetary values over all records.
func (r *Result) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	if r == nil {
		return total
	}
	for _, rec := range r.Records {
		total = total.Add(rec.Monetary)
	}
	return total
}
