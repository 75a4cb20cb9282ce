// Package rfm implements the RFM segmentation pipeline: grouping raw rows into
// customers, deriving recency/frequency/monetary metrics, quintile scoring and
// segment classification.
package rfm

import (
	"strings"
	"time"

	"vorp/rfm-csv/internal/currencyutils"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/models"

	"github.com/spf13/cast"
)

// AggregateSet holds per-customer aggregates in order of first valid appearance.
type AggregateSet struct {
	order []string
	byID  map[string]*models.CustomerAggregate
}

func newAggregateSet() *AggregateSet {
	return &AggregateSet{byID: make(map[string]*models.CustomerAggregate)}
}

// Len returns the number of customers.
func (s *AggregateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// get returns the aggregate of one customer.
func (s *AggregateSet) get(id string) (models.CustomerAggregate, bool) {
	if s == nil {
		return models.CustomerAggregate{}, false
	}
	agg, ok := s.byID[id]
	if !ok {
		return models.CustomerAggregate{}, false
	}
	return *agg, true
}

// Customers returns a copy of every aggregate in first-appearance order.
func (s *AggregateSet) Customers() []models.CustomerAggregate {
	if s == nil {
		return nil
	}
	out := make([]models.CustomerAggregate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// Aggregator groups raw rows by customer.
type Aggregator struct {
	Dates dateutils.DateParser
}

// Aggregate groups rows with the default date parser. See Aggregator.Aggregate.
func Aggregate(rows []models.RawRow, mapping models.ColumnMapping) (*AggregateSet, models.Stats) {
	return Aggregator{}.Aggregate(rows, mapping)
}

// Aggregate makes one pass over rows and builds the per-customer aggregates.
//
// Rows without a customer id or with an unreadable date are dropped. An
// unreadable amount counts as zero and is reported in Stats. The first
// non-empty name of a customer is kept; the salesperson is the last non-empty
// one seen.
func (a Aggregator) Aggregate(rows []models.RawRow, mapping models.ColumnMapping) (*AggregateSet, models.Stats) {
	set := newAggregateSet()
	stats := models.Stats{RowsRead: len(rows)}

	for _, row := range rows {
		id := cellString(row, mapping.CustomerID)
		if id == "" {
			stats.RowsSkippedMissingID++
			continue
		}

		date, ok := a.Dates.Parse(row[mapping.OrderDate])
		if !ok {
			stats.RowsSkippedInvalidDate++
			continue
		}

		value, parsed := currencyutils.ParseValueStrict(row[mapping.OrderValue])
		if !parsed {
			stats.UnparseableValues++
		}

		agg, exists := set.byID[id]
		if !exists {
			agg = &models.CustomerAggregate{ID: id}
			set.byID[id] = agg
			set.order = append(set.order, id)
		}

		if agg.Name == "" && mapping.CustomerName != "" {
			agg.Name = cellString(row, mapping.CustomerName)
		}
		if mapping.Salesperson != "" {
			if sp := cellString(row, mapping.Salesperson); sp != "" {
				agg.Salesperson = sp
			}
		}

		agg.Dates = append(agg.Dates, date)
		agg.Values = append(agg.Values, value)
	}

	for _, agg := range set.byID {
		if agg.Name == "" {
			agg.Name = models.CustomerNamePrefix + agg.ID
		}
		if agg.Salesperson == "" {
			agg.Salesperson = models.DefaultSalesperson
		}
	}

	stats.Customers = set.Len()
	return set, stats
}

// ReferenceDate returns the latest transaction date across all customers.
// The boolean is false when the set holds no transactions.
func ReferenceDate(set *AggregateSet) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, agg := range set.Customers() {
		for _, d := range agg.Dates {
			if !found || d.After(latest) {
				latest = d
				found = true
			}
		}
	}
	return latest, found
}

func cellString(row models.RawRow, column string) string {
	if column == "" {
		return ""
	}
	value, ok := row[column]
	if !ok || value == nil {
		return ""
	}
	str, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(str)
}
