package rfm

import (
	"sort"
	"time"

	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/models"

	"github.com/shopspring/decimal"
)

// DeriveMetrics computes recency, frequency and monetary for every customer,
// relative to ref. Scores are left at zero.
func DeriveMetrics(set *AggregateSet, ref time.Time) []models.RFMRecord {
	customers := set.Customers()
	records := make([]models.RFMRecord, 0, len(customers))

	for _, agg := range customers {
		if len(agg.Dates) == 0 {
			continue
		}

		dates := make([]time.Time, len(agg.Dates))
		copy(dates, agg.Dates)
		sort.SliceStable(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
		latest := dates[0]

		monetary := decimal.Zero
		for _, v := range agg.Values {
			monetary = monetary.Add(v)
		}

		records = append(records, models.RFMRecord{
			CustomerID:       agg.ID,
			CustomerName:     agg.Name,
			Salesperson:      agg.Salesperson,
			Recency:          dateutils.DaysBetween(latest, ref),
			LastPurchaseDate: latest,
			Frequency:        len(dates),
			Monetary:         monetary,
		})
	}

	return records
}
