package rfm

import (
	"fmt"
	"testing"

	"vorp/rfm-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuintileScores_BucketSizes(t *testing.T) {
	for n := 1; n <= 53; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			values := make([]int, n)
			for i := range values {
				values[i] = (i * 7919) % 101
			}

			scores := QuintileScores(values, func(a, b int) bool { return a < b })
			counts := map[int]int{}
			for _, s := range scores {
				require.GreaterOrEqual(t, s, 1)
				require.LessOrEqual(t, s, 5)
				counts[s]++
			}

			low, high := n/5, (n+4)/5
			for s := 1; s <= 5; s++ {
				assert.GreaterOrEqual(t, counts[s], low, "score %d", s)
				assert.LessOrEqual(t, counts[s], high, "score %d", s)
			}
		})
	}
}

func TestQuintileScores_Empty(t *testing.T) {
	assert.Empty(t, QuintileScores([]int{}, func(a, b int) bool { return a < b }))
}

func TestQuintileScores_TiesUseStablePosition(t *testing.T) {
	scores := QuintileScores([]int{7, 7, 7, 7, 7}, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3, 4, 5}, scores)
}

func TestScoreMonetary_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		values   []int64
		expected []int
	}{
		{"ascending input", []int64{10, 20, 30, 40, 50}, []int{1, 2, 3, 4, 5}},
		{"shuffled input", []int64{40, 10, 50, 30, 20}, []int{4, 1, 5, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.RFMRecord, len(tt.values))
			for i, v := range tt.values {
				records[i] = models.RFMRecord{
					CustomerID: fmt.Sprintf("C%d", i),
					Recency:    3,
					Frequency:  2,
					Monetary:   decimal.NewFromInt(v),
				}
			}

			scored := ScoreMonetary(records)
			got := make([]int, len(scored))
			for i, r := range scored {
				got[i] = r.MScore
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScoreRecency_Inverted(t *testing.T) {
	records := []models.RFMRecord{
		{CustomerID: "old", Recency: 400},
		{CustomerID: "recent", Recency: 0},
		{CustomerID: "mid", Recency: 30},
		{CustomerID: "older", Recency: 90},
		{CustomerID: "newish", Recency: 5},
	}

	scored := ScoreRecency(records)
	byID := map[string]int{}
	for _, r := range scored {
		byID[r.CustomerID] = r.RScore
	}

	assert.Equal(t, 5, byID["recent"])
	assert.Equal(t, 4, byID["newish"])
	assert.Equal(t, 3, byID["mid"])
	assert.Equal(t, 2, byID["older"])
	assert.Equal(t, 1, byID["old"])
}

func TestScorePasses_ReturnNewSlices(t *testing.T) {
	records := []models.RFMRecord{
		{CustomerID: "A", Recency: 1, Frequency: 1, Monetary: decimal.NewFromInt(1)},
		{CustomerID: "B", Recency: 2, Frequency: 2, Monetary: decimal.NewFromInt(2)},
	}

	scored := Score(records)
	for _, r := range records {
		assert.Zero(t, r.RScore)
		assert.Zero(t, r.FScore)
		assert.Zero(t, r.MScore)
		assert.Empty(t, r.RFMScore)
	}

	require.Len(t, scored, 2)
	assert.Equal(t, "A", scored[0].CustomerID)
	assert.Equal(t, fmt.Sprintf("%d%d%d", scored[0].RScore, scored[0].FScore, scored[0].MScore), scored[0].RFMScore)
	assert.Equal(t, Classify(scored[1].RScore, scored[1].FScore), scored[1].Segment)
}

func TestScore_RecencyMonotonic(t *testing.T) {
	records := make([]models.RFMRecord, 37)
	for i := range records {
		records[i] = models.RFMRecord{
			CustomerID: fmt.Sprintf("C%02d", i),
			Recency:    (i * 13) % 29,
			Frequency:  1 + i%4,
			Monetary:   decimal.NewFromInt(int64((i * 31) % 17)),
		}
	}

	scored := Score(records)
	for _, a := range scored {
		for _, b := range scored {
			if a.Recency < b.Recency {
				assert.GreaterOrEqual(t, a.RScore, b.RScore, "%s (recency %d) vs %s (recency %d)", a.CustomerID, a.Recency, b.CustomerID, b.Recency)
			}
		}
	}
}
