package rfm

import (
	"fmt"
	"sort"

	"vorp/rfm-csv/internal/models"
)

// QuintileScores ranks items ascending with less (stable) and returns, for
// each item in its original position, the 1-5 score of its rank bucket.
func QuintileScores[T any](items []T, less func(a, b T) bool) []int {
	n := len(items)
	scores := make([]int, n)
	if n == 0 {
		return scores
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return less(items[idx[i]], items[idx[j]])
	})

	for rank, pos := range idx {
		scores[pos] = clampScore(rank*5/n + 1)
	}
	return scores
}

func clampScore(score int) int {
	if score < models.MinScore {
		return models.MinScore
	}
	if score > models.MaxScore {
		return models.MaxScore
	}
	return score
}

// ScoreRecency returns a copy of records with RScore set. Smaller recency
// (a more recent purchase) yields a higher score.
func ScoreRecency(records []models.RFMRecord) []models.RFMRecord {
	scores := QuintileScores(records, func(a, b models.RFMRecord) bool {
		return a.Recency < b.Recency
	})
	out := cloneRecords(records)
	for i := range out {
		out[i].RScore = models.MaxScore + 1 - scores[i]
	}
	return out
}

// ScoreFrequency returns a copy of records with FScore set.
func ScoreFrequency(records []models.RFMRecord) []models.RFMRecord {
	scores := QuintileScores(records, func(a, b models.RFMRecord) bool {
		return a.Frequency < b.Frequency
	})
	out := cloneRecords(records)
	for i := range out {
		out[i].FScore = scores[i]
	}
	return out
}

// ScoreMonetary returns a copy of records with MScore set.
func ScoreMonetary(records []models.RFMRecord) []models.RFMRecord {
	scores := QuintileScores(records, func(a, b models.RFMRecord) bool {
		return a.Monetary.LessThan(b.Monetary)
	})
	out := cloneRecords(records)
	for i := range out {
		out[i].MScore = scores[i]
	}
	return out
}

// Score runs the three scoring passes and then classifies every record.
func Score(records []models.RFMRecord) []models.RFMRecord {
	return AssignSegments(ScoreMonetary(ScoreFrequency(ScoreRecency(records))))
}

// AssignSegments returns a copy of records with RFMScore and Segment filled in
// from the already computed scores.
func AssignSegments(records []models.RFMRecord) []models.RFMRecord {
	out := cloneRecords(records)
	for i := range out {
		out[i].RFMScore = fmt.Sprintf("%d%d%d", out[i].RScore, out[i].FScore, out[i].MScore)
		out[i].Segment = Classify(out[i].RScore, out[i].FScore)
	}
	return out
}

func cloneRecords(records []models.RFMRecord) []models.RFMRecord {
	out := make([]models.RFMRecord, len(records))
	copy(out, records)
	return out
}
