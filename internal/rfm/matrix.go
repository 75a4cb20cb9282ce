package rfm

import (
	"vorp/rfm-csv/internal/models"
)

// MatrixCell is one recency/frequency score combination.
type MatrixCell struct {
	RScore  int    `json:"r_score"`
	FScore  int    `json:"f_score"`
	Count   int    `json:"count"`
	Segment string `json:"segment"`
}

// Matrix is the 5x5 recency by frequency grid. Rows run from F=5 down to
// F=1, columns from R=1 up to R=5.
type Matrix [models.MaxScore][models.MaxScore]MatrixCell

// Cell returns the cell for the given scores. Out of range scores return a
// zero cell.
func (m *Matrix) Cell(r, f int) MatrixCell {
	if r < models.MinScore || r > models.MaxScore || f < models.MinScore || f > models.MaxScore {
		return MatrixCell{}
	}
	return m[models.MaxScore-f][r-1]
}

// BuildMatrix counts records per R/F combination and names each cell after
// its most frequent segment. Empty cells are labelled Lost.
func BuildMatrix(records []models.RFMRecord) *Matrix {
	var counts [models.MaxScore][models.MaxScore]map[string]int
	var m Matrix

	for row := 0; row < models.MaxScore; row++ {
		for col := 0; col < models.MaxScore; col++ {
			m[row][col] = MatrixCell{RScore: col + 1, FScore: models.MaxScore - row, Segment: models.SegmentLost}
		}
	}

	for _, rec := range records {
		if rec.RScore < models.MinScore || rec.RScore > models.MaxScore ||
			rec.FScore < models.MinScore || rec.FScore > models.MaxScore {
			continue
		}
		row, col := models.MaxScore-rec.FScore, rec.RScore-1
		if counts[row][col] == nil {
			counts[row][col] = make(map[string]int)
		}
		counts[row][col][rec.Segment]++
		cell := &m[row][col]
		cell.Count++
		// ties keep the segment that reached the count first
		if n := counts[row][col][rec.Segment]; cell.Count == 1 || n > counts[row][col][cell.Segment] {
			cell.Segment = rec.Segment
		}
	}
	return &m
}
