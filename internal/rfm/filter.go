package rfm

import (
	"strings"

	"vorp/rfm-csv/internal/models"
)

// DefaultPageSize is the number of records per page when none is given.
const DefaultPageSize = 10

// RecordFilter selects records by a free text search and a segment name.
// Empty fields match everything.
type RecordFilter struct {
	Search  string `json:"search,omitempty" form:"search"`
	Segment string `json:"segment,omitempty" form:"segment"`
}

// Match reports whether rec passes the filter. Search is a case-insensitive
// substring match on customer id or name.
func (f RecordFilter) Match(rec models.RFMRecord) bool {
	if f.Segment != "" && rec.Segment != f.Segment {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.CustomerID), term) ||
		strings.Contains(strings.ToLower(rec.CustomerName), term)
}

// Filter returns the records matching f, in their original order.
func Filter(records []models.RFMRecord, f RecordFilter) []models.RFMRecord {
	out := make([]models.RFMRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Page is one slice of a filtered record list.
type Page struct {
	Records    []models.RFMRecord `json:"records"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
}

// Paginate returns page number page (1-based) of records. The page number is
// clamped to the available range and a non-positive size uses DefaultPageSize.
func Paginate(records []models.RFMRecord, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + size - 1) / size
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Records:    records[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}
