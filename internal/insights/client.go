// Package insights generates narrative marketing recommendations from segment
// summaries using a text generation model.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"vorp/rfm-csv/internal/models"
)

// Client produces narrative text for a set of segment summaries.
// Implementations call an external text generation service.
type Client interface {
	Generate(ctx context.Context, summaries []models.SegmentSummary) (string, error)
}

type promptSegment struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	AvgRecency   float64 `json:"avgRecency"`
	AvgFrequency float64 `json:"avgFrequency"`
	AvgMonetary  float64 `json:"avgMonetary"`
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

// BuildPrompt renders the analysis request sent to the model. The summaries are
// embedded as JSON and the answer is requested in language, as Markdown.
func BuildPrompt(summaries []models.SegmentSummary, language string) (string, error) {
	segments := make([]promptSegment, 0, len(summaries))
	for _, s := range summaries {
		monetary, _ := s.AvgMonetary.Round(2).Float64()
		segments = append(segments, promptSegment{
			Name:         s.Name,
			Count:        s.Count,
			Percentage:   round(s.Percentage, 1),
			AvgRecency:   round(s.AvgRecency, 1),
			AvgFrequency: round(s.AvgFrequency, 2),
			AvgMonetary:  monetary,
		})
	}

	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode segment summaries: %w", err)
	}

	if strings.TrimSpace(language) == "" {
		language = "English"
	}

	var b strings.Builder
	b.WriteString("Analyze the following customer segments from an RFM (Recency, Frequency, Monetary) analysis:\n")
	b.Write(data)
	b.WriteString("\n\nBased on this data, provide:\n")
	b.WriteString("1. An overview of the health of the customer base.\n")
	b.WriteString("2. The 2 most critical segments that need immediate intervention.\n")
	fmt.Fprintf(&b, "3. 3 personalized marketing strategies for '%s'.\n", models.SegmentChampions)
	fmt.Fprintf(&b, "4. A strategy to reactivate '%s' customers.\n\n", models.SegmentAtRisk)
	fmt.Fprintf(&b, "Answer in %s with a professional, actionable tone. Use Markdown formatting (bold, lists).", language)
	return b.String(), nil
}

// PlainText removes the Markdown emphasis and heading markers from text.
func PlainText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "###", "")
	return strings.ReplaceAll(text, "##", "")
}
