package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleSummaries() []models.SegmentSummary {
	return []models.SegmentSummary{
		{Name: models.SegmentChampions, Count: 3, Percentage: 60, AvgRecency: 2.333, AvgFrequency: 5, AvgMonetary: decimal.RequireFromString("812.456")},
		{Name: models.SegmentAtRisk, Count: 2, Percentage: 40, AvgRecency: 120, AvgFrequency: 2.5, AvgMonetary: decimal.RequireFromString("90")},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(sampleSummaries(), "Brazilian Portuguese")
	require.NoError(t, err)

	assert.Contains(t, prompt, `"name": "Champions"`)
	assert.Contains(t, prompt, `"avgMonetary": 812.46`)
	assert.Contains(t, prompt, `"avgRecency": 2.3`)
	assert.Contains(t, prompt, "2 most critical segments")
	assert.Contains(t, prompt, "3 personalized marketing strategies for 'Champions'")
	assert.Contains(t, prompt, "reactivate 'At Risk' customers")
	assert.True(t, strings.HasSuffix(prompt, "Answer in Brazilian Portuguese with a professional, actionable tone. Use Markdown formatting (bold, lists)."))

	defaultLang, err := BuildPrompt(nil, "")
	require.NoError(t, err)
	assert.Contains(t, defaultLang, "Answer in English")
	assert.Contains(t, defaultLang, "[]")
}

func TestPlainText(t *testing.T) {
	in := "## Overview\n**Champions** are growing.\n### Next steps\n- keep **them**"
	assert.Equal(t, " Overview\nChampions are growing.\n Next steps\n- keep them", PlainText(in))
}

func TestService_Generate(t *testing.T) {
	summaries := sampleSummaries()

	tests := []struct {
		name          string
		text          string
		err           error
		wantText      string
		wantGenerated bool
		wantWarn      bool
	}{
		{name: "model answer", text: "**Healthy** base", wantText: "**Healthy** base", wantGenerated: true},
		{name: "backend error", err: errors.New("quota exceeded"), wantText: FallbackError, wantWarn: true},
		{name: "empty answer", text: "", wantText: FallbackEmptyResponse, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockClient{}
			client.On("Generate", mock.Anything, summaries).Return(tt.text, tt.err)
			logger := logging.NewMockLogger()

			svc := NewService(client, time.Second, logger)
			require.True(t, svc.Enabled())

			got := svc.Generate(context.Background(), summaries)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantGenerated, got.Generated)
			assert.Equal(t, tt.wantWarn, len(logger.GetEntriesByLevel("WARN")) == 1)
			client.AssertExpectations(t)
		})
	}
}

func TestService_Generate_Disabled(t *testing.T) {
	svc := NewService(nil, 0, logging.NewMockLogger())
	assert.False(t, svc.Enabled())

	got := svc.Generate(context.Background(), sampleSummaries())
	assert.Equal(t, Insight{Text: FallbackDisabled}, got)
}

func TestService_Generate_NoSegmentsSkipsClient(t *testing.T) {
	client := &MockClient{}
	svc := NewService(client, time.Second, logging.NewMockLogger())

	got := svc.Generate(context.Background(), nil)
	assert.Equal(t, FallbackNoSegments, got.Text)
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestService_Generate_AppliesTimeout(t *testing.T) {
	client := &MockClient{}
	client.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline
	}), mock.Anything).Return("ok", nil)

	svc := NewService(client, 5*time.Second, logging.NewMockLogger())
	got := svc.Generate(context.Background(), sampleSummaries())
	assert.True(t, got.Generated)
	client.AssertExpectations(t)
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiOptions{Model: "gemini-2.0-flash"}, logging.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
