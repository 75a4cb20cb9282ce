package insights

import (
	"context"
	"time"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
)

// Texts returned instead of model output.
const (
	FallbackDisabled      = "AI insights are disabled. Enable ai.enabled and set GEMINI_API_KEY to generate recommendations."
	FallbackEmptyResponse = "Could not generate insights at this time."
	FallbackError         = "Error connecting to the AI service. Check that the API key is configured."
	FallbackNoSegments    = "There are no customer segments to analyze."
)

// Insight is the outcome of one generation request.
type Insight struct {
	Text      string `json:"insights"`
	Generated bool   `json:"generated"`
}

// Service wraps a Client so insight generation never fails an analysis run:
// a missing client, an error or an empty answer all produce a fallback text.
type Service struct {
	client  Client
	timeout time.Duration
	logger  logging.Logger
}

// NewService creates a Service. A nil client means insights are disabled.
// A non-positive timeout disables the per-request deadline.
func NewService(client Client, timeout time.Duration, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Service{client: client, timeout: timeout, logger: logger}
}

// Enabled reports whether a model backend is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Generate returns recommendations for summaries, or a fallback text.
func (s *Service) Generate(ctx context.Context, summaries []models.SegmentSummary) Insight {
	if s.client == nil {
		return Insight{Text: FallbackDisabled}
	}
	if len(summaries) == 0 {
		return Insight{Text: FallbackNoSegments}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.client.Generate(ctx, summaries)
	if err != nil {
		s.logger.WithError(err).Warn("Insight generation failed, using fallback text")
		return Insight{Text: FallbackError}
	}
	if text == "" {
		s.logger.Warn("Insight generation returned no text, using fallback text")
		return Insight{Text: FallbackEmptyResponse}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(summaries)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	).Info("Generated AI insights")
	return Insight{Text: text, Generated: true}
}
