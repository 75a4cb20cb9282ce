package insights

import (
	"context"
	"fmt"
	"strings"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	APIKey      string
	Model       string
	Language    string
	Temperature float32
	TopP        float32
}

// GeminiClient implements Client with the Google Gemini API
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	language  string
	logger    logging.Logger
}

// NewGeminiClient creates a Gemini backed client. The returned client must be
// closed with Close.
func NewGeminiClient(ctx context.Context, opts GeminiOptions, logger logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(opts.TopP)

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: opts.Model,
		language:  opts.Language,
		logger:    logger,
	}, nil
}

// Generate asks the model for recommendations on summaries.
func (c *GeminiClient) Generate(ctx context.Context, summaries []models.SegmentSummary) (string, error) {
	prompt, err := BuildPrompt(summaries, c.language)
	if err != nil {
		return "", err
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "gemini_insights"},
		logging.Field{Key: logging.FieldModel, Value: c.modelName},
		logging.Field{Key: logging.FieldCount, Value: len(summaries)},
	).Debug("Requesting insights from Gemini API")

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &parsererror.InsightsError{Model: c.modelName, Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &parsererror.InsightsError{Model: c.modelName, Err: fmt.Errorf("no response from Gemini API")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
