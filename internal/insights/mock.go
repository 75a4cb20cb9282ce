package insights

import (
	"context"

	"vorp/rfm-csv/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock implementing Client.
type MockClient struct {
	mock.Mock
}

// Generate records the call and returns the configured text and error.
func (m *MockClient) Generate(ctx context.Context, summaries []models.SegmentSummary) (string, error) {
	args := m.Called(ctx, summaries)
	return args.String(0), args.Error(1)
}
