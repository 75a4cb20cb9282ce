package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"vorp/rfm-csv/internal/config"
	"vorp/rfm-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.AI.TimeoutSeconds = 30
	cfg.Output.ReportFormat = "markdown"
	cfg.Server.MaxUploadMB = 8
	return cfg
}

func TestNewContainer(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name        string
		config      func() *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func() *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config without AI",
			config: testConfig,
		},
		{
			name: "AI enabled without key stays disabled",
			config: func() *config.Config {
				cfg := testConfig()
				cfg.AI.Enabled = true
				return cfg
			},
		},
		{
			name: "explicit catalog file missing",
			config: func() *config.Config {
				cfg := testConfig()
				cfg.Segments.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(context.Background(), tt.config())
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetStore())
			assert.Equal(t, 11, c.GetCatalog().Len())
			assert.NotNil(t, c.GetEngine())
			assert.NotNil(t, c.GetReportGenerator())
			assert.NotNil(t, c.GetAnalyzer())
			assert.False(t, c.GetInsights().Enabled())
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainer_CatalogOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	content := "segments:\n  - name: Champions\n    color: \"#000000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := testConfig()
	cfg.Segments.CatalogFile = path
	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "#000000", c.GetCatalog().Color(models.SegmentChampions))
}

func TestNewContainer_InvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segments: [unclosed"), 0600))

	cfg := testConfig()
	cfg.Segments.CatalogFile = path
	_, err := NewContainer(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load segment catalog")
}

func TestContainer_NewServer(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.NewServer().Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
