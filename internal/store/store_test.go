package store

import (
	"os"
	"path/filepath"
	"testing"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Equal(t, 11, catalog.Len())

	names := make([]string, 0, catalog.Len())
	for _, info := range catalog.All() {
		names = append(names, info.Name)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, info.Color)
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Label)
	}
	assert.Equal(t, models.SegmentNames(), names)

	assert.Equal(t, "#10b981", catalog.Color(models.SegmentChampions))
	assert.Equal(t, "#1e293b", catalog.Color(models.SegmentLost))
	assert.Equal(t, FallbackColor, catalog.Color("Unknown"))
	assert.Empty(t, catalog.Description("Unknown"))

	info, ok := catalog.Lookup(models.SegmentAtRisk)
	require.True(t, ok)
	assert.Equal(t, "Em Risco", info.Label)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "segments.yaml")
	writeFile(t, testFile, "segments: []")

	s := NewCatalogStore("", logging.NewMockLogger())

	file, err := s.FindConfigFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCatalog_MissingFileUsesDefaults(t *testing.T) {
	s := NewCatalogStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger())

	catalog, err := s.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().All(), catalog.All())
}

func TestLoadCatalog_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.yaml")
	writeFile(t, path, `
segments:
  - name: Champions
    color: "#000000"
    description: Our best buyers
  - name: At Risk
    label: Risco
  - name: Whales
    color: "#123456"
  - name: Lost
    color: black
`)

	logger := logging.NewMockLogger()
	catalog, err := NewCatalogStore(path, logger).LoadCatalog()
	require.NoError(t, err)

	champions, _ := catalog.Lookup(models.SegmentChampions)
	assert.Equal(t, "#000000", champions.Color)
	assert.Equal(t, "Our best buyers", champions.Description)
	assert.Equal(t, "Campeões", champions.Label)

	atRisk, _ := catalog.Lookup(models.SegmentAtRisk)
	assert.Equal(t, "Risco", atRisk.Label)
	assert.Equal(t, "#ef4444", atRisk.Color)

	assert.Equal(t, "#1e293b", catalog.Color(models.SegmentLost), "invalid color is ignored")
	_, ok := catalog.Lookup("Whales")
	assert.False(t, ok)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 2)
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	writeFile(t, path, "segments: [unterminated")

	_, err := NewCatalogStore(path, logging.NewMockLogger()).LoadCatalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing segment catalog file")
}

func TestSaveCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "segments.yaml")
	s := NewCatalogStore(path, logging.NewMockLogger())

	require.NoError(t, s.SaveCatalog(DefaultCatalog(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var file catalogFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	assert.Len(t, file.Segments, 11)

	reloaded, err := s.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().All(), reloaded.All())
}
