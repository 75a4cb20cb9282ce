package segments_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vorp/rfm-csv/cmd/segments"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/store"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "segments", segments.Cmd.Use)
	assert.Contains(t, segments.Cmd.Short, "List the customer segments")
	assert.NotNil(t, segments.Cmd.Flags().Lookup("export"))
	assert.NotNil(t, segments.Cmd.Flags().Lookup("json"))
}

func TestRun(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	s := store.NewCatalogStore("", logging.NewMockLogger())
	catalog := store.DefaultCatalog()

	t.Run("prints catalog", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, segments.Run(s, catalog, &buf, "", false))

		out := buf.String()
		assert.Contains(t, out, "Champions (Campeões) #10b981")
		assert.Contains(t, out, "Lost (Perdidos) #1e293b")
		assert.Equal(t, 22, strings.Count(out, "\n"))
	})

	t.Run("prints JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, segments.Run(s, catalog, &buf, "", true))

		var infos []store.SegmentInfo
		require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
		require.Len(t, infos, 11)
		assert.Equal(t, "Champions", infos[0].Name)
		assert.Equal(t, "Lost", infos[10].Name)
	})

	t.Run("exports catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "segments.yaml")
		var buf bytes.Buffer
		require.NoError(t, segments.Run(s, catalog, &buf, path, false))

		assert.Contains(t, buf.String(), "✓ Catalog written to "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: Champions")
	})
}
