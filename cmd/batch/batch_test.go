package batch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	cmdbatch "vorp/rfm-csv/cmd/batch"
	"vorp/rfm-csv/internal/batch"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/ui"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `Codigo;Cliente;Data Emissao;Valor Total
1;Ana Lima;10/06/2024;1.200,00
2;Bruno Reis;01/03/2024;150,00
3;Casa Azul;28/06/2024;2.000,00
`

func newRunner(t *testing.T) (*batch.Analyzer, *ui.Renderer, *bytes.Buffer) {
	t.Helper()
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	logger := logging.NewMockLogger()
	engine := rfm.NewEngine(logger, dateutils.DateParser{DayFirst: true})
	var buf bytes.Buffer
	return batch.NewAnalyzer(engine, nil, report.NewGenerator(nil, logger), logger), ui.NewRenderer(&buf, nil), &buf
}

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", cmdbatch.Cmd.Use)
	assert.Contains(t, cmdbatch.Cmd.Short, "Batch analyze")
	assert.NotNil(t, cmdbatch.Cmd.RunE)
}

func TestBatchCommand_LongDescription(t *testing.T) {
	assert.Contains(t, cmdbatch.Cmd.Long, "input directory")
	assert.Contains(t, cmdbatch.Cmd.Long, "another directory")
	assert.Contains(t, cmdbatch.Cmd.Long, "Example")
}

func TestBatchCommand_Flags(t *testing.T) {
	for _, name := range []string{"format", "no-export", "insights", "quiet", "customer-id", "order-value"} {
		assert.NotNil(t, cmdbatch.Cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "q", cmdbatch.Cmd.Flags().Lookup("quiet").Shorthand)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.csv"), []byte(salesCSV), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("foo;bar\n1;2\n"), 0600))
	outDir := filepath.Join(dir, "out")

	analyzer, renderer, buf := newRunner(t)
	summary, err := cmdbatch.Run(context.Background(), analyzer, renderer, dir, batch.Options{
		OutputDir:    outDir,
		ReportFormat: report.FormatMarkdown,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)

	out := buf.String()
	assert.Contains(t, out, "✓ good.csv: 3 customers")
	assert.Contains(t, out, "✗ bad.csv: invalid column mapping for bad.csv")
	assert.Contains(t, out, "⚠ Processed 1 files, 1 failed")
	assert.FileExists(t, filepath.Join(outDir, "good_report.md"))
	assert.FileExists(t, filepath.Join(outDir, "good_rfm.csv"))
}

func TestRun_AllSucceed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(salesCSV), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.CSV"), []byte(salesCSV), 0600))

	analyzer, renderer, buf := newRunner(t)
	summary, err := cmdbatch.Run(context.Background(), analyzer, renderer, dir, batch.Options{
		OutputDir:   filepath.Join(dir, "out"),
		SkipExports: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Contains(t, buf.String(), "ℹ Processed 2 files")
}

func TestRun_EmptyDirectory(t *testing.T) {
	analyzer, renderer, buf := newRunner(t)

	summary, err := cmdbatch.Run(context.Background(), analyzer, renderer, t.TempDir(), batch.Options{})
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Equal(t, "⚠ No CSV files found\n", buf.String())
}

func TestRun_MissingDirectory(t *testing.T) {
	analyzer, renderer, buf := newRunner(t)

	_, err := cmdbatch.Run(context.Background(), analyzer, renderer, filepath.Join(t.TempDir(), "missing"), batch.Options{})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
