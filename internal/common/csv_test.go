package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("id;name;date", ','))
	assert.Equal(t, ',', DetectDelimiter("id,name,date", ','))
	assert.Equal(t, '|', DetectDelimiter("id|name|date", '|'))
	assert.Equal(t, ',', DetectDelimiter("id", 0))
}

func TestReadRawRows(t *testing.T) {
	logger := logging.NewMockLogger()

	tests := []struct {
		name          string
		content       string
		delimiter     rune
		wantDelimiter rune
		wantHeaders   []string
		wantRows      []models.RawRow
	}{
		{
			name:          "semicolon detected from header",
			content:       "id;nome;data;valor\n1;Ana;15/01/2024;\"1.234,56\"\n\n;;;\n2;Bia;2024-02-01;10\n",
			delimiter:     ',',
			wantDelimiter: ';',
			wantHeaders:   []string{"id", "nome", "data", "valor"},
			wantRows: []models.RawRow{
				{"id": "1", "nome": "Ana", "data": "15/01/2024", "valor": "1.234,56"},
				{"id": "2", "nome": "Bia", "data": "2024-02-01", "valor": "10"},
			},
		},
		{
			name:          "quoted headers with byte order mark",
			content:       "\ufeff\"id\",\"name\",\"date\",\"value\"\r\n\"1\",\"Ana\",2024-01-01,10\r\n3,Short\r\n",
			delimiter:     ',',
			wantDelimiter: ',',
			wantHeaders:   []string{"id", "name", "date", "value"},
			wantRows: []models.RawRow{
				{"id": "1", "name": "Ana", "date": "2024-01-01", "value": "10"},
				{"id": "3", "name": "Short", "date": "", "value": ""},
			},
		},
		{
			name:          "configured delimiter",
			content:       "\n\nid|date|value\n 7 | 2024-01-01 |5\n",
			delimiter:     '|',
			wantDelimiter: '|',
			wantHeaders:   []string{"id", "date", "value"},
			wantRows: []models.RawRow{
				{"id": "7", "date": "2024-01-01", "value": "5"},
			},
		},
		{
			name:          "header only",
			content:       "id,date,value",
			delimiter:     ',',
			wantDelimiter: ',',
			wantHeaders:   []string{"id", "date", "value"},
			wantRows:      []models.RawRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadRawRows(strings.NewReader(tt.content), "test.csv", tt.delimiter, logger)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDelimiter, table.Delimiter)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestReadRawRows_NoHeader(t *testing.T) {
	for _, content := range []string{"", "\n\n  \n"} {
		_, err := ReadRawRows(strings.NewReader(content), "empty.csv", ',', logging.NewMockLogger())
		require.Error(t, err)

		var formatErr *parsererror.InvalidFormatError
		assert.True(t, errors.As(err, &formatErr))
	}
}

func TestReadRawRowsFromFile(t *testing.T) {
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,date,value\nA,2024-01-01,1\n"), 0600))

	table, err := ReadRawRowsFromFile(path, ',', logger)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.True(t, logger.HasEntry("INFO", "Successfully read CSV data"))

	_, err = ReadRawRowsFromFile(filepath.Join(t.TempDir(), "missing.csv"), ',', logger)
	assert.Error(t, err)
}

func sampleRecords() []models.RFMRecord {
	return []models.RFMRecord{
		{
			CustomerID:       "C1",
			CustomerName:     "Ana, Ltda",
			Salesperson:      "Rep",
			Recency:          3,
			LastPurchaseDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Frequency:        4,
			Monetary:         decimal.RequireFromString("1234.5"),
			RScore:           5,
			FScore:           4,
			MScore:           5,
			RFMScore:         "545",
			Segment:          models.SegmentChampions,
		},
	}
}

func TestMarshalRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalRecords(sampleRecords(), &buf, ','))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "customer_id,customer_name,salesperson,recency,last_purchase_date,frequency,monetary,r_score,f_score,m_score,rfm_score,segment", lines[0])
	assert.Equal(t, `C1,"Ana, Ltda",Rep,3,2024-02-01,4,1234.50,5,4,5,545,Champions`, lines[1])
}

func TestWriteRecordsToCSV(t *testing.T) {
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "nested", "out_rfm.csv")

	require.NoError(t, WriteRecordsToCSV(sampleRecords(), path, ';', logger))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "customer_id;customer_name;"))

	assert.Error(t, WriteRecordsToCSV(nil, path, ',', logger))
}

func TestWriteAndReadSummaries(t *testing.T) {
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "segments.csv")
	summaries := []models.SegmentSummary{
		{Name: models.SegmentChampions, Count: 2, Percentage: 66.666666, AvgRecency: 1.5, AvgFrequency: 4, AvgMonetary: decimal.RequireFromString("100.126")},
		{Name: models.SegmentAtRisk, Count: 1, Percentage: 33.333333, AvgRecency: 90, AvgFrequency: 1, AvgMonetary: decimal.RequireFromString("5")},
	}

	require.NoError(t, WriteSummariesToCSV(summaries, path, ';', logger))

	read, err := ReadSummariesFromCSV(path, ';')
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, models.SegmentChampions, read[0].Name)
	assert.Equal(t, 2, read[0].Count)
	assert.InDelta(t, 66.67, read[0].Percentage, 1e-9)
	assert.True(t, decimal.RequireFromString("100.13").Equal(read[0].AvgMonetary))
	assert.Equal(t, models.SegmentAtRisk, read[1].Name)

	_, err = ReadSummariesFromCSV(filepath.Join(t.TempDir(), "missing.csv"), ',')
	assert.Error(t, err)
}
