package common

import (
	"testing"

	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMapping(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected models.ColumnMapping
	}{
		{
			name:    "brazilian ERP export",
			headers: []string{"Codigo", "Razao Social", "Data Emissao", "Valor Bruto", "Vendedor"},
			expected: models.ColumnMapping{
				CustomerID:   "Codigo",
				CustomerName: "Razao Social",
				OrderDate:    "Data Emissao",
				OrderValue:   "Valor Bruto",
				Salesperson:  "Vendedor",
			},
		},
		{
			name:    "english headers",
			headers: []string{"customer_id", "customer_name", "order_date", "total"},
			expected: models.ColumnMapping{
				CustomerID:   "customer_id",
				CustomerName: "customer_name",
				OrderDate:    "order_date",
				OrderValue:   "total",
			},
		},
		{
			name:    "id column is not reused as the name",
			headers: []string{"cliente_id", "nome", "data", "valor", "vendedor"},
			expected: models.ColumnMapping{
				CustomerID:   "cliente_id",
				CustomerName: "nome",
				OrderDate:    "data",
				OrderValue:   "valor",
				Salesperson:  "vendedor",
			},
		},
		{
			name:     "nothing recognizable",
			headers:  []string{"foo", "bar"},
			expected: models.ColumnMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectMapping(tt.headers))
		})
	}
}

func TestResolveMapping(t *testing.T) {
	headers := []string{"customer_id", "nome", "data", "valor", "vendedor", "total_liquido"}

	t.Run("detected columns fill the gaps", func(t *testing.T) {
		mapping, err := ResolveMapping(headers, models.ColumnMapping{OrderValue: "total_liquido"})
		require.NoError(t, err)
		assert.Equal(t, models.ColumnMapping{
			CustomerID:   "customer_id",
			CustomerName: "nome",
			Salesperson:  "vendedor",
			OrderDate:    "data",
			OrderValue:   "total_liquido",
		}, mapping)
	})

	t.Run("explicit column missing from file", func(t *testing.T) {
		_, err := ResolveMapping(headers, models.ColumnMapping{OrderDate: "shipped_at"})
		require.Error(t, err)
		var verr *parsererror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{`order date column "shipped_at" not found in file columns`}, verr.Problems)
	})

	t.Run("nothing detectable", func(t *testing.T) {
		_, err := ResolveMapping([]string{"a", "b"}, models.ColumnMapping{})
		var verr *parsererror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Problems, 3)
	})
}
