package common

import (
	"regexp"

	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/validation"
)

// Column name patterns, matched case-insensitively anywhere in a header.
// Portuguese and English spellings are both recognized.
var (
	customerIDPattern   = regexp.MustCompile(`(?i)id|customer_id|cliente_id|codigo`)
	customerNamePattern = regexp.MustCompile(`(?i)name|nome|contato|razao|cliente`)
	orderDatePattern    = regexp.MustCompile(`(?i)date|data|emissao`)
	orderValuePattern   = regexp.MustCompile(`(?i)value|valor|total|amount|bruto`)
	salespersonPattern  = regexp.MustCompile(`(?i)vendedor|salesperson|seller|rep`)
)

// DetectMapping suggests a column mapping from a header list. Each field takes
// the first header matching its pattern; a header claimed by one field is not
// offered to the fields detected after it. Fields without a match stay empty.
func DetectMapping(headers []string) models.ColumnMapping {
	taken := make(map[string]bool, len(headers))
	find := func(pattern *regexp.Regexp) string {
		for _, h := range headers {
			if taken[h] {
				continue
			}
			if pattern.MatchString(h) {
				taken[h] = true
				return h
			}
		}
		return ""
	}

	var m models.ColumnMapping
	m.CustomerID = find(customerIDPattern)
	m.OrderDate = find(orderDatePattern)
	m.OrderValue = find(orderValuePattern)
	m.Salesperson = find(salespersonPattern)
	m.CustomerName = find(customerNamePattern)
	return m
}

// ResolveMapping completes explicit with the columns detected from headers and
// validates the outcome against headers. Explicit fields always win.
func ResolveMapping(headers []string, explicit models.ColumnMapping) (models.ColumnMapping, error) {
	mapping := explicit.Merge(DetectMapping(headers))
	if err := validation.ValidateMapping(mapping, headers); err != nil {
		return mapping, err
	}
	return mapping, nil
}
