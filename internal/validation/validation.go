// Package validation checks user supplied input before it reaches the analysis pipeline.
package validation

import (
	"fmt"
	"os"
	"strings"

	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"
)

// ValidateMapping checks that the required columns (customer id, order date,
// order value) are set and, when headers is non-empty, that every mapped column
// exists in it. All problems are reported together in a *parsererror.ValidationError.
func ValidateMapping(mapping models.ColumnMapping, headers []string) error {
	var problems []string

	required := []struct {
		label  string
		column string
	}{
		{"customer id", mapping.CustomerID},
		{"order date", mapping.OrderDate},
		{"order value", mapping.OrderValue},
	}
	for _, r := range required {
		if strings.TrimSpace(r.column) == "" {
			problems = append(problems, fmt.Sprintf("%s column is required", r.label))
		}
	}

	if len(headers) > 0 {
		known := make(map[string]struct{}, len(headers))
		for _, h := range headers {
			known[h] = struct{}{}
		}
		mapped := []struct {
			label  string
			column string
		}{
			{"customer id", mapping.CustomerID},
			{"customer name", mapping.CustomerName},
			{"salesperson", mapping.Salesperson},
			{"order date", mapping.OrderDate},
			{"order value", mapping.OrderValue},
		}
		for _, m := range mapped {
			if strings.TrimSpace(m.column) == "" {
				continue
			}
			if _, ok := known[m.column]; !ok {
				problems = append(problems, fmt.Sprintf("%s column %q not found in file columns", m.label, m.column))
			}
		}
	}

	if len(problems) > 0 {
		return &parsererror.ValidationError{Subject: "column mapping", Problems: problems}
	}
	return nil
}

// IsValidPath checks if a given path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "json", "markdown":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'json', 'markdown'", format)
	}
}
