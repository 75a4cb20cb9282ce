package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents an error while reading an input source
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: failed to parse input: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a violated precondition on a column mapping or
// other user supplied input. Problems lists every issue found, not only the first.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, strings.Join(e.Problems, "; "))
}

// InsightsError represents a failure of the AI narrative backend
type InsightsError struct {
	Model string
	Err   error
}

func (e *InsightsError) Error() string {
	return fmt.Sprintf("insight generation failed using %s: %v", e.Model, e.Err)
}

func (e *InsightsError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not look like the
// expected format at all (no header, unsupported extension).
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
