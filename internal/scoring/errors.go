package scoring

import "fmt"

// ValidationError reports the first offending field in an indicator payload.
// It is always caller-fixable and never retried internally.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid indicators: field %q %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is missing"}
}

func outOfRange(field string, v float64) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("is out of range: %g not in [0,100]", v)}
}
