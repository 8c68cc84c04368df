package domain

import "fmt"

// InsufficientHistoryError indicates fewer historical periods than a
// computation needs. Callers recover locally (default growth assumption).
type InsufficientHistoryError struct {
	Need int
	Have int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: need %d periods, have %d", e.Need, e.Have)
}

// MissingDataError indicates a required historical series is absent for a
// specific valuation model. The model's run fails independently; sibling
// models continue.
type MissingDataError struct {
	Model string
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s: missing required data: %s", e.Model, e.Field)
}

// Suggestion returns a remediation hint surfaced in structured failures.
func (e *MissingDataError) Suggestion() string {
	return fmt.Sprintf("supply %s in the historical statement records", e.Field)
}

// ComputationError indicates a numeric failure (division by zero and the
// like) that could not be absorbed by a safe-divide default.
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed in %s: %s", e.Op, e.Reason)
}
