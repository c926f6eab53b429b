package billing

import "fmt"

// Merge precondition identifiers. Every MergeError names the precondition
// it violated so callers can surface a precise message.
const (
	MergeMinTwoRequired = "min-two-required"
	MergeSourceNotFound = "source-not-found"
)

// ValidationError reports a malformed rate configuration or attendance
// field. Field always names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MergeError reports a violated merge precondition.
type MergeError struct {
	Precondition string
	Detail       string
}

func (e *MergeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("merge precondition violated: %s", e.Precondition)
	}
	return fmt.Sprintf("merge precondition violated: %s (%s)", e.Precondition, e.Detail)
}
