package models

import (
	"fmt"
	"strings"
)

// Severity grades a validation message.
type Severity string

const (
	SeverityError   Severity = "error"   // blocking, calculation must not run
	SeverityWarning Severity = "warning" // advisory, calculation proceeds
	SeverityInfo    Severity = "info"
)

// ValidationMessage is a field-tagged finding from input validation.
type ValidationMessage struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationError carries the blocking subset of validation messages.
// User-correctable conditions are returned as data, not panics; this error
// only surfaces when at least one message has SeverityError.
type ValidationError struct {
	Messages []ValidationMessage `json:"messages"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m.Severity == SeverityError {
			parts = append(parts, fmt.Sprintf("%s: %s", m.Field, m.Message))
		}
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// HasBlocking reports whether any message is a blocking error.
func HasBlocking(msgs []ValidationMessage) bool {
	for _, m := range msgs {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}
