package handler

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError maps field names to messages.
type ValidationError url.Values

func NewValidationError() ValidationError {
	return make(ValidationError)
}

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if msgs := e[field]; len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msgs[0]))
		}
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// Add records message for field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Has reports whether any message was recorded.
func (e ValidationError) Has() bool { return len(e) > 0 }

// OrNil returns e when it has messages and nil otherwise.
func (e ValidationError) OrNil() error {
	if e.Has() {
		return e
	}
	return nil
}

// ValidationErrorFrom builds a ValidationError from one message per field.
// It returns nil for an empty map.
func ValidationErrorFrom(fields map[string]string) error {
	e := NewValidationError()
	for field, msg := range fields {
		e.Add(field, msg)
	}
	return e.OrNil()
}
