// Package errors categorizes snapshot decode failures.
//
// Every failure the helper can hit while turning an input line into a snapshot
// belongs to one of three categories. The category name doubles as the phase
// field of the error row written back to the monitor, so the consumer always
// receives a well-formed row:
//
//	snap, err := snapshot.Decode(line)
//	if err != nil {
//	    row := engine.ErrorRow(errors.CategoryOf(err))
//	    ...
//	}
//
// Suggestions give the operator a hint about what upstream produced the bad line:
//
//	formatted := errors.FormatSuggestions(err)
//	// "  • Check that the status producer emits one JSON object per line"
package errors

import (
	"errors"
	"strings"
)

// Exported constants.
const (
	CategoryData       ErrorCategory = "DataError"
	CategoryJSON       ErrorCategory = "JSONError"
	CategoryUnexpected ErrorCategory = "Error"
)

// DecodeError is an error with a category and operator suggestions.
type DecodeError interface {
	error
	Category() ErrorCategory
	Suggestions() []string
	Unwrap() error
}

// ErrorCategory names a class of decode failure.
type ErrorCategory string

// CategoryOf returns the category of err, or CategoryUnexpected when err
// carries none.
func CategoryOf(err error) ErrorCategory {
	var decodeErr DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Category()
	}

	return CategoryUnexpected
}

// FormatSuggestions formats the suggestions of a DecodeError as a bulleted list.
// Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	var decodeErr DecodeError
	if !errors.As(err, &decodeErr) {
		return ""
	}

	suggestions := decodeErr.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// New wraps cause in a DecodeError of the given category.
func New(category ErrorCategory, cause error) DecodeError {
	return &decodeError{
		category:    category,
		cause:       cause,
		suggestions: NewSuggestionGenerator().Generate(category),
	}
}

// decodeError is the concrete implementation of DecodeError.
type decodeError struct {
	category    ErrorCategory
	cause       error
	suggestions []string
}

// Category returns the error category.
func (e *decodeError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *decodeError) Error() string {
	if e.cause == nil {
		return string(e.category)
	}

	return string(e.category) + ": " + e.cause.Error()
}

// Suggestions returns the list of operator suggestions.
func (e *decodeError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the underlying cause.
func (e *decodeError) Unwrap() error {
	return e.cause
}
