package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrTypeStoreUnavailable ErrorType = "store_unavailable"
	ErrTypeIntrospection    ErrorType = "introspection"
	ErrTypeExecution        ErrorType = "execution"
	ErrTypeAgent            ErrorType = "agent"
	ErrTypeAgentTimeout     ErrorType = "agent_timeout"
	ErrTypeValidation       ErrorType = "validation"
	ErrTypeConfig           ErrorType = "config"
	ErrTypeFileSystem       ErrorType = "filesystem"
	ErrTypeInternal         ErrorType = "internal"
)

// Error represents a structured error with type and optional suggestions
type Error struct {
	Type        ErrorType
	Message     string
	Cause       error
	Suggestions []string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a suggestion for resolving the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// New creates a new structured error
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new structured error with formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var structErr *Error
	if errors.As(err, &structErr) {
		return structErr.Type == errType
	}

	return false
}

// GetType returns the error type if it's a structured error
func GetType(err error) ErrorType {
	var structErr *Error
	if errors.As(err, &structErr) {
		return structErr.Type
	}

	return ErrTypeInternal
}

// GetSuggestions returns the suggestions attached to a structured error,
// or nil for plain errors
func GetSuggestions(err error) []string {
	var structErr *Error
	if errors.As(err, &structErr) {
		return structErr.Suggestions
	}

	return nil
}

// GetMessage returns the user-facing message of a structured error without
// the type prefix and cause chain, or Error() for plain errors
func GetMessage(err error) string {
	var structErr *Error
	if errors.As(err, &structErr) {
		return structErr.Message
	}

	return err.Error()
}

// NewStoreUnavailable creates a connection-level store error. Callers surface
// its message before any prompt is built.
func NewStoreUnavailable(cause error) *Error {
	return Wrap(cause, ErrTypeStoreUnavailable,
		"Database connection failed. Please check that the database exists and is properly initialized.").
		WithSuggestion("Run 'askdb seed' to create and populate the database").
		WithSuggestion("Check the database path in your configuration (ASKDB_DATABASE_PATH)")
}

// NewAgentError wraps a model-call failure with the standard troubleshooting
// suggestions shown to end users.
func NewAgentError(errType ErrorType, cause error, message string) *Error {
	return Wrap(cause, errType, message).
		WithSuggestion("Try rephrasing your question with more specific details").
		WithSuggestion("Check if you're referring to tables or columns that exist in the database").
		WithSuggestion("If asking about specific values, double-check spellings and formatting").
		WithSuggestion("For complex questions, try breaking them down into simpler parts")
}

// NewConfigError creates a configuration error with suggestions
func NewConfigError(message, field string) *Error {
	err := New(ErrTypeConfig, message)
	if field != "" {
		err.Message = fmt.Sprintf("%s (field: %s)", message, field)
	}

	return err.
		WithSuggestion("Check your configuration file syntax").
		WithSuggestion("Run with --help to see valid configuration options")
}
