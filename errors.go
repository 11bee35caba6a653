package console

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSchema     ErrorType = "schema"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes used across the console
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeRequiredField      = "REQUIRED_FIELD_MISSING"
	ErrCodeTypeMismatch       = "TYPE_MISMATCH"
	ErrCodeConversionFailed   = "CONVERSION_FAILED"
	ErrCodeInvalidEnumValue   = "INVALID_ENUM_VALUE"
	ErrCodeInvalidRelation    = "INVALID_RELATION"
	ErrCodeSchemaNotFound     = "SCHEMA_NOT_FOUND"
	ErrCodeSchemaInvalid      = "SCHEMA_INVALID"
	ErrCodeLabelFieldMissing  = "LABEL_FIELD_MISSING"
	ErrCodeDuplicateField     = "DUPLICATE_FIELD"
	ErrCodeRequestFailed      = "REQUEST_FAILED"
	ErrCodeResponseError      = "RESPONSE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ConsoleError is the unified structured error for console operations.
type ConsoleError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *ConsoleError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s:%s] field '%s': %s", e.Type, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// WithField adds field context to the error
func (e *ConsoleError) WithField(field string) *ConsoleError {
	e.Field = field
	return e
}

// WithCause adds a cause to the error
func (e *ConsoleError) WithCause(cause error) *ConsoleError {
	e.Cause = cause
	return e
}

// WithDetail adds a single detail to the error
func (e *ConsoleError) WithDetail(key string, value any) *ConsoleError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewConsoleError creates a new ConsoleError
func NewConsoleError(errorType ErrorType, code, message string) *ConsoleError {
	return &ConsoleError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewSchemaError creates a schema consistency error
func NewSchemaError(code, message string) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeSchema,
		Code:    code,
		Message: message,
	}
}

// NewSchemaNotFoundError creates a schema not found error
func NewSchemaNotFoundError(schemaName string) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeNotFound,
		Code:    ErrCodeSchemaNotFound,
		Message: fmt.Sprintf("schema '%s' not found", schemaName),
		Details: map[string]any{"schema_name": schemaName},
	}
}

// NewTransportError creates an error for a failed API call
func NewTransportError(message string, cause error) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeTransport,
		Code:    ErrCodeRequestFailed,
		Message: message,
		Cause:   cause,
	}
}

// NewResponseError creates an error from an API error envelope
func NewResponseError(message string) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeTransport,
		Code:    ErrCodeResponseError,
		Message: message,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *ConsoleError {
	return &ConsoleError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if ce, ok := err.(*ConsoleError); ok {
		return ce.Type == ErrorTypeValidation
	}
	if _, ok := err.(*ValidationErrors); ok {
		return true
	}
	return false
}

// IsSchemaError checks if an error is a schema consistency error
func IsSchemaError(err error) bool {
	if ce, ok := err.(*ConsoleError); ok {
		return ce.Type == ErrorTypeSchema
	}
	return false
}

// IsTransportError checks if an error is a transport/API error
func IsTransportError(err error) bool {
	if ce, ok := err.(*ConsoleError); ok {
		return ce.Type == ErrorTypeTransport
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	if ce, ok := err.(*ConsoleError); ok {
		return ce.Type == ErrorTypeNotFound
	}
	return false
}

// ValidationErrors represents multiple field-level validation errors, in
// field declaration order.
type ValidationErrors struct {
	Errors []*ConsoleError `json:"errors"`
}

// NewValidationErrors creates a new ValidationErrors instance
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]*ConsoleError, 0)}
}

// Error implements the error interface for ValidationErrors
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}
	return fmt.Sprintf("multiple validation errors: %d errors found", len(ve.Errors))
}

// Add adds a new error to the collection
func (ve *ValidationErrors) Add(err *ConsoleError) {
	ve.Errors = append(ve.Errors, err)
}

// HasErrors returns true if there are any errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ByField returns the first error recorded for the given field, or nil.
func (ve *ValidationErrors) ByField(field string) *ConsoleError {
	for _, err := range ve.Errors {
		if err.Field == field {
			return err
		}
	}
	return nil
}

// ToError returns the collection as an error if there are any errors, nil otherwise
func (ve *ValidationErrors) ToError() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}
