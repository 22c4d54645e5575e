package mixer

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeInternal        ErrorType = "internal"
)

// MixerError represents unified errors from the synchronization engine
type MixerError struct {
	Type      ErrorType      `json:"type"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	TypeName  string         `json:"typeName,omitempty"`
	Attribute string         `json:"attribute,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *MixerError) Error() string {
	if e.TypeName != "" && e.Attribute != "" {
		return fmt.Sprintf("[%s:%s] %s.%s: %s", e.Type, e.Code, e.TypeName, e.Attribute, e.Message)
	}
	if e.TypeName != "" {
		return fmt.Sprintf("[%s:%s] type %s: %s", e.Type, e.Code, e.TypeName, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *MixerError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to a MixerError
func (e *MixerError) WithDetail(key string, value any) *MixerError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adds a cause to a MixerError
func (e *MixerError) WithCause(cause error) *MixerError {
	e.Cause = cause
	return e
}

// WithTypeName adds host-type context to a MixerError
func (e *MixerError) WithTypeName(name string) *MixerError {
	e.TypeName = name
	return e
}

// WithAttribute adds attribute context to a MixerError
func (e *MixerError) WithAttribute(name string) *MixerError {
	e.Attribute = name
	return e
}

// Error codes
const (
	// Query contract errors
	ErrCodeInvalidQuery   = "INVALID_QUERY"
	ErrCodeAmbiguousQuery = "AMBIGUOUS_QUERY"

	// Host object model errors
	ErrCodeTypeNotFound     = "TYPE_NOT_FOUND"
	ErrCodeModelInvalid     = "MODEL_INVALID"
	ErrCodeModelUnavailable = "MODEL_UNAVAILABLE"

	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewMixerError creates a new MixerError
func NewMixerError(errorType ErrorType, code, message string) *MixerError {
	return &MixerError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewInvalidQueryError creates an error for a query missing its type specification
func NewInvalidQueryError(message string) *MixerError {
	return &MixerError{
		Type:    ErrorTypeInvalidArgument,
		Code:    ErrCodeInvalidQuery,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewAmbiguousQueryError creates an error for a query with a double type specification
func NewAmbiguousQueryError(message string) *MixerError {
	return &MixerError{
		Type:    ErrorTypeInvalidArgument,
		Code:    ErrCodeAmbiguousQuery,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewTypeNotFoundError creates an error for an unresolvable host type name
func NewTypeNotFoundError(name string) *MixerError {
	return &MixerError{
		Type:     ErrorTypeNotFound,
		Code:     ErrCodeTypeNotFound,
		Message:  "type not found in host object model",
		TypeName: name,
		Details:  make(map[string]any),
	}
}

// NewModelInvalidError creates an error for a malformed object-model definition
func NewModelInvalidError(message string) *MixerError {
	return &MixerError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeModelInvalid,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewModelUnavailableError creates an error for a missing object-model source
func NewModelUnavailableError(message string) *MixerError {
	return &MixerError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeModelUnavailable,
		Message: message,
		Details: make(map[string]any),
	}
}
