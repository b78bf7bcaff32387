package validation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

// ErrValidationFailed indicates one or more fields failed validation.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError represents a single field validation failure.
// Field is a path such as "keyDecisions[0].reasoning".
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every field failure of one record.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns ErrValidationFailed for errors.Is() compatibility.
func (e ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// Fields returns the offending field paths in the order they were reported.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Len returns the number of accumulated errors.
func (c *Collector) Len() int {
	return len(c.errors)
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// Err returns the accumulated errors as a ValidationErrors, or nil.
func (c *Collector) Err() error {
	if !c.HasErrors() {
		return nil
	}
	return ValidationErrors{Errors: c.errors}
}

// AsValidationErrors extracts field errors from err.
func AsValidationErrors(err error) ([]ValidationError, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve.Errors, true
	}
	return nil, false
}

// Missing reports a required field that is absent.
func Missing(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: "is required",
	}
}

// WrongType reports a present value of the wrong type.
func WrongType(field, want string, got any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("expected %s, received %s", want, describe(got)),
	}
}

// ValidateEnum returns an error if the value is not in the allowed list.
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateURL returns an error unless value is a well-formed absolute URL.
// Hierarchical schemes (http, https, ftp, ...) must also name a host.
func ValidateURL(field, value string) *ValidationError {
	invalid := &ValidationError{
		Field:   field,
		Message: "must be a valid absolute URL",
	}
	if strings.TrimSpace(value) != value || value == "" {
		return invalid
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() {
		return invalid
	}
	if u.Opaque == "" && u.Host == "" {
		return invalid
	}
	return nil
}

// ValidateNumber rejects NaN, and non-integers when integer is set.
func ValidateNumber(field string, value float64, integer bool) *ValidationError {
	if math.IsNaN(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be a number",
		}
	}
	if integer && (math.IsInf(value, 0) || value != math.Trunc(value)) {
		return &ValidationError{
			Field:   field,
			Message: "must be a whole number",
		}
	}
	return nil
}

// describe names the dynamic type of v for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
