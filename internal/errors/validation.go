package errors

import (
	"fmt"
	"strings"
)

// ValidationError collects field-level problems. It is only ever seen
// wrapped in an InvalidArgument Error built by ValidationBuilder.
type ValidationError struct {
	// Fields maps field names to their validation error messages
	Fields map[string][]string `json:"fields"`
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(v.Fields))
	for field, errs := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(errs, ", ")))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// ValidationBuilder accumulates field errors. Build returns nil when
// nothing was recorded, otherwise an InvalidArgument error whose
// "validation_errors" meta holds the per-field messages.
type ValidationBuilder struct {
	fields map[string][]string
}

// NewValidationBuilder creates a new validation builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{fields: make(map[string][]string)}
}

// Field adds a validation error for a field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.fields[field] = append(vb.fields[field], message)
	return vb
}

// RequiredField adds a required field error
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField adds an invalid field error
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Field(field, "is invalid: "+reason)
}

// Build returns the error if there are validation errors, nil otherwise
func (vb *ValidationBuilder) Build() error {
	if len(vb.fields) == 0 {
		return nil
	}
	ve := &ValidationError{Fields: vb.fields}
	return InvalidArgument(ve.Error()).WithMeta("validation_errors", ve.Fields)
}

// ValidateRequired records a blank string
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange checks if a value is within a range
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Field(field, fmt.Sprintf("must be between %d and %d", minValue, maxValue))
	}
}

// ValidateEnum checks a value against the allowed set of a string enum
func ValidateEnum[T ~string](field string, value T, allowed []T, vb *ValidationBuilder) {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		if value == a {
			return
		}
		names[i] = string(a)
	}
	vb.Field(field, "must be one of: "+strings.Join(names, ", "))
}

// ValidateKey checks a value that becomes one segment of a storage key:
// present, at most maxLen bytes, and free of colons and whitespace.
func ValidateKey(field, value string, maxLen int, vb *ValidationBuilder) {
	switch {
	case value == "":
		vb.RequiredField(field)
	case len(value) > maxLen:
		vb.Field(field, fmt.Sprintf("must be no more than %d characters", maxLen))
	case strings.ContainsAny(value, ": \t\n"):
		vb.InvalidField(field, "must not contain colons or whitespace")
	}
}
