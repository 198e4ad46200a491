package schema

import (
	"fmt"
	"strings"
)

// CodeValidation is the machine-readable code carried by every *Error.
const CodeValidation = "validation_error"

// Reasons reported per offending field.
const (
	ReasonRequired        = "required"
	ReasonDenied          = "denied"
	ReasonForbidden       = "forbidden"
	ReasonNull            = "null"
	ReasonInvalidUUID     = "invalid_uuid"
	ReasonInvalidType     = "invalid_type"
	ReasonTooShort        = "too_short"
	ReasonTooLong         = "too_long"
	ReasonEmpty           = "empty"
	ReasonNotAllowed      = "not_allowed"
	ReasonNegative        = "negative"
	ReasonZero            = "zero"
	ReasonNotInteger      = "not_integer"
	ReasonTooSmall        = "too_small"
	ReasonTooLarge        = "too_large"
	ReasonInvalidDate     = "invalid_date"
	ReasonInvalidBoolean  = "invalid_boolean"
	ReasonUnknownOperator = "unknown_operator"
	ReasonInvalidOperand  = "invalid_operand"
	ReasonUnknown         = "unknown"
	ReasonTooManyKeys     = "too_many_keys"
	ReasonTooFewKeys      = "too_few_keys"
)

// FieldError names one offending field. Container-level violations leave Name empty.
type FieldError struct {
	In     string `json:"in"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Error aggregates every violation found while validating one request.
type Error struct {
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		name := f.In
		if f.Name != "" {
			name += "." + f.Name
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, f.Reason))
	}
	return e.Code + ": " + strings.Join(parts, ", ")
}

// Has reports whether name was rejected in any request part.
func (e *Error) Has(name string) bool {
	for _, f := range e.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Reason returns the first reason recorded for name.
func (e *Error) Reason(name string) string {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Reason
		}
	}
	return ""
}
