package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrPointNotFound        = errors.New("point not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidItemReference = errors.New("invalid item reference")
	ErrStorageFailure       = errors.New("storage failure")
	ErrDatabaseError        = errors.New("database error")
)

// FieldError is the per-field detail reported back to the caller.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Set replaces every error recorded for field with message.
func (e *ValidationError) Set(field, message string) {
	kept := e.Fields[:0]
	for _, f := range e.Fields {
		if f.Field != field {
			kept = append(kept, f)
		}
	}
	e.Fields = append(kept, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ItemReferenceError lists item ids that do not exist in the catalog.
type ItemReferenceError struct {
	Missing []int64
}

func (e *ItemReferenceError) Error() string {
	if len(e.Missing) == 0 {
		return "unknown item reference"
	}
	ids := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return fmt.Sprintf("unknown item ids: %s", strings.Join(ids, ","))
}

func (e *ItemReferenceError) Unwrap() error { return ErrInvalidItemReference }

func (e *ItemReferenceError) FieldErrors() []FieldError {
	return []FieldError{{Field: "items", Message: e.Error()}}
}
