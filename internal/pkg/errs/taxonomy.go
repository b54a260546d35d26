package errs

import (
	"fmt"
	"sort"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Business error kinds. Every error surfaced by the use case layer matches
// exactly one of them through Is; anything else is treated as unexpected.
var (
	ErrValidation = New("validation failed")
	ErrCapacity   = New("insufficient capacity")
	ErrState      = New("operation not allowed in current state")
	ErrNotFound   = New("entity not found")
	ErrPayment    = New("payment declined")
	ErrForbidden  = New("operation forbidden for caller")
)

// ValidationError carries field-keyed messages.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Validation builds a single-field validation error.
func Validation(field, msg string) error {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

// Add keeps the first message recorded for a field.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) PublicMessage() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	return "The given data was invalid"
}

// CapacityError reports a reservation that does not fit the remaining spots.
type CapacityError struct {
	Requested int
	Remaining int
}

func Capacity(requested, remaining int) error {
	return &CapacityError{Requested: requested, Remaining: remaining}
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: requested %d, remaining %d", e.Requested, e.Remaining)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

func (e *CapacityError) PublicMessage() string {
	return fmt.Sprintf("Only %d spots available, %d requested", e.Remaining, e.Requested)
}

func Statef(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrState)
}

func NotFoundf(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

func Forbiddenf(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrForbidden)
}

func Paymentf(format string, args ...any) error {
	return Mark(Newf(format, args...), ErrPayment)
}

type publicMessager interface {
	PublicMessage() string
}

// Message returns the text that is safe to show to the caller: the first
// PublicMessage found on the chain, otherwise the innermost cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pm publicMessager
	if cr.As(err, &pm) {
		return pm.PublicMessage()
	}
	return cr.UnwrapAll(err).Error()
}
