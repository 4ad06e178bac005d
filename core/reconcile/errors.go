package reconcile

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried by reconciliation errors.
const (
	CodeAlreadyExist        = "already_exist"
	CodeAmountLimitExceeded = "amount_limit_exceeded"
	CodeObjectNotExist      = "object_not_exist"
	CodeInvalid             = "invalid"
)

var (
	// ErrUnknownEntity is returned when a registry lookup names an entity that was never declared.
	ErrUnknownEntity = errors.New("reconcile: unknown entity")
	// ErrUnknownField is returned when an entity spec has no nested field with the given name.
	ErrUnknownField = errors.New("reconcile: unknown nested field")
	// ErrNoUnitOfWork is returned when a write is attempted outside Atomic.
	ErrNoUnitOfWork = errors.New("reconcile: write outside of a unit of work")
)

// AmountLimitExceeded signals that a relation would hold more rows than allowed.
type AmountLimitExceeded struct {
	// Limit is the configured ceiling.
	Limit int
	// Detail is the human-readable message.
	Detail string
	// Field is the nested field that overflowed, if known.
	Field string
}

func (e *AmountLimitExceeded) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("amount limit exceeded (%d)", e.Limit)
}

// ObjectAlreadyExist signals a natural-key collision with divergent attributes.
type ObjectAlreadyExist struct {
	// Detail is the human-readable message.
	Detail string
	// Existing is the row already stored under the same natural key.
	Existing any
	// Attempted is the payload that collided.
	Attempted any
	// Field is the nested field the payload was submitted under, empty for top-level objects.
	Field string
	// Index is the position of the payload in its list, -1 outside lists.
	Index int
}

func (e *ObjectAlreadyExist) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "object already exists"
}

// NotFoundError signals a reference that does not resolve within scope.
// References by natural key set Key instead of ID.
type NotFoundError struct {
	Entity string
	ID     uint
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	}
	return fmt.Sprintf("%s with id=%d not found", e.Entity, e.ID)
}

// ValidationError signals a cross-field rule violated by the payload.
type ValidationError struct {
	Code   string
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Detail
	}
	return e.Detail
}

// NewAlreadyExist builds an ObjectAlreadyExist for a top-level object.
func NewAlreadyExist(detail string, existing, attempted any) *ObjectAlreadyExist {
	return &ObjectAlreadyExist{Detail: detail, Existing: existing, Attempted: attempted, Index: -1}
}

// Invalid builds a ValidationError.
func Invalid(code, field, detail string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Detail: detail}
}

// Code returns the machine-readable code for err, or an empty string
// when err is not a reconciliation error.
func Code(err error) string {
	var (
		limitErr    *AmountLimitExceeded
		existErr    *ObjectAlreadyExist
		notFoundErr *NotFoundError
		invalidErr  *ValidationError
	)
	switch {
	case errors.As(err, &limitErr):
		return CodeAmountLimitExceeded
	case errors.As(err, &existErr):
		return CodeAlreadyExist
	case errors.As(err, &notFoundErr):
		return CodeObjectNotExist
	case errors.As(err, &invalidErr):
		if invalidErr.Code != "" {
			return invalidErr.Code
		}
		return CodeInvalid
	}
	return ""
}

// Status maps err to an HTTP status code. Unknown errors map to 500.
func Status(err error) int {
	var (
		limitErr    *AmountLimitExceeded
		existErr    *ObjectAlreadyExist
		notFoundErr *NotFoundError
		invalidErr  *ValidationError
	)
	switch {
	case errors.As(err, &limitErr), errors.As(err, &existErr):
		return http.StatusConflict
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &invalidErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err is one of the reconciliation error kinds.
func IsClientError(err error) bool {
	return Code(err) != ""
}
