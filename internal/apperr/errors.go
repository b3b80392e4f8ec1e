// Package apperr defines the error kinds returned by the domain services and
// their translation to HTTP errors.
package apperr

import (
	"errors"
	"fmt"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindNotFound
	KindConflict
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidRequest(format string, args ...any) *Error {
	return newf(KindInvalidRequest, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

// KindOf reports the kind of err. Store-level errors translated by gorm are
// classified as well, so a unique index violation is a conflict.
func KindOf(err error) Kind {
	var appErr *Error
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &appErr):
		return appErr.Kind
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return KindInvalidRequest
	default:
		return KindInternal
	}
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromStore wraps a persistence error into the taxonomy, keeping messages
// for the kinds that can reach a client.
func FromStore(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch KindOf(err) {
	case KindNotFound:
		return &Error{Kind: KindNotFound, Message: what + " not found", Err: err}
	case KindConflict:
		return &Error{Kind: KindConflict, Message: what + " already exists", Err: err}
	case KindInvalidRequest:
		return &Error{Kind: KindInvalidRequest, Message: what + " is still referenced", Err: err}
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// ToHTTP converts a service error into a huma status error. Internal errors
// are logged and replaced with a generic message.
func ToHTTP(err error) error {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	msg := kind.String()
	var appErr *Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch kind {
	case KindInvalidRequest:
		return huma.Error400BadRequest(msg)
	case KindNotFound:
		return huma.Error404NotFound(msg)
	case KindConflict:
		return huma.Error409Conflict(msg)
	case KindForbidden:
		return huma.Error403Forbidden(msg)
	default:
		log.Printf("Internal error: %v", err)
		return huma.Error500InternalServerError("internal server error")
	}
}
