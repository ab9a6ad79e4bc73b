// Package apperr provides the typed errors used throughout the application
// and their mapping to HTTP status codes. Handlers and services return
// these instead of framework errors so the taxonomy stays transport-free;
// a single fiber error handler translates them at the boundary.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an Error for status mapping and errors.Is checks.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindInvalidState
	KindConflict
	KindInternal
)

// Sentinel errors, one per kind, usable with errors.Is.
var (
	ErrValidation   = &Error{kind: KindValidation, Message: "validation failed"}
	ErrForbidden    = &Error{kind: KindForbidden, Message: "forbidden"}
	ErrNotFound     = &Error{kind: KindNotFound, Message: "not found"}
	ErrInvalidState = &Error{kind: KindInvalidState, Message: "invalid state"}
	ErrConflict     = &Error{kind: KindConflict, Message: "conflict"}
	ErrInternal     = &Error{kind: KindInternal, Message: "internal error"}
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so
// errors.Is(err, apperr.ErrNotFound) works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.kind {
	case KindValidation, KindInvalidState:
		return fiber.StatusBadRequest
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string) *Error   { return &Error{kind: KindValidation, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{kind: KindNotFound, Message: msg} }
func InvalidState(msg string) *Error { return &Error{kind: KindInvalidState, Message: msg} }
func Conflict(msg string) *Error     { return &Error{kind: KindConflict, Message: msg} }

// Internal wraps a storage or infrastructure failure.
func Internal(msg string, cause error) *Error {
	return &Error{kind: KindInternal, Message: msg, cause: cause}
}

// Handler is the fiber error handler translating typed errors into the
// response envelope. Unrecognized errors become opaque 500s.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status()).JSON(fiber.Map{
			"success": false,
			"error":   appErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiberErr.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "internal server error",
	})
}
