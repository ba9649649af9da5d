// Package apperr carries the error taxonomy handlers translate into wire
// replies: validation, not-found, conflict, forbidden and internal. Services
// return these instead of raw store errors so the connection loop can answer
// without inspecting database details.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return New(KindForbidden, fmt.Sprintf(format, args...))
}

func Internalf(format string, args ...interface{}) *Error {
	return New(KindInternal, fmt.Sprintf(format, args...))
}

// KindOf reports the kind of err. Anything outside the taxonomy counts as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
