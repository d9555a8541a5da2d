// Package response defines the error type that carries an HTTP status
// from the service layer up to the handlers. Domain packages declare
// their failures as package-level values of this type and return them
// unchanged, so errors.Is matches the same sentinel end to end and the
// error handler can answer with the embedded status code.
package response

import (
	"errors"
)

type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Is matches two response errors by status code and message, which is
// what keeps the package-level sentinels comparable after they crossed
// package boundaries as plain error values.
func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}
