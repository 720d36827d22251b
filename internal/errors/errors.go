// Package errors is the project-wide error helper. It wraps cockroachdb/errors
// so that every wrapped error carries a stack trace while still working with
// the standard errors.Is / errors.As.
package errors

import (
	"github.com/cockroachdb/errors"
)

// New returns an error with a stack trace.
func New(msg string) error {
	return errors.New(msg)
}

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. It returns nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
