package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Thin facade over cockroachdb/errors so the rest of the codebase never
// imports it directly.

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr so errors.Is(err, markErr) holds without changing the
// message chain.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
