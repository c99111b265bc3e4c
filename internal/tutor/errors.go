package tutor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned for requests that fail validation
	// before any provider call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCancelled is returned when the caller's context ends during
	// generation. It wraps the context error.
	ErrCancelled = errors.New("generation cancelled")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
