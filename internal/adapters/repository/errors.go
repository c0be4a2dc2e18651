package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrUnknownField = errors.New("unknown player field")
	ErrStore        = errors.New("player store failure")
	ErrClosed       = errors.New("player store closed")
)

func unknownField(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
