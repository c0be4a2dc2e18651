package similarity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for similarity errors. ErrInvalidStrategy, ErrInvalidLimit,
// ErrInvalidTarget and ErrDisabled are returned to callers as-is;
// ErrStrategyFailure never leaves the engine, it selects the fallback.
var (
	ErrInvalidStrategy = errors.New("invalid similarity strategy")
	ErrInvalidLimit    = errors.New("similarity limit must be positive")
	ErrInvalidTarget   = errors.New("similarity target is missing")
	ErrDisabled        = errors.New("similarity search is disabled")
	ErrStrategyFailure = errors.New("similarity strategy failed")
	ErrFallbackFailed  = errors.New("similarity fallback failed")
)

// InvalidStrategyError reports an unrecognised strategy name.
type InvalidStrategyError struct {
	Value string
	Valid []string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("%s: %q (valid: %s)", ErrInvalidStrategy, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap exposes ErrInvalidStrategy to errors.Is.
func (e *InvalidStrategyError) Unwrap() error { return ErrInvalidStrategy }

func failure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStrategyFailure, fmt.Sprintf(format, args...))
}
