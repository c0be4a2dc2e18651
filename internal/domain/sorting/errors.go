package sorting

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for sort option errors.
var (
	ErrInvalidSortOption = errors.New("invalid sort option")
	ErrUnknownField      = errors.New("sort field is neither a stored attribute nor a derived metric")
	ErrEmptyKey          = errors.New("sort key is empty")
)

// InvalidSortOptionError reports an unknown key together with the keys that
// are currently registered.
type InvalidSortOptionError struct {
	Key   string
	Valid []string
}

func (e *InvalidSortOptionError) Error() string {
	return fmt.Sprintf("%s: %q (valid: %s)", ErrInvalidSortOption, e.Key, strings.Join(e.Valid, ", "))
}

// Unwrap exposes ErrInvalidSortOption to errors.Is.
func (e *InvalidSortOptionError) Unwrap() error { return ErrInvalidSortOption }
