package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrSeed               = errors.New("seed players failed")
	ErrInvalidPage        = errors.New("page must be positive")
	ErrInvalidLimit       = errors.New("limit must be positive")
	ErrSortOptionNotFound = errors.New("sort option not found")
)
