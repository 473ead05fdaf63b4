package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no route matches a path or name.
	ErrNotFound = errors.New("router: no route matches")

	// ErrInvalidPath is returned for paths that fail canonicalization.
	ErrInvalidPath = errors.New("router: invalid navigation path")

	// ErrLoadFailed matches every *LoadError.
	ErrLoadFailed = errors.New("router: view failed to load")

	// Construction errors.
	ErrDuplicatePath = errors.New("router: duplicate route path")
	ErrDuplicateName = errors.New("router: duplicate route name")
	ErrInvalidRoute  = errors.New("router: invalid route")
	ErrInvalidBase   = errors.New("router: invalid base path")
)

// LoadError reports a failed lazy load.
type LoadError struct {
	Route string
	Chunk string
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Chunk != "" {
		return fmt.Sprintf("router: loading route %q (chunk %q): %v", e.Route, e.Chunk, e.Err)
	}
	return fmt.Sprintf("router: loading route %q: %v", e.Route, e.Err)
}

// Unwrap returns the loader's error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLoadFailed) true for every LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}
