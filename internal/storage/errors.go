package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no saved state exists yet.
	ErrNotFound = errors.New("storage not found")
	// ErrCorrupt means saved state exists but cannot be used. It is never
	// overwritten automatically.
	ErrCorrupt = errors.New("storage corrupt")
	// ErrIO wraps read and write failures.
	ErrIO = errors.New("storage i/o failure")
)

type CorruptError struct {
	Path   string
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s is corrupt: %s", e.Path, e.Reason)
}

func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
