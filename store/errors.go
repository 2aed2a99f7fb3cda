package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no post exists under the requested name.
	ErrNotFound = errors.New("store: post not found")

	// ErrInvalidName indicates a post name that is not a plain file name.
	ErrInvalidName = errors.New("store: invalid post name")
)

// WriteError wraps a failure to write one of a post's files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
