package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoEditor    = errors.New("no editor available (set $EDITOR)")
)
