package matio

import "errors"

var (
	// ErrWrite is returned when a matrix cannot be written out.
	ErrWrite = errors.New("matio: write failed")

	// ErrRead is returned when the underlying reader fails.
	ErrRead = errors.New("matio: read failed")

	// ErrFormat is returned when the input does not follow the matrix text
	// format.
	ErrFormat = errors.New("matio: malformed input")
)
