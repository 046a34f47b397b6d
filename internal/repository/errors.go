package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCorruptState is returned when a stored row exists but cannot be
	// decoded or fails validation.
	ErrCorruptState = errors.New("corrupt stored state")
)
