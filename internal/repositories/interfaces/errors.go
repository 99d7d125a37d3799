package interfaces

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the record changed between read and write.
	ErrConflict = errors.New("record modified concurrently")
	ErrExists   = errors.New("record already exists")
)
