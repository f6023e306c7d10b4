package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for storage failures.
var (
	// ErrStorageRead indicates the backend could not be read.
	ErrStorageRead = errors.New("storage read failed")

	// ErrStorageCorrupt indicates the persisted payload is not a JSON list of records.
	ErrStorageCorrupt = errors.New("storage payload corrupt")

	// ErrStorageWrite indicates the backend rejected a write.
	ErrStorageWrite = errors.New("storage write failed")
)

// Error describes a failed store operation.
type Error struct {
	// Kind is one of ErrStorageRead, ErrStorageCorrupt, ErrStorageWrite.
	Kind error

	// Key is the storage key involved.
	Key string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (key=%s): %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%v (key=%s)", e.Kind, e.Key)
}

// Unwrap returns both the kind and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
