package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned when name, email, phone or location is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmailExists is returned when the normalized email already joined.
	ErrEmailExists = errors.New("email already registered")
)

// StorageError wraps a key-value store failure. Its detail is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failure of an outbound sheet export.
type ExternalServiceError struct {
	Sink string
	Err  error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Sink, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
