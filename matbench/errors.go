// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownAlgorithm is returned for algorithm identifiers that are not recognized.
	ErrUnknownAlgorithm = errors.New("invalid algorithm selection")

	// ErrInvalidSize is returned when the matrix size is not positive.
	ErrInvalidSize = errors.New("matrix size must be greater than 0")

	// ErrInvalidThreadCount is returned when the thread count is not positive.
	ErrInvalidThreadCount = errors.New("thread count must be greater than 0")

	// ErrRuntimeFault wraps unexpected failures (panics) during generation or multiplication.
	ErrRuntimeFault = errors.New("runtime fault")
)

// ValidationError reports a request rejected before any work is done.
type ValidationError struct {
	Field string
	Value int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the size and thread count of a request.
// It returns a *ValidationError for the first offending field.
func Validate(size, threadCount int) error {
	if size <= 0 {
		return &ValidationError{Field: "size", Value: size, Err: ErrInvalidSize}
	}
	if threadCount <= 0 {
		return &ValidationError{Field: "threadCount", Value: threadCount, Err: ErrInvalidThreadCount}
	}
	return nil
}

// IsValidationError reports whether err (or anything it wraps) is a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// FaultError converts a recovered panic value into an error wrapping ErrRuntimeFault.
func FaultError(r any) error {
	if err, ok := r.(error); ok {
		return errors.Wrapf(ErrRuntimeFault, "%v", err)
	}
	return errors.Wrapf(ErrRuntimeFault, "%v", r)
}
