package paging

import (
	"errors"
	"fmt"
)

// ErrorCode represents different types of paging errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Input errors
	ErrCodeInvalidFrameCount
	ErrCodeInvalidReference
	ErrCodeUnknownPolicy

	// Replay errors
	ErrCodeInvalidStep

	// Codec errors
	ErrCodeTraceCorrupted
	ErrCodeUnsupportedCompression

	// Configuration errors
	ErrCodeInvalidConfig
)

// Sentinel errors for use with errors.Is. They match any PagingError
// carrying the same code.
var (
	ErrInvalidFrameCount = &PagingError{Code: ErrCodeInvalidFrameCount, Message: "invalid frame count"}
	ErrInvalidReference  = &PagingError{Code: ErrCodeInvalidReference, Message: "invalid page reference"}
	ErrUnknownPolicy     = &PagingError{Code: ErrCodeUnknownPolicy, Message: "unknown replacement policy"}
	ErrInvalidStep       = &PagingError{Code: ErrCodeInvalidStep, Message: "step out of range"}
	ErrTraceCorrupted    = &PagingError{Code: ErrCodeTraceCorrupted, Message: "trace data corrupted"}
)

// PagingError represents a paging simulation error with context
type PagingError struct {
	Code    ErrorCode
	Message string
	Op      string // Operation that failed
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *PagingError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *PagingError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a specific error code
func (e *PagingError) Is(target error) bool {
	if t, ok := target.(*PagingError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewPagingError creates a new paging error
func NewPagingError(code ErrorCode, op, message string, err error) *PagingError {
	return &PagingError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Helper functions for common errors

func errInvalidFrameCount(op string, frames int) *PagingError {
	return NewPagingError(
		ErrCodeInvalidFrameCount,
		op,
		fmt.Sprintf("frame count must be at least 1, got %d", frames),
		nil,
	)
}

func errInvalidReference(op string, index, page int) *PagingError {
	return NewPagingError(
		ErrCodeInvalidReference,
		op,
		fmt.Sprintf("reference %d at index %d is negative", page, index),
		nil,
	)
}

func errUnknownPolicy(op string, policy string) *PagingError {
	return NewPagingError(
		ErrCodeUnknownPolicy,
		op,
		fmt.Sprintf("unknown policy %q (must be fifo, lru, optimal, or clock)", policy),
		nil,
	)
}

func errInvalidStep(op string, step, length int) *PagingError {
	return NewPagingError(
		ErrCodeInvalidStep,
		op,
		fmt.Sprintf("step %d out of range [0, %d)", step, length),
		nil,
	)
}

func errTraceCorrupted(op string, err error) *PagingError {
	return NewPagingError(
		ErrCodeTraceCorrupted,
		op,
		"trace data corrupted",
		err,
	)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pe *PagingError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	var pe *PagingError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeUnknown
}
