package executor

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes execution errors.
type ErrorCode string

const (
	// ErrCodeQueryFailed indicates the SQL statement was rejected or failed
	// while running.
	ErrCodeQueryFailed ErrorCode = "QUERY_EXECUTION_FAILED"

	// ErrCodeLoadFailed indicates the dataset could not be loaded into the
	// engine.
	ErrCodeLoadFailed ErrorCode = "DATASET_LOAD_FAILED"
)

// ExecutionError reports a failure of the execution collaborator. It is
// distinct from anything the translation and encoding stages produce,
// which never fail.
type ExecutionError struct {
	Code    ErrorCode
	Message string

	// SQL is the statement that failed, when there was one.
	SQL string

	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying driver error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsExecutionFailed reports whether err is a query execution failure.
// Uses errors.As to handle wrapped errors.
func IsExecutionFailed(err error) bool {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeQueryFailed
	}
	return false
}

// IsLoadFailed reports whether err is a dataset load failure.
func IsLoadFailed(err error) bool {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeLoadFailed
	}
	return false
}
