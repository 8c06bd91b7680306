package taskwarrior

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolMissing means the task binary could not be found on PATH.
	ErrToolMissing = errors.New("taskwarrior binary not found")
	// ErrInitialization means the version probe or settings bootstrap failed.
	ErrInitialization = errors.New("taskwarrior initialization failed")
	// ErrTimeout means an external call ran past its deadline.
	ErrTimeout = errors.New("taskwarrior command timed out")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a lookup by id matched no task.
	ErrNotFound = errors.New("task not found")
)

// ValidationError rejects input before any external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ToolError is a non-zero exit of the task binary.
type ToolError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("taskwarrior command failed: exit code %d: %s", e.ExitCode, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
