package domain

import "fmt"

const ReasonMissing = "missing"

// ValidationError marks a request that cannot be processed as given.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Missing() bool {
	return e.Reason == ReasonMissing
}

// DatabaseError wraps a failed query execution or connection acquisition.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// ExportError wraps a spreadsheet generation failure.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
