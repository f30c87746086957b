package uniq

import (
	"fmt"
)

// ConfigError represents an error in configuration parameters
type ConfigError struct {
	// Field is the name of the configuration field that's invalid
	Field string
	// Value is the invalid value provided
	Value interface{}
	// Reason explains why the value is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}

// ReadError represents a failure reading from a LineSource
type ReadError struct {
	// Line is the 1-based number of the line that could not be read
	Line uint64
	// Err is the underlying I/O error
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError represents a failure writing an output record
type WriteError struct {
	// Record is the 1-based number of the record that could not be written,
	// or 0 for the final line terminator
	Record uint64
	// Err is the underlying I/O error
	Err error
}

func (e *WriteError) Error() string {
	if e.Record == 0 {
		return fmt.Sprintf("write error on final terminator: %v", e.Err)
	}
	return fmt.Sprintf("write error at record %d: %v", e.Record, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewIOError wraps an error from opening or closing a stream
func NewIOError(err error, operation, path string) error {
	if path != "" {
		return fmt.Errorf("%s %s: %w", operation, path, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
