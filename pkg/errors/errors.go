// Package errors provides custom error types for the modelmerge system.
// These errors enable programmatic error checking for callers of the
// reconciliation engine and of the file loaders that feed it.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the modelmerge system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates a record without a usable id
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousGroup indicates that more than one record landed in the
	// same slot of a duplicate group
	ErrAmbiguousGroup = errors.New("ambiguous duplicate group")

	// ErrLocked indicates that another process holds the output lock
	ErrLocked = errors.New("locked by another process")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, msg)
	}
	return fmt.Sprintf("configuration error: %s", msg)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MergeError represents an error during catalog merge operations
type MergeError struct {
	Source      string
	Target      string
	ConflictIDs []string
	Err         error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if len(e.ConflictIDs) > 0 {
		return fmt.Sprintf("merge conflict between %s and %s for IDs: %v", e.Source, e.Target, e.ConflictIDs)
	}
	return fmt.Sprintf("merge error between %s and %s: %v", e.Source, e.Target, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(source, target string, conflictIDs []string, err error) *MergeError {
	return &MergeError{
		Source:      source,
		Target:      target,
		ConflictIDs: conflictIDs,
		Err:         err,
	}
}

// AmbiguousGroupError reports a duplicate group whose slot holds more than
// one candidate record.
type AmbiguousGroupError struct {
	BaseID string
	Slot   string
	IDs    []string
}

// Error implements the error interface
func (e *AmbiguousGroupError) Error() string {
	return fmt.Sprintf("base ID %s has %d %s candidates: %s",
		e.BaseID, len(e.IDs), e.Slot, strings.Join(e.IDs, ", "))
}

// Is implements errors.Is support
func (e *AmbiguousGroupError) Is(target error) bool {
	return target == ErrAmbiguousGroup
}

// NewAmbiguousGroupError creates a new AmbiguousGroupError
func NewAmbiguousGroupError(baseID, slot string, ids []string) *AmbiguousGroupError {
	return &AmbiguousGroupError{BaseID: baseID, Slot: slot, IDs: ids}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAmbiguousGroup checks if an error reports an ambiguous duplicate group
func IsAmbiguousGroup(err error) bool {
	return errors.Is(err, ErrAmbiguousGroup)
}

// IsLocked checks if an error reports a held output lock
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
