package domain

import (
	"errors"
	"fmt"
)

// Reasons a type name can fail to resolve
var (
	ErrMalformedName    = errors.New("malformed type name")
	ErrUnknownNamespace = errors.New("namespace not found")
	ErrUnknownType      = errors.New("type not found in namespace")
)

// UnsupportedFormatError is returned when a file with an unrecognized
// extension is loaded directly
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("could not load fixture %q: unsupported file format", e.Path)
}

// ParseError is returned when a fixture file body is malformed for its format
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s fixture %q: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeResolutionError is returned when a model name has no registered constructor
type TypeResolutionError struct {
	Path   string
	Model  string
	Reason error
}

func (e *TypeResolutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot resolve model %q: %v", e.Model, e.Reason)
	}
	return fmt.Sprintf("fixture %q: cannot resolve model %q: %v", e.Path, e.Model, e.Reason)
}

func (e *TypeResolutionError) Unwrap() error { return e.Reason }

// UnknownFieldError is returned by constructors for a field the target type
// does not declare
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// RecordConstructionError is returned when a record cannot be turned into an
// instance of its model
type RecordConstructionError struct {
	Path  string
	Model string
	Group int
	Index int
	// Field is set when the failure is tied to a single field
	Field string
	Err   error
}

func (e *RecordConstructionError) Error() string {
	msg := fmt.Sprintf("fixture %q: group %d (%s) record %d", e.Path, e.Group, e.Model, e.Index)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *RecordConstructionError) Unwrap() error { return e.Err }

// PersistenceCommitError is returned when the sink fails to persist a file
type PersistenceCommitError struct {
	Path string
	Err  error
}

func (e *PersistenceCommitError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to commit fixtures: %v", e.Err)
	}
	return fmt.Sprintf("failed to commit fixture %q: %v", e.Path, e.Err)
}

func (e *PersistenceCommitError) Unwrap() error { return e.Err }

// OrderFileError is returned when an entry of a sidecar order file cannot
// be loaded from its directory
type OrderFileError struct {
	Path   string
	Line   int
	Entry  string
	Reason string
}

func (e *OrderFileError) Error() string {
	return fmt.Sprintf("order file %q line %d: %q %s", e.Path, e.Line, e.Entry, e.Reason)
}
