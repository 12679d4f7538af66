// Package errs defines the failures raised while validating, parsing and
// persisting remote records.
//
// Every error kind matches [ErrAirtable] with [errors.Is], and additionally
// matches one conventional category ([ErrValue], [ErrKeyNotFound],
// [ErrRecursion] or [ErrType]) so callers can branch on either.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Root and category errors.
var (
	ErrAirtable    = errors.New("airtable error")
	ErrValue       = errors.New("invalid value")
	ErrKeyNotFound = errors.New("key not found")
	ErrRecursion   = errors.New("recursion error")
	ErrType        = errors.New("invalid type")
	// ErrNotFound is matched by every lookup failure against the remote service.
	ErrNotFound = errors.New("not found")
)

func is(target error, categories ...error) bool {
	if target == ErrAirtable {
		return true
	}
	for _, c := range categories {
		if target == c {
			return true
		}
	}
	return false
}

// ShapeValidationError reports that a candidate mapping does not conform to a shape.
type ShapeValidationError struct {
	Shape  string
	Issues Issues
}

func (e *ShapeValidationError) Error() string {
	n := len(e.Issues)
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%d validation %s for %s: %s", n, noun, e.Shape, e.Issues.Error())
}

func (e *ShapeValidationError) Is(target error) bool { return is(target, ErrValue) }

func (e *ShapeValidationError) Unwrap() error { return e.Issues }

// Missing returns the names of the required fields that were absent.
func (e *ShapeValidationError) Missing() []string {
	return e.Issues.WithCode(CodeRequired).Fields()
}

// NotASequenceError reports that a sequence of mappings was expected.
type NotASequenceError struct {
	Shape string
	Got   string
}

func (e *NotASequenceError) Error() string {
	return fmt.Sprintf("expected a sequence of %s, got %s", e.Shape, e.Got)
}

func (e *NotASequenceError) Is(target error) bool { return is(target, ErrType) }

// ForwardReferenceUnresolvedError reports a shape reference that has not been
// resolved, either because Finalize was not called yet or because the
// referenced name was never registered.
type ForwardReferenceUnresolvedError struct {
	Shape string
	Ref   string
}

func (e *ForwardReferenceUnresolvedError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("shape %s: forward references not resolved; call Finalize first", e.Shape)
	}
	return fmt.Sprintf("shape %s: unresolved reference to %q", e.Shape, e.Ref)
}

func (e *ForwardReferenceUnresolvedError) Is(target error) bool { return is(target, ErrRecursion) }

// ShapeNotFoundError reports a lookup of an unregistered shape or class.
type ShapeNotFoundError struct {
	Name string
}

func (e *ShapeNotFoundError) Error() string { return fmt.Sprintf("shape %q not found", e.Name) }

func (e *ShapeNotFoundError) Is(target error) bool { return is(target, ErrKeyNotFound) }

// ReadonlyFieldError reports an assignment to a field outside the writable allow-list.
type ReadonlyFieldError struct {
	Class string
	Field string
}

func (e *ReadonlyFieldError) Error() string {
	return fmt.Sprintf("%s.%s is read-only", e.Class, e.Field)
}

func (e *ReadonlyFieldError) Is(target error) bool { return is(target, ErrValue) }

// UnsavedRecordError reports an operation that requires a remote identity.
type UnsavedRecordError struct {
	Class string
	Op    string
	// Deleted is set when the object had an identity but was deleted.
	Deleted bool
}

func (e *UnsavedRecordError) Error() string {
	if e.Deleted {
		return fmt.Sprintf("%s: cannot %s a deleted object", e.Class, e.Op)
	}
	return fmt.Sprintf("%s: cannot %s an object without an id", e.Class, e.Op)
}

func (e *UnsavedRecordError) Is(target error) bool { return is(target, ErrValue) }

// MissingValueError reports a required single-valued relation with no value.
type MissingValueError struct {
	Field string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: required value is missing", e.Field)
}

func (e *MissingValueError) Is(target error) bool { return is(target, ErrValue) }

// MultipleValuesError reports a single-valued relation holding several values.
type MultipleValuesError struct {
	Field string
	Count int
}

func (e *MultipleValuesError) Error() string {
	return fmt.Sprintf("%s: expected a single value, got %d", e.Field, e.Count)
}

func (e *MultipleValuesError) Is(target error) bool { return is(target, ErrValue) }

// InvalidParameterError reports an invalid argument passed to an operation.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return is(target, ErrValue) }

// CircularFormulaError is raised when flattening nested conditions revisits a
// condition that is already on the path.
type CircularFormulaError struct {
	// Path lists the conditions from the outermost one to the repeated one.
	Path []string
}

func (e *CircularFormulaError) Error() string {
	if len(e.Path) == 0 {
		return "circular condition encountered"
	}
	return "circular condition encountered: " + strings.Join(e.Path, " -> ")
}

func (e *CircularFormulaError) Is(target error) bool { return is(target, ErrRecursion) }

// RecordNotFoundError reports that no record exists with the given id.
type RecordNotFoundError struct {
	ID string
}

func (e *RecordNotFoundError) Error() string { return fmt.Sprintf("record %q not found", e.ID) }

func (e *RecordNotFoundError) Is(target error) bool {
	return is(target, ErrKeyNotFound, ErrNotFound)
}

// UserNotFoundError reports that no user exists with the given id.
type UserNotFoundError struct {
	ID string
}

func (e *UserNotFoundError) Error() string { return fmt.Sprintf("user %q not found", e.ID) }

func (e *UserNotFoundError) Is(target error) bool {
	return is(target, ErrKeyNotFound, ErrNotFound)
}

// RemoteError is an error envelope returned by the remote service.
type RemoteError struct {
	Type    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote error " + e.Type
	}
	return fmt.Sprintf("remote error %s: %s", e.Type, e.Message)
}

func (e *RemoteError) Is(target error) bool { return is(target) }
