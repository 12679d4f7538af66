package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekit/airtable.go/pkg/errs"
)

func TestCategories(t *testing.T) {
	testcases := []struct {
		name     string
		err      error
		category error
		others   []error
	}{
		{"shape validation", &errs.ShapeValidationError{Shape: "X"}, errs.ErrValue, []error{errs.ErrKeyNotFound}},
		{"not a sequence", &errs.NotASequenceError{Shape: "X", Got: "map"}, errs.ErrType, []error{errs.ErrValue}},
		{"forward reference", &errs.ForwardReferenceUnresolvedError{Shape: "X"}, errs.ErrRecursion, []error{errs.ErrValue}},
		{"shape not found", &errs.ShapeNotFoundError{Name: "X"}, errs.ErrKeyNotFound, []error{errs.ErrNotFound}},
		{"readonly", &errs.ReadonlyFieldError{Class: "Comment", Field: "id"}, errs.ErrValue, nil},
		{"unsaved", &errs.UnsavedRecordError{Class: "Comment", Op: "save"}, errs.ErrValue, nil},
		{"missing", &errs.MissingValueError{Field: "Owner"}, errs.ErrValue, nil},
		{"multiple", &errs.MultipleValuesError{Field: "Owner", Count: 2}, errs.ErrValue, nil},
		{"invalid parameter", &errs.InvalidParameterError{Name: "mode"}, errs.ErrValue, nil},
		{"circular formula", &errs.CircularFormulaError{Path: []string{"a", "b", "a"}}, errs.ErrRecursion, []error{errs.ErrValue}},
		{"record not found", &errs.RecordNotFoundError{ID: "rec1"}, errs.ErrKeyNotFound, []error{errs.ErrValue}},
		{"user not found", &errs.UserNotFoundError{ID: "usr1"}, errs.ErrNotFound, []error{errs.ErrRecursion}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, errs.ErrAirtable)
			assert.ErrorIs(t, tc.err, tc.category)
			for _, other := range tc.others {
				assert.NotErrorIs(t, tc.err, other)
			}

			wrapped := fmt.Errorf("wrapped: %w", tc.err)
			assert.ErrorIs(t, wrapped, errs.ErrAirtable)
			assert.ErrorIs(t, wrapped, tc.category)
		})
	}
}

func TestRemoteErrorIsRootOnly(t *testing.T) {
	err := &errs.RemoteError{Type: "INVALID_PERMISSIONS", Message: "nope"}
	assert.ErrorIs(t, err, errs.ErrAirtable)
	assert.NotErrorIs(t, err, errs.ErrValue)
	assert.Equal(t, "remote error INVALID_PERMISSIONS: nope", err.Error())
}

func TestShapeValidationError(t *testing.T) {
	err := &errs.ShapeValidationError{
		Shape: "RecordEnvelope",
		Issues: errs.Issues{
			{Path: "/id", Field: "id", Code: errs.CodeRequired, Message: "field required"},
			{Path: "/createdTime", Field: "createdTime", Code: errs.CodeRequired, Message: "field required"},
			{Path: "/fields", Field: "fields", Code: errs.CodeInvalidType, Message: "expected object"},
		},
	}

	assert.Equal(t, []string{"id", "createdTime"}, err.Missing())
	assert.Contains(t, err.Error(), "3 validation errors for RecordEnvelope")
	assert.Contains(t, err.Error(), "required at /id")

	iss, ok := errs.AsIssues(fmt.Errorf("ctx: %w", err))
	require.True(t, ok)
	assert.Len(t, iss, 3)

	var sve *errs.ShapeValidationError
	require.True(t, errors.As(fmt.Errorf("ctx: %w", err), &sve))
	assert.Equal(t, "RecordEnvelope", sve.Shape)
}

func TestIssuesPrefixAndSummary(t *testing.T) {
	iss := errs.Issues{
		{Path: "/id", Field: "id", Code: errs.CodeRequired},
		{Path: "/a", Field: "a", Code: errs.CodeInvalidType},
		{Path: "/b", Field: "b", Code: errs.CodeInvalidType},
		{Path: "/c", Field: "c", Code: errs.CodeUnknownKey},
	}

	prefixed := iss.Prefix("2")
	assert.Equal(t, "/2/id", prefixed[0].Path)
	assert.Equal(t, "/id", iss[0].Path, "prefix must not mutate the receiver")
	assert.Contains(t, iss.Error(), "(total 4)")
	assert.Equal(t, "/a~1b/c~0d", errs.JoinPointer("/a~1b", "c~d"))
}
