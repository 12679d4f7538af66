package models_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekit/airtable.go/internal/mock"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/models"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

const tasks = "appTest/tblTasks"

func taskClass(t *testing.T) *models.Class {
	t.Helper()
	c := models.NewCatalog()
	cls := c.MustDeclare("Task",
		models.TableLayout(),
		models.Creatable(),
		models.Fields(
			shapes.Optional("Name", shapes.String()),
			shapes.Optional("Notes", shapes.Nullable(shapes.String())),
			shapes.Optional("Done", shapes.Bool()),
			shapes.Optional("Owner", shapes.Ref(shapes.Collaborator)),
			shapes.Optional("Summary", shapes.String()),
		),
		models.Writable("Name", "Notes", "Done", "Owner"),
	)
	require.NoError(t, c.Finalize())
	return cls
}

func seededTask(t *testing.T, tr *mock.Transport) *models.Mutable {
	t.Helper()
	raw := map[string]any{
		"id":          "recTask00000001",
		"createdTime": "2023-01-01T00:00:00.000Z",
		"fields": map[string]any{
			"Name":    "Write tests",
			"Notes":   "later",
			"Done":    false,
			"Summary": "Write tests (open)",
		},
	}
	tr.Seed(tasks, raw)
	m, err := models.ParseMutable(taskClass(t), raw)
	require.NoError(t, err)
	return m.Bind(tr, tasks)
}

func TestMutable_updateSendsOnlyDirty(t *testing.T) {
	tr := mock.New()
	m := seededTask(t, tr)
	assert.False(t, m.IsDirty())

	require.NoError(t, m.Set("Done", true))
	assert.Equal(t, []string{"Done"}, m.Dirty())

	require.NoError(t, m.Save(context.Background()))
	assert.False(t, m.IsDirty())

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "update", calls[0].Method)
	assert.Equal(t, "recTask00000001", calls[0].ID)
	assert.Equal(t, map[string]any{
		"id":     "recTask00000001",
		"fields": map[string]any{"Done": true},
	}, calls[0].Payload)
}

func TestMutable_saveWithoutChangesMakesNoCall(t *testing.T) {
	tr := mock.New()
	m := seededTask(t, tr)

	require.NoError(t, m.Save(context.Background()))
	assert.Empty(t, tr.Calls())
}

func TestMutable_refreshesReadOnlyAttributes(t *testing.T) {
	tr := mock.New()
	m := seededTask(t, tr)

	stored, _ := tr.Object(tasks, m.ID())
	stored["fields"].(map[string]any)["Summary"] = "Write tests (done)"
	tr.Seed(tasks, stored)

	require.NoError(t, m.Set("Done", true))
	require.NoError(t, m.Save(context.Background()))
	summary, _ := m.GetString("Summary")
	assert.Equal(t, "Write tests (done)", summary)
}

func TestMutable_readOnlyAssignment(t *testing.T) {
	tr := mock.New()
	m := seededTask(t, tr)
	before, _ := m.Get("Summary")

	err := m.Set("Summary", "overwritten")
	var rfe *errs.ReadonlyFieldError
	require.True(t, errors.As(err, &rfe))
	assert.Equal(t, "Task", rfe.Class)
	assert.Equal(t, "Summary", rfe.Field)
	assert.ErrorIs(t, err, errs.ErrAirtable)

	after, _ := m.Get("Summary")
	assert.Equal(t, before, after)
	assert.False(t, m.IsDirty())
}

func TestMutable_setValidatesValue(t *testing.T) {
	m := seededTask(t, mock.New())

	testcases := []struct {
		name  string
		field string
		value any
		ok    bool
	}{
		{name: "string", field: "Name", value: "Renamed", ok: true},
		{name: "clear nullable", field: "Notes", value: nil, ok: true},
		{name: "collaborator", field: "Owner", value: map[string]any{"id": "usr1", "email": "a@example.com"}, ok: true},
		{name: "wrong scalar", field: "Done", value: "yes"},
		{name: "null for non-nullable", field: "Name", value: nil},
		{name: "collaborator extra keys", field: "Owner", value: map[string]any{"id": "usr1", "role": "owner"}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			before, hadBefore := m.Get(tc.field)
			err := m.Set(tc.field, tc.value)
			if tc.ok {
				require.NoError(t, err)
				got, _ := m.Get(tc.field)
				assert.Equal(t, tc.value, got)
				return
			}
			var sve *errs.ShapeValidationError
			require.True(t, errors.As(err, &sve), "got %v", err)
			assert.True(t, strings.HasPrefix(sve.Issues[0].Path, "/"+tc.field), sve.Issues[0].Path)
			after, hasAfter := m.Get(tc.field)
			assert.Equal(t, hadBefore, hasAfter)
			assert.Equal(t, before, after)
		})
	}
}

func TestMutable_setStruct(t *testing.T) {
	m := seededTask(t, mock.New())

	require.NoError(t, m.Set("Owner", models.Collaborator{ID: "usr1", Email: "a@example.com"}))
	got, _ := m.Get("Owner")
	assert.Equal(t, map[string]any{"id": "usr1", "email": "a@example.com"}, got)

	require.NoError(t, m.Set("Owner", &models.Collaborator{ID: "usr2"}))
	got, _ = m.Get("Owner")
	assert.Equal(t, map[string]any{"id": "usr2"}, got)

	err := m.Set("Name", time.Time{})
	assert.ErrorIs(t, err, errs.ErrValue)
}

func TestMutable_create(t *testing.T) {
	tr := mock.New()
	tr.Now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) }

	m, err := models.NewMutable(taskClass(t))
	require.NoError(t, err)
	m.Bind(tr, tasks)

	require.NoError(t, m.Set("Name", "New task"))
	require.NoError(t, m.Set("Done", false))
	require.NoError(t, m.Save(context.Background()))

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, "2024-02-03T04:05:06.000Z", m.CreatedTime())
	assert.False(t, m.IsDirty())

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "create", calls[0].Method)
	assert.Equal(t, map[string]any{"fields": map[string]any{"Name": "New task", "Done": false}}, calls[0].Payload)

	_, ok := tr.Object(tasks, m.ID())
	assert.True(t, ok)
}

func TestMutable_unsaved(t *testing.T) {
	ctx := context.Background()

	t.Run("delete without id", func(t *testing.T) {
		tr := mock.New()
		m, err := models.NewMutable(taskClass(t))
		require.NoError(t, err)
		m.Bind(tr, tasks)

		err = m.Delete(ctx)
		var ure *errs.UnsavedRecordError
		require.True(t, errors.As(err, &ure))
		assert.False(t, ure.Deleted)
		assert.Empty(t, tr.Calls())
	})

	t.Run("save of a non-creatable class", func(t *testing.T) {
		tr := mock.New()
		comment, err := models.Default.Class(models.CommentClass)
		require.NoError(t, err)
		m, err := models.NewMutable(comment)
		require.NoError(t, err)
		m.Bind(tr, "comments")
		require.NoError(t, m.Set("text", "hello"))

		err = m.Save(ctx)
		var ure *errs.UnsavedRecordError
		require.True(t, errors.As(err, &ure))
		assert.Equal(t, "save", ure.Op)
		assert.Empty(t, tr.Calls())
	})

	t.Run("not bound", func(t *testing.T) {
		m, err := models.NewMutable(taskClass(t))
		require.NoError(t, err)
		require.NoError(t, m.Set("Name", "x"))
		assert.ErrorIs(t, m.Save(ctx), errs.ErrValue)
	})
}

func TestMutable_deleteLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := mock.New()
	m := seededTask(t, tr)
	id := m.ID()

	require.NoError(t, m.Delete(ctx))
	assert.True(t, m.Deleted())
	assert.Equal(t, id, m.ID())

	var ure *errs.UnsavedRecordError
	require.NoError(t, m.Set("Done", true))
	require.True(t, errors.As(m.Save(ctx), &ure))
	assert.True(t, ure.Deleted)
	require.True(t, errors.As(m.Delete(ctx), &ure))

	assert.ErrorIs(t, m.Reanchor("recOther"), errs.ErrValue)
	require.NoError(t, m.Reanchor(id))
	assert.False(t, m.Deleted())
	assert.ErrorIs(t, m.Reanchor(id), errs.ErrValue)
}

func TestMutable_transportFailureKeepsState(t *testing.T) {
	tr := mock.New()
	m := seededTask(t, tr)
	require.NoError(t, m.Set("Name", "Renamed"))

	boom := errors.New("connection reset")
	tr.FailNext(boom)
	err := m.Save(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Name"}, m.Dirty())

	require.NoError(t, m.Save(context.Background()))
	assert.False(t, m.IsDirty())
	stored, _ := tr.Object(tasks, m.ID())
	assert.Equal(t, "Renamed", stored["fields"].(map[string]any)["Name"])
}

// replyTransport answers every delete with a fixed reply.
type replyTransport struct {
	*mock.Transport
	reply map[string]any
}

func (r replyTransport) Delete(context.Context, string, string) (map[string]any, error) {
	return r.reply, nil
}

func TestMutable_deleteChecksReply(t *testing.T) {
	testcases := []struct {
		name  string
		reply map[string]any
		paths []string
	}{
		{name: "other record", reply: map[string]any{"id": "recOTHER", "deleted": true}, paths: []string{"/id"}},
		{name: "not confirmed", reply: map[string]any{"id": "recTask00000001", "deleted": false}, paths: []string{"/deleted"}},
		{name: "both", reply: map[string]any{"id": "recOTHER", "deleted": false}, paths: []string{"/id", "/deleted"}},
		{name: "malformed", reply: map[string]any{"id": "recTask00000001"}, paths: []string{"/deleted"}},
		{name: "confirmed", reply: map[string]any{"id": "recTask00000001", "deleted": true}},
		{name: "no reply"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tr := mock.New()
			m := seededTask(t, tr)
			m.Bind(replyTransport{Transport: tr, reply: tc.reply}, tasks)

			err := m.Delete(context.Background())
			if tc.paths == nil {
				require.NoError(t, err)
				assert.True(t, m.Deleted())
				return
			}
			var sve *errs.ShapeValidationError
			require.True(t, errors.As(err, &sve), "got %v", err)
			var paths []string
			for _, it := range sve.Issues {
				paths = append(paths, it.Path)
			}
			assert.Equal(t, tc.paths, paths)
			assert.False(t, m.Deleted())
		})
	}
}
