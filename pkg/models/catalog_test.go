package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/models"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// threadCatalog declares a self-referential nested class before the field
// that uses it is linked.
func threadCatalog(t *testing.T) (*models.Catalog, *models.Class) {
	t.Helper()
	c := models.NewCatalog()
	cls, err := c.Declare("Thread",
		models.Nested("Reply",
			shapes.Required("id", shapes.String()),
			shapes.Required("text", shapes.String()),
			shapes.Optional("replies", shapes.ArrayOf(shapes.Ref("Thread.Reply"))),
		),
		models.Fields(
			shapes.Required("id", shapes.String()),
			shapes.Required("title", shapes.String()),
			shapes.Optional("replies", shapes.ArrayOf(shapes.Ref("Thread.Reply"))),
			shapes.Optional("pinned", shapes.Ref("Thread.Reply")),
		),
		models.Writable("title"),
	)
	require.NoError(t, err)
	return c, cls
}

func TestCatalog_declare(t *testing.T) {
	c, cls := threadCatalog(t)

	assert.Equal(t, "Thread", cls.Name())
	assert.Equal(t, []string{"Thread", "Thread.Reply"}, c.Classes())
	assert.Equal(t, models.LayoutFlat, cls.Layout())
	assert.True(t, cls.IsWritable("title"))
	assert.False(t, cls.IsWritable("id"))
	assert.False(t, cls.Creatable())

	reply := cls.Nested("Reply")
	require.NotNil(t, reply)
	assert.Equal(t, "Thread.Reply", reply.Name())
	assert.Same(t, cls, reply.Parent())

	got, err := c.Class("Thread.Reply")
	require.NoError(t, err)
	assert.Same(t, reply, got)

	_, err = c.Class("Nope")
	assert.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestCatalog_declareErrors(t *testing.T) {
	testcases := []struct {
		name  string
		setup func(c *models.Catalog)
		opts  []models.ClassOption
	}{
		{
			name: "writable not declared",
			opts: []models.ClassOption{models.Fields(shapes.Required("a", shapes.String())), models.Writable("b")},
		},
		{
			name: "writable id",
			opts: []models.ClassOption{models.Fields(shapes.Required("id", shapes.String())), models.Writable("id")},
		},
		{
			name: "empty nested name",
			opts: []models.ClassOption{models.Nested("")},
		},
		{
			name: "duplicate field",
			opts: []models.ClassOption{models.Fields(shapes.Required("a", shapes.String()), shapes.Optional("a", shapes.Bool()))},
		},
		{
			name: "nested declared twice",
			opts: []models.ClassOption{
				models.Fields(shapes.Required("a", shapes.String())),
				models.Nested("Sub", shapes.Required("b", shapes.String())),
				models.Nested("Sub", shapes.Required("b", shapes.String())),
			},
		},
		{
			name: "nested shape already registered",
			setup: func(c *models.Catalog) {
				c.Registry().MustRegister("Thing.Sub")
			},
			opts: []models.ClassOption{models.Nested("Sub")},
		},
		{
			name: "bad nested field",
			opts: []models.ClassOption{models.Nested("Sub", shapes.Required("", shapes.String()))},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			c := models.NewCatalog()
			if tc.setup != nil {
				tc.setup(c)
			}
			_, err := c.Declare("Thing", tc.opts...)
			var ipe *errs.InvalidParameterError
			require.True(t, errors.As(err, &ipe), "got %v", err)

			assert.Empty(t, c.Classes())
			_, err = c.Registry().Lookup("Thing")
			assert.ErrorIs(t, err, errs.ErrKeyNotFound)
			_, err = c.Declare("Thing")
			assert.NoError(t, err, "a failed declaration leaves nothing behind")
		})
	}

	t.Run("duplicate class", func(t *testing.T) {
		c := models.NewCatalog()
		c.MustDeclare("Thing")
		_, err := c.Declare("Thing")
		assert.ErrorIs(t, err, errs.ErrValue)
	})

	t.Run("after finalize", func(t *testing.T) {
		c := models.NewCatalog()
		require.NoError(t, c.Finalize())
		_, err := c.Declare("Late")
		assert.ErrorIs(t, err, errs.ErrValue)
	})
}

func TestCatalog_unresolvedReference(t *testing.T) {
	c := models.NewCatalog()
	c.MustDeclare("Thread", models.Fields(shapes.Optional("replies", shapes.ArrayOf(shapes.Ref("Thread.Reply")))))

	err := c.Finalize()
	var fre *errs.ForwardReferenceUnresolvedError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, "Thread", fre.Shape)
	assert.Equal(t, "Thread.Reply", fre.Ref)
	assert.False(t, c.Finalized())
}

func TestDefaultCatalog(t *testing.T) {
	assert.True(t, models.Default.Finalized())
	for _, name := range []string{models.CommentClass, models.MentionedClass, models.RecordClass} {
		_, err := models.Default.Class(name)
		assert.NoError(t, err, name)
	}

	comment, err := models.Default.Class(models.CommentClass)
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, comment.Writable())

	record, err := models.Default.Class(models.RecordClass)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutTable, record.Layout())
}
