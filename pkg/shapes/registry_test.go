package shapes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

func TestRegistry_lookup(t *testing.T) {
	for _, name := range []string{
		shapes.Attachment, shapes.CreateAttachment, shapes.Barcode, shapes.Button,
		shapes.Collaborator, shapes.CollaboratorEmail, shapes.UserAndScopes,
		shapes.RecordEnvelope, shapes.CreateRecord, shapes.UpdateRecord,
		shapes.RecordDeleted, shapes.UpsertResult,
	} {
		s, err := shapes.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	_, err := shapes.Lookup("Spreadsheet")
	var nf *errs.ShapeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestRegistry_fields(t *testing.T) {
	s := mustLookup(t, shapes.RecordEnvelope)

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
		assert.True(t, f.Required)
	}
	assert.Equal(t, []string{"id", "createdTime", "fields"}, names)

	f, ok := s.Field("fields")
	require.True(t, ok)
	assert.Equal(t, "map[string]any", f.Type.String())
}

func TestRegistry_forwardReferences(t *testing.T) {
	r := shapes.NewRegistry()
	parent := r.MustRegister("Thread",
		shapes.Required("id", shapes.String()),
		shapes.Optional("replies", shapes.MapOf(shapes.Ref("Thread.Reply"))),
		shapes.Optional("parent", shapes.Nullable(shapes.Ref("Thread"))),
	)
	r.MustRegister("Thread.Reply",
		shapes.Required("id", shapes.String()),
		shapes.Optional("thread", shapes.Ref("Thread")),
	)

	input := map[string]any{
		"id": "thr1",
		"replies": map[string]any{
			"rep1": map[string]any{"id": "rep1", "thread": map[string]any{"id": "thr1"}},
		},
		"parent": nil,
	}

	_, err := shapes.Validate(parent, input)
	var fre *errs.ForwardReferenceUnresolvedError
	require.True(t, errors.As(err, &fre), "validation before Finalize must fail")
	assert.ErrorIs(t, err, errs.ErrRecursion)

	require.NoError(t, r.Finalize())
	require.NoError(t, r.Finalize(), "Finalize is idempotent")
	assert.True(t, r.Finalized())

	_, err = shapes.Validate(parent, input)
	require.NoError(t, err)

	f, _ := parent.Field("replies")
	assert.NotNil(t, f.Type.Elem.Target())

	input["replies"].(map[string]any)["rep2"] = map[string]any{"thread": map[string]any{}}
	_, err = shapes.Validate(parent, input)
	var sve *errs.ShapeValidationError
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, []string{"/replies/rep2/id", "/replies/rep2/thread/id"}, []string{sve.Issues[0].Path, sve.Issues[1].Path})
}

func TestRegistry_unresolvedReference(t *testing.T) {
	r := shapes.NewRegistry()
	r.MustRegister("Order", shapes.Optional("customer", shapes.Ref("Customer")))

	err := r.Finalize()
	var fre *errs.ForwardReferenceUnresolvedError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, "Order", fre.Shape)
	assert.Equal(t, "Customer", fre.Ref)
	assert.False(t, r.Finalized())
	assert.Equal(t, err, r.Finalize(), "later calls report the first result")
}

func TestRegistry_registrationErrors(t *testing.T) {
	r := shapes.NewRegistry()
	_, err := r.Register("")
	assert.ErrorIs(t, err, errs.ErrValue)

	_, err = r.Register("A", shapes.Required("x", shapes.String()), shapes.Optional("x", shapes.Number()))
	assert.ErrorIs(t, err, errs.ErrValue)

	_, err = r.Register("A")
	require.NoError(t, err)
	_, err = r.Register("A")
	assert.ErrorIs(t, err, errs.ErrValue)

	require.NoError(t, r.Finalize())
	_, err = r.Register("B")
	var ipe *errs.InvalidParameterError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, []string{"A"}, r.Names())
}

func TestRegistry_RegisterAllIsAtomic(t *testing.T) {
	r := shapes.NewRegistry()
	r.MustRegister("Taken")

	testcases := []struct {
		name  string
		decls []shapes.Declaration
	}{
		{
			name:  "duplicate within the batch",
			decls: []shapes.Declaration{{Name: "X"}, {Name: "X.Y"}, {Name: "X.Y"}},
		},
		{
			name:  "already registered",
			decls: []shapes.Declaration{{Name: "X"}, {Name: "Taken"}},
		},
		{
			name: "bad field",
			decls: []shapes.Declaration{
				{Name: "X"},
				{Name: "X.Y", Fields: []shapes.Field{shapes.Required("", shapes.String())}},
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.RegisterAll(tc.decls...)
			assert.ErrorIs(t, err, errs.ErrValue)
			assert.Equal(t, []string{"Taken"}, r.Names())
		})
	}

	got, err := r.RegisterAll(shapes.Declaration{Name: "X"}, shapes.Declaration{Name: "X.Y"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Taken", "X", "X.Y"}, r.Names())
}

func TestRegistry_builtinsAreIndependent(t *testing.T) {
	r := shapes.NewRegistry(shapes.WithBuiltins())
	own, err := r.Lookup(shapes.Collaborator)
	require.NoError(t, err)
	assert.NotSame(t, mustLookup(t, shapes.Collaborator), own)
	assert.Same(t, r, own.Registry())

	_, err = shapes.Validate(own, map[string]any{"id": "usr1"})
	assert.ErrorIs(t, err, errs.ErrRecursion, "a fresh registry needs its own Finalize")
}
