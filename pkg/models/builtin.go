package models

import (
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// Names of the classes declared in Default.
const (
	CommentClass   = "Comment"
	MentionedClass = "Comment.Mentioned"
	RecordClass    = "Record"
)

// Default is the catalog of the built-in models. It is finalized at init, so
// applications declare their own classes in a catalog of their own.
var Default = NewCatalog()

func init() {
	Default.MustDeclare(CommentClass,
		Fields(
			shapes.Required("id", shapes.String()),
			shapes.Required("text", shapes.String()),
			shapes.Required("createdTime", shapes.String()),
			shapes.Optional("lastUpdatedTime", shapes.Nullable(shapes.String())),
			shapes.Required("author", shapes.Ref(shapes.Collaborator)),
			shapes.Optional("mentioned", shapes.Nullable(shapes.MapOf(shapes.Ref(MentionedClass)))),
		),
		Nested("Mentioned",
			shapes.Required("id", shapes.String()),
			shapes.Required("type", shapes.String()),
			shapes.Required("displayName", shapes.String()),
			shapes.Optional("email", shapes.Nullable(shapes.String())),
		),
		Writable("text"),
	)
	Default.MustDeclare(RecordClass, TableLayout())

	if err := Default.Finalize(); err != nil {
		panic(err)
	}
}

func mustClass(c *Catalog, name string) *Class {
	cls, err := c.Class(name)
	if err != nil {
		panic(err)
	}
	return cls
}
