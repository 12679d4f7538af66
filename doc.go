// The [airtable] package is the modeling layer of an Airtable client written
// in the Go way: wire shapes, structural validation, domain objects and their
// save and delete lifecycle.
//
// # Shapes
//
// Every JSON object exchanged with the service has a named shape in a
// [github.com/tablekit/airtable.go/pkg/shapes.Registry]. The process-wide
// [github.com/tablekit/airtable.go/pkg/shapes.Default] registry holds the
// built-in wire shapes (attachments, collaborators, record envelopes, write
// payloads, deletion and upsert results) and is finalized at init.
//
// Validation is structural and value preserving: a candidate that conforms is
// returned as the very same mapping, and one that does not fails with a
// [github.com/tablekit/airtable.go/pkg/errs.ShapeValidationError] listing every
// failing field.
//
// # Models
//
// [github.com/tablekit/airtable.go/pkg/models] turns validated records into
// objects. Classes are declared in a Catalog and finalized once, so nested
// classes may refer to themselves or to classes declared later:
//
//	catalog := models.NewCatalog()
//	task := catalog.MustDeclare("Task",
//		models.TableLayout(),
//		models.Creatable(),
//		models.Fields(
//			shapes.Optional("Name", shapes.String()),
//			shapes.Optional("Done", shapes.Bool()),
//		),
//		models.Writable("Name", "Done"),
//	)
//	if err := catalog.Finalize(); err != nil {
//		return err
//	}
//
//	m, err := models.ParseMutable(task, raw)
//	if err != nil {
//		return err
//	}
//	if err := m.Set("Done", true); err != nil {
//		return err
//	}
//	err = m.Bind(transport, "appXXX/tblYYY").Save(ctx)
//
// Save sends only the attributes assigned since the last save.
//
// # Errors
//
// All failures match [github.com/tablekit/airtable.go/pkg/errs.ErrAirtable]
// and one category error with [errors.Is].
package airtable
