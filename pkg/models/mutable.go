package models

import (
	"context"
	"fmt"

	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// Mutable is an object whose writable attributes may be assigned and saved.
// It tracks which attributes were assigned since the last save.
// A Mutable is not safe for concurrent use.
type Mutable struct {
	*Object

	dirty     map[string]struct{}
	transport Transport
	endpoint  string
	deleted   bool
}

// NewMutable returns an empty object of class with no remote identity.
func NewMutable(class *Class) (*Mutable, error) {
	if class == nil {
		return nil, &errs.InvalidParameterError{Name: "class", Reason: "must not be nil"}
	}
	if !class.catalog.Finalized() {
		return nil, &errs.ForwardReferenceUnresolvedError{Shape: class.name}
	}
	return wrap(newObject(class)), nil
}

// ParseMutable parses raw like Parse. The dirty set starts empty.
func ParseMutable(class *Class, raw any, opts ...ParseOption) (*Mutable, error) {
	o, err := Parse(class, raw, opts...)
	if err != nil {
		return nil, err
	}
	return wrap(o), nil
}

func wrap(o *Object) *Mutable {
	return &Mutable{Object: o, dirty: map[string]struct{}{}}
}

// Bind sets the transport and endpoint used by Save and Delete.
func (m *Mutable) Bind(t Transport, endpoint string) *Mutable {
	m.transport = t
	m.endpoint = endpoint
	return m
}

// Endpoint returns the endpoint set by Bind.
func (m *Mutable) Endpoint() string { return m.endpoint }

// Set assigns a writable attribute. Names outside the allow-list fail with
// *errs.ReadonlyFieldError and values not matching the declared type with
// *errs.ShapeValidationError; on failure nothing changes.
func (m *Mutable) Set(name string, value any) error {
	cls := m.class
	if !cls.IsWritable(name) {
		return &errs.ReadonlyFieldError{Class: cls.name, Field: name}
	}
	f, _ := cls.shape.Field(name)

	wire := toWire(value)
	if err := cls.catalog.registry.CheckValue(cls.name, name, f.Type, wire, shapes.Strict()); err != nil {
		return err
	}
	if cls.layout == LayoutTable {
		if err := shapes.CheckWritable(name, wire); err != nil {
			return err
		}
	}

	m.attrs[name] = convert(cls.catalog, f.Type, wire)
	m.dirty[name] = struct{}{}
	return nil
}

// Dirty returns the attributes assigned since the last save, in declaration
// order.
func (m *Mutable) Dirty() []string {
	var out []string
	for _, name := range m.class.writable {
		if _, ok := m.dirty[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// IsDirty reports whether any attribute was assigned since the last save.
func (m *Mutable) IsDirty() bool { return len(m.dirty) > 0 }

// Deleted reports whether Delete succeeded. The identity is kept for
// inspection.
func (m *Mutable) Deleted() bool { return m.deleted }

// Reanchor clears the deleted mark after the remote object was restored. The
// id must be the identity the object had when it was deleted.
func (m *Mutable) Reanchor(id string) error {
	if !m.deleted {
		return &errs.InvalidParameterError{Name: "id", Reason: "object is not deleted"}
	}
	if id == "" || id != m.id {
		return &errs.InvalidParameterError{Name: "id", Reason: fmt.Sprintf("expected %q, got %q", m.id, id)}
	}
	m.deleted = false
	return nil
}

// Save creates the object if it has no identity, or sends the dirty
// attributes otherwise. Nothing is sent when nothing is dirty. On failure the
// object is left as it was.
func (m *Mutable) Save(ctx context.Context) error {
	cls := m.class
	if m.deleted {
		return &errs.UnsavedRecordError{Class: cls.name, Op: "save", Deleted: true}
	}
	if m.id == "" && !cls.creatable {
		return &errs.UnsavedRecordError{Class: cls.name, Op: "save"}
	}
	if m.id != "" && len(m.dirty) == 0 {
		logger.Debug().Str("class", cls.name).Str("id", m.id).Msg("save skipped, nothing dirty")
		return nil
	}
	if m.transport == nil {
		return &errs.InvalidParameterError{Name: "transport", Reason: "object is not bound"}
	}

	if m.id == "" {
		return m.create(ctx)
	}
	return m.update(ctx)
}

func (m *Mutable) create(ctx context.Context) error {
	cls := m.class
	payload, err := m.payload(m.class.writable, shapes.CreateRecord)
	if err != nil {
		return err
	}

	resp, err := m.transport.Create(ctx, m.endpoint, payload)
	if err != nil {
		return fmt.Errorf("models: create %s: %w", cls.name, err)
	}
	parsed, err := Parse(cls, resp)
	if err != nil {
		return err
	}
	if parsed.id == "" {
		return &errs.ShapeValidationError{Shape: cls.name, Issues: errs.Issues{{
			Path:    errs.JoinPointer("", constants.KeyID),
			Field:   constants.KeyID,
			Code:    errs.CodeRequired,
			Message: "field required",
		}}}
	}

	m.id = parsed.id
	m.createdTime = parsed.createdTime
	m.refresh(parsed)
	m.dirty = map[string]struct{}{}
	logger.Debug().Str("class", cls.name).Str("id", m.id).Str("endpoint", m.endpoint).Msg("created")
	return nil
}

func (m *Mutable) update(ctx context.Context) error {
	cls := m.class
	payload, err := m.payload(m.Dirty(), shapes.UpdateRecord)
	if err != nil {
		return err
	}

	resp, err := m.transport.Update(ctx, m.endpoint, m.id, payload)
	if err != nil {
		return fmt.Errorf("models: save %s %s: %w", cls.name, m.id, err)
	}
	if resp != nil {
		parsed, err := Parse(cls, resp)
		if err != nil {
			return err
		}
		m.refresh(parsed)
	}

	m.dirty = map[string]struct{}{}
	logger.Debug().Str("class", cls.name).Str("id", m.id).Str("endpoint", m.endpoint).Msg("saved")
	return nil
}

// payload builds the request body for the named attributes. Table payloads
// are checked against the wire shape before they leave the process.
func (m *Mutable) payload(names []string, wireShape string) (map[string]any, error) {
	body := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := m.attrs[name]; ok {
			body[name] = toWire(v)
		}
	}
	if m.class.layout != LayoutTable {
		return body, nil
	}

	out := map[string]any{constants.KeyFields: body}
	if wireShape == shapes.UpdateRecord {
		out[constants.KeyID] = m.id
	}
	s, err := m.class.catalog.registry.Lookup(wireShape)
	if err != nil {
		return nil, err
	}
	if _, err := shapes.Validate(s, out, shapes.Strict()); err != nil {
		return nil, err
	}
	return out, nil
}

// refresh takes the attributes the service owns from a parsed response.
func (m *Mutable) refresh(parsed *Object) {
	for k := range m.attrs {
		if !m.class.IsWritable(k) {
			delete(m.attrs, k)
		}
	}
	for k, v := range parsed.attrs {
		if m.class.layout == LayoutFlat && k == constants.KeyID {
			v = m.id
		}
		if !m.class.IsWritable(k) {
			m.attrs[k] = v
		}
	}
	m.extra = parsed.extra
}

// Delete removes the remote object and marks this object deleted.
func (m *Mutable) Delete(ctx context.Context) error {
	cls := m.class
	if m.deleted {
		return &errs.UnsavedRecordError{Class: cls.name, Op: "delete", Deleted: true}
	}
	if m.id == "" {
		return &errs.UnsavedRecordError{Class: cls.name, Op: "delete"}
	}
	if m.transport == nil {
		return &errs.InvalidParameterError{Name: "transport", Reason: "object is not bound"}
	}

	resp, err := m.transport.Delete(ctx, m.endpoint, m.id)
	if err != nil {
		return fmt.Errorf("models: delete %s %s: %w", cls.name, m.id, err)
	}
	if resp != nil {
		s, err := cls.catalog.registry.Lookup(shapes.RecordDeleted)
		if err != nil {
			return err
		}
		v, err := shapes.Validate(s, resp)
		if err != nil {
			return err
		}
		var d Deletion
		if err := unmarshalDeclared(s, v, &d); err != nil {
			return err
		}
		var issues errs.Issues
		if d.ID != m.id {
			issues = append(issues, errs.Issue{
				Path: "/" + constants.KeyID, Field: constants.KeyID, Code: errs.CodeMismatch,
				Message: fmt.Sprintf("deleted %q, want %q", d.ID, m.id),
			})
		}
		if !d.Deleted {
			issues = append(issues, errs.Issue{
				Path: "/" + constants.KeyDeleted, Field: constants.KeyDeleted, Code: errs.CodeMismatch,
				Message: "deletion not confirmed",
			})
		}
		if len(issues) > 0 {
			return &errs.ShapeValidationError{Shape: shapes.RecordDeleted, Issues: issues}
		}
	}

	m.deleted = true
	logger.Debug().Str("class", cls.name).Str("id", m.id).Str("endpoint", m.endpoint).Msg("deleted")
	return nil
}
