package models

import (
	"errors"

	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// Mode decides how Parse treats keys a class does not declare.
type Mode int

const (
	// Lenient keeps undeclared keys as opaque attributes.
	Lenient Mode = iota
	// Strict rejects undeclared keys.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

type parseOptions struct {
	mode Mode
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithMode sets the unknown-key mode of a parse.
func WithMode(m Mode) ParseOption {
	return func(o *parseOptions) { o.mode = m }
}

func (o *parseOptions) shapeOptions() []shapes.Option {
	opts := []shapes.Option{shapes.AllowSentinels()}
	if o.mode == Strict {
		opts = append(opts, shapes.Strict())
	}
	return opts
}

// Parse validates raw against the class shape and builds an object from it.
// Nested shapes that map to classes of the same catalog become *Object values;
// remote error sentinels are kept verbatim.
func Parse(class *Class, raw any, opts ...ParseOption) (*Object, error) {
	if class == nil {
		return nil, &errs.InvalidParameterError{Name: "class", Reason: "must not be nil"}
	}
	if !class.catalog.Finalized() {
		return nil, &errs.ForwardReferenceUnresolvedError{Shape: class.name}
	}
	po := &parseOptions{}
	for _, opt := range opts {
		opt(po)
	}

	if class.layout == LayoutTable {
		return parseTable(class, raw, po)
	}

	m, err := shapes.Validate(class.shape, raw, po.shapeOptions()...)
	if err != nil {
		logger.Debug().Str("class", class.name).Err(err).Msg("parse failed")
		return nil, err
	}
	o := build(class, m)
	o.id, _ = m[constants.KeyID].(string)
	o.createdTime, _ = m[constants.KeyCreatedTime].(string)
	return o, nil
}

func parseTable(class *Class, raw any, po *parseOptions) (*Object, error) {
	envelope, err := class.catalog.registry.Lookup(shapes.RecordEnvelope)
	if err != nil {
		return nil, err
	}
	var envOpts []shapes.Option
	if po.mode == Strict {
		envOpts = append(envOpts, shapes.Strict())
	}
	env, err := shapes.Validate(envelope, raw, envOpts...)
	if err != nil {
		return nil, err
	}

	fields, err := shapes.Validate(class.shape, env[constants.KeyFields], po.shapeOptions()...)
	if err != nil {
		var sve *errs.ShapeValidationError
		if errors.As(err, &sve) {
			err = &errs.ShapeValidationError{Shape: class.name, Issues: sve.Issues.Prefix(constants.KeyFields)}
		}
		logger.Debug().Str("class", class.name).Err(err).Msg("parse failed")
		return nil, err
	}

	o := build(class, fields)
	o.id = env[constants.KeyID].(string)
	o.createdTime = env[constants.KeyCreatedTime].(string)
	return o, nil
}

// build converts a validated mapping into an object of class.
func build(class *Class, m map[string]any) *Object {
	o := newObject(class)
	for k, v := range m {
		f, declared := class.shape.Field(k)
		if !declared {
			o.extra[k] = v
			continue
		}
		o.attrs[k] = convert(class.catalog, f.Type, v)
	}
	return o
}

// convert lifts validated values of class-backed shapes into objects.
func convert(c *Catalog, t shapes.Type, v any) any {
	if v == nil || shapes.LooksLikeRemoteError(v) {
		return v
	}
	switch t.Kind {
	case shapes.KindRef:
		cls := c.classOf(t.Target())
		if cls == nil {
			return v
		}
		m, ok := util.AsMap(v)
		if !ok {
			return v
		}
		o := build(cls, m)
		o.id, _ = m[constants.KeyID].(string)
		o.createdTime, _ = m[constants.KeyCreatedTime].(string)
		return o
	case shapes.KindArray:
		seq, ok := util.AsSlice(v)
		if !ok {
			return v
		}
		out := make([]any, len(seq))
		objects := make([]*Object, 0, len(seq))
		for i, e := range seq {
			out[i] = convert(c, *t.Elem, e)
			if o, ok := out[i].(*Object); ok {
				objects = append(objects, o)
			}
		}
		if len(seq) > 0 && len(objects) == len(seq) {
			return objects
		}
		return out
	case shapes.KindMap:
		m, ok := util.AsMap(v)
		if !ok {
			return v
		}
		out := make(map[string]any, len(m))
		objects := make(map[string]*Object, len(m))
		for k, e := range m {
			out[k] = convert(c, *t.Elem, e)
			if o, ok := out[k].(*Object); ok {
				objects[k] = o
			}
		}
		if len(m) > 0 && len(objects) == len(m) {
			return objects
		}
		return out
	}
	return v
}
