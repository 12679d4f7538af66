// Package models builds domain objects from validated remote records and
// tracks the changes to send back.
package models

import (
	"fmt"
	"sync"

	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// Catalog is an arena of model classes. Each class is backed by a shape in
// the catalog's own registry, so classes may reference each other (and
// themselves) by name before they are declared. Finalize links them.
type Catalog struct {
	mu       sync.RWMutex
	registry *shapes.Registry
	classes  map[string]*Class
	byShape  map[*shapes.Shape]*Class
	order    []string
}

// NewCatalog returns an empty catalog whose registry carries the built-in
// wire shapes.
func NewCatalog() *Catalog {
	return &Catalog{
		registry: shapes.NewRegistry(shapes.WithBuiltins()),
		classes:  make(map[string]*Class),
		byShape:  make(map[*shapes.Shape]*Class),
	}
}

// Registry returns the shape registry backing the catalog.
func (c *Catalog) Registry() *shapes.Registry { return c.registry }

// ClassOption configures a class declaration.
type ClassOption func(*classConfig)

type nestedDecl struct {
	name   string
	fields []shapes.Field
}

type classConfig struct {
	fields    []shapes.Field
	nested    []nestedDecl
	writable  []string
	creatable bool
	layout    Layout
}

// Fields declares the attributes of the class.
func Fields(fields ...shapes.Field) ClassOption {
	return func(c *classConfig) { c.fields = append(c.fields, fields...) }
}

// Nested declares a read-only sub-class registered as "Parent.name". Fields of
// the parent may refer to it with shapes.Ref before or after this option.
func Nested(name string, fields ...shapes.Field) ClassOption {
	return func(c *classConfig) { c.nested = append(c.nested, nestedDecl{name: name, fields: fields}) }
}

// Writable sets the allow-list of attributes that may be assigned.
func Writable(names ...string) ClassOption {
	return func(c *classConfig) { c.writable = append(c.writable, names...) }
}

// Creatable allows Save to create objects that have no remote identity yet.
func Creatable() ClassOption {
	return func(c *classConfig) { c.creatable = true }
}

// TableLayout stores the attributes inside the "fields" mapping of a record
// envelope instead of at the top level.
func TableLayout() ClassOption {
	return func(c *classConfig) { c.layout = LayoutTable }
}

// Declare registers a class and its nested classes.
func (c *Catalog) Declare(name string, opts ...ClassOption) (*Class, error) {
	cfg := &classConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.classes[name]; ok {
		return nil, &errs.InvalidParameterError{Name: name, Reason: "class already declared"}
	}
	seen := make(map[string]struct{}, len(cfg.nested))
	for _, n := range cfg.nested {
		if n.name == "" {
			return nil, &errs.InvalidParameterError{Name: name, Reason: "nested class name must not be empty"}
		}
		full := name + "." + n.name
		if _, ok := seen[n.name]; ok {
			return nil, &errs.InvalidParameterError{Name: full, Reason: "nested class declared twice"}
		}
		if _, ok := c.classes[full]; ok {
			return nil, &errs.InvalidParameterError{Name: full, Reason: "class already declared"}
		}
		seen[n.name] = struct{}{}
	}

	declared := make(map[string]struct{}, len(cfg.fields))
	for _, f := range cfg.fields {
		declared[f.Name] = struct{}{}
	}
	writable := make(map[string]struct{}, len(cfg.writable))
	for _, w := range cfg.writable {
		if _, ok := declared[w]; !ok {
			return nil, &errs.InvalidParameterError{Name: name, Reason: fmt.Sprintf("writable attribute %q is not declared", w)}
		}
		if cfg.layout == LayoutFlat && (w == constants.KeyID || w == constants.KeyCreatedTime) {
			return nil, &errs.InvalidParameterError{Name: name, Reason: fmt.Sprintf("%q is assigned by the remote service", w)}
		}
		writable[w] = struct{}{}
	}

	decls := make([]shapes.Declaration, 0, 1+len(cfg.nested))
	decls = append(decls, shapes.Declaration{Name: name, Fields: cfg.fields})
	for _, n := range cfg.nested {
		decls = append(decls, shapes.Declaration{Name: name + "." + n.name, Fields: n.fields})
	}
	registered, err := c.registry.RegisterAll(decls...)
	if err != nil {
		return nil, err
	}

	cls := &Class{
		name:        name,
		catalog:     c,
		shape:       registered[0],
		layout:      cfg.layout,
		writable:    append([]string(nil), cfg.writable...),
		writableSet: writable,
		creatable:   cfg.creatable,
		nested:      make(map[string]*Class, len(cfg.nested)),
	}
	c.add(cls)
	for i, n := range cfg.nested {
		child := &Class{
			name:    registered[i+1].Name(),
			catalog: c,
			shape:   registered[i+1],
			parent:  cls,
			nested:  map[string]*Class{},
		}
		cls.nested[n.name] = child
		c.add(child)
	}
	return cls, nil
}

func (c *Catalog) add(cls *Class) {
	c.classes[cls.name] = cls
	c.byShape[cls.shape] = cls
	c.order = append(c.order, cls.name)
}

// MustDeclare is like Declare but panics on error.
func (c *Catalog) MustDeclare(name string, opts ...ClassOption) *Class {
	cls, err := c.Declare(name, opts...)
	if err != nil {
		panic(err)
	}
	return cls
}

// Class returns the class declared under name.
func (c *Catalog) Class(name string) (*Class, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cls, ok := c.classes[name]
	if !ok {
		return nil, &errs.ShapeNotFoundError{Name: name}
	}
	return cls, nil
}

// Classes returns the declared class names in declaration order.
func (c *Catalog) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.order...)
}

// Finalize links every class reference. See shapes.Registry.Finalize.
func (c *Catalog) Finalize() error {
	return c.registry.Finalize()
}

// Finalized reports whether the catalog can parse objects.
func (c *Catalog) Finalized() bool {
	return c.registry.Finalized()
}

func (c *Catalog) classOf(s *shapes.Shape) *Class {
	if s == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byShape[s]
}
