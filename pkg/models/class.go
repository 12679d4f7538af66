package models

import (
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// Layout says where a class keeps its attributes on the wire.
type Layout int

const (
	// LayoutFlat keeps attributes, id and createdTime at the top level.
	LayoutFlat Layout = iota
	// LayoutTable keeps attributes in the "fields" mapping of a record envelope.
	LayoutTable
)

func (l Layout) String() string {
	if l == LayoutTable {
		return "table"
	}
	return "flat"
}

// Class describes a model: its shape, where its attributes live and which of
// them may be assigned.
type Class struct {
	name        string
	catalog     *Catalog
	shape       *shapes.Shape
	layout      Layout
	writable    []string
	writableSet map[string]struct{}
	creatable   bool
	nested      map[string]*Class
	parent      *Class
}

// Name returns the class name. Nested classes are named "Parent.Name".
func (c *Class) Name() string {
	return c.name
}

// Shape returns the shape that validates the class attributes.
func (c *Class) Shape() *shapes.Shape {
	return c.shape
}

func (c *Class) Catalog() *Catalog {
	return c.catalog
}

func (c *Class) Layout() Layout {
	return c.layout
}

// Creatable reports whether Save may create objects of this class.
func (c *Class) Creatable() bool {
	return c.creatable
}

// Parent returns the enclosing class of a nested class, or nil.
func (c *Class) Parent() *Class {
	return c.parent
}

// Writable returns the writable allow-list in declaration order.
func (c *Class) Writable() []string {
	return append([]string(nil), c.writable...)
}

// Nested returns the nested class declared under name, or nil.
func (c *Class) Nested(name string) *Class {
	return c.nested[name]
}

// IsWritable reports whether name is in the writable allow-list.
func (c *Class) IsWritable(name string) bool {
	_, ok := c.writableSet[name]
	return ok
}
