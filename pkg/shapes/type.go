package shapes

import "strings"

// Kind identifies the structural kind of a Type.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBool
	KindNull
	KindRef
	KindArray
	KindMap
	KindUnion
)

var kindNames = [...]string{
	KindAny:     "any",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBool:    "boolean",
	KindNull:    "null",
	KindRef:     "object",
	KindArray:   "array",
	KindMap:     "object",
	KindUnion:   "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type describes the declared type of a field. A Ref names another shape in
// the same registry and is linked to it by Registry.Finalize.
type Type struct {
	Kind     Kind
	Nullable bool
	// Name is the referenced shape name for KindRef.
	Name string
	// Elem is the element type for KindArray and KindMap.
	Elem *Type
	// Options are the alternatives for KindUnion.
	Options []Type

	target *Shape
}

func String() Type  { return Type{Kind: KindString} }
func Number() Type  { return Type{Kind: KindNumber} }
func Integer() Type { return Type{Kind: KindInteger} }
func Bool() Type    { return Type{Kind: KindBool} }
func Null() Type    { return Type{Kind: KindNull} }

// Any accepts every value and leaves it opaque.
func Any() Type { return Type{Kind: KindAny} }

// Ref refers to the shape registered under name. The shape may be registered
// after the field that refers to it.
func Ref(name string) Type { return Type{Kind: KindRef, Name: name} }

func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

// MapOf is a mapping of arbitrary string keys to values of elem.
func MapOf(elem Type) Type { return Type{Kind: KindMap, Elem: &elem} }

func OneOf(options ...Type) Type { return Type{Kind: KindUnion, Options: options} }

// Nullable returns a copy of t that also accepts null.
func Nullable(t Type) Type {
	t.Nullable = true
	return t
}

// Target returns the shape a Ref was linked to, or nil before Finalize.
func (t Type) Target() *Shape { return t.target }

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindRef:
		s = t.Name
	case KindArray:
		s = "[]" + t.Elem.String()
	case KindMap:
		s = "map[string]" + t.Elem.String()
	case KindUnion:
		parts := make([]string, len(t.Options))
		for i, o := range t.Options {
			parts[i] = o.String()
		}
		s = strings.Join(parts, " | ")
	default:
		s = t.Kind.String()
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// Field is a single declared field of a shape.
type Field struct {
	Name     string
	Type     Type
	Required bool
}

func Required(name string, t Type) Field { return Field{Name: name, Type: t, Required: true} }

func Optional(name string, t Type) Field { return Field{Name: name, Type: t} }

// Shape is a named, ordered set of fields. Shapes are immutable once registered.
type Shape struct {
	name   string
	fields []Field
	index  map[string]int
	reg    *Registry
}

func (s *Shape) Name() string { return s.name }

// Fields returns a copy of the declared fields in declaration order.
func (s *Shape) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the declared field with the given name.
func (s *Shape) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Registry returns the registry the shape belongs to.
func (s *Shape) Registry() *Registry { return s.reg }
