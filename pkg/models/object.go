package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/marshal"
)

// Object is a parsed domain object. Declared attributes are kept in
// declaration order; undeclared ones accepted in lenient mode are kept
// verbatim in Extra.
type Object struct {
	class       *Class
	id          string
	createdTime string
	attrs       map[string]any
	extra       map[string]any
}

func newObject(class *Class) *Object {
	return &Object{
		class: class,
		attrs: map[string]any{},
		extra: map[string]any{},
	}
}

// Class returns the class the object was parsed as.
func (o *Object) Class() *Class { return o.class }

// ID returns the remote identity, or "" if the object was never saved.
func (o *Object) ID() string { return o.id }

// CreatedTime returns the remote creation timestamp as sent by the service.
func (o *Object) CreatedTime() string { return o.createdTime }

// Get returns a declared attribute, or an undeclared one kept in lenient mode.
func (o *Object) Get(name string) (any, bool) {
	if v, ok := o.attrs[name]; ok {
		return v, true
	}
	v, ok := o.extra[name]
	return v, ok
}

// Has reports whether the attribute is present.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

func (o *Object) GetString(name string) (string, bool) {
	v, _ := o.Get(name)
	s, ok := v.(string)
	return s, ok
}

func (o *Object) GetBool(name string) (bool, bool) {
	v, _ := o.Get(name)
	b, ok := v.(bool)
	return b, ok
}

func (o *Object) GetNumber(name string) (float64, bool) {
	v, _ := o.Get(name)
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Nested returns an attribute holding a nested object.
func (o *Object) Nested(name string) (*Object, bool) {
	v, _ := o.Get(name)
	n, ok := v.(*Object)
	return n, ok
}

// NestedList returns an attribute holding a list of nested objects.
func (o *Object) NestedList(name string) []*Object {
	v, _ := o.Get(name)
	l, _ := v.([]*Object)
	return l
}

// NestedMap returns an attribute holding nested objects keyed by string.
func (o *Object) NestedMap(name string) map[string]*Object {
	v, _ := o.Get(name)
	m, _ := v.(map[string]*Object)
	return m
}

// Extra returns a copy of the undeclared attributes.
func (o *Object) Extra() map[string]any {
	out := make(map[string]any, len(o.extra))
	for k, v := range o.extra {
		out[k] = v
	}
	return out
}

// Attributes returns the names of the attributes present, declared ones in
// declaration order followed by undeclared ones sorted.
func (o *Object) Attributes() []string {
	var names []string
	for _, f := range o.class.shape.Fields() {
		if _, ok := o.attrs[f.Name]; ok {
			names = append(names, f.Name)
		}
	}
	return append(names, sortedKeys(o.extra)...)
}

// Raw returns the object in wire form.
func (o *Object) Raw() map[string]any {
	body := make(map[string]any, len(o.attrs)+len(o.extra))
	for k, v := range o.extra {
		body[k] = toWire(v)
	}
	for k, v := range o.attrs {
		body[k] = toWire(v)
	}
	if o.class.layout != LayoutTable {
		return body
	}

	out := map[string]any{constants.KeyFields: body}
	if o.id != "" {
		out[constants.KeyID] = o.id
	}
	if o.createdTime != "" {
		out[constants.KeyCreatedTime] = o.createdTime
	}
	return out
}

func toWire(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Raw()
	case []*Object:
		out := make([]any, len(t))
		for i, o := range t {
			out[i] = o.Raw()
		}
		return out
	case map[string]*Object:
		out := make(map[string]any, len(t))
		for k, o := range t {
			out[k] = o.Raw()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toWire(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toWire(e)
		}
		return out
	}
	if util.IsStruct(v) {
		if m, err := marshal.ToMap(v); err == nil {
			return m
		}
	}
	return v
}

// Equal reports structural equality: same class, identity and attributes,
// including undeclared ones.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.class != other.class || o.id != other.id || o.createdTime != other.createdTime {
		return false
	}
	return equalValue(o.attrs, other.attrs) && equalValue(o.extra, other.extra)
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		return ok && av.Equal(bv)
	case []*Object:
		bv, ok := b.([]*Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case map[string]*Object:
		bv, ok := b.(map[string]*Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			if y, ok := bv[k]; !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			if y, ok := bv[k]; !ok || !equalValue(x, y) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// String renders the object as Class{attr: value, ...} with attributes in
// declaration order.
func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteString(o.class.name)
	sb.WriteByte('{')
	first := true
	write := func(k string, v any) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(formatValue(v))
	}
	if o.class.layout == LayoutTable && o.id != "" {
		write(constants.KeyID, o.id)
	}
	for _, name := range o.Attributes() {
		v, _ := o.Get(name)
		write(name, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	case *Object:
		return t.String()
	case []*Object:
		parts := make([]string, len(t))
		for i, o := range t {
			parts[i] = o.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]*Object:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, t[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
