package shapes

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tablekit/airtable.go/pkg/errs"
)

// Registry holds a closed set of shapes. Shapes are registered first, then
// Finalize links every Ref to its shape. A finalized registry is read-only and
// safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	shapes    map[string]*Shape
	order     []string
	finalized bool
	finalErr  error
	once      sync.Once
	ready     atomic.Bool

	validators sync.Map // *Shape -> *validator
}

// RegistryOption configures a new Registry.
type RegistryOption func(*Registry)

// WithBuiltins pre-registers the wire shapes of the remote API.
func WithBuiltins() RegistryOption {
	return func(r *Registry) {
		registerBuiltins(r)
	}
}

// NewRegistry returns an empty registry, or one seeded by the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{shapes: make(map[string]*Shape)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Declaration names a shape and its fields for RegisterAll.
type Declaration struct {
	Name   string
	Fields []Field
}

// Register declares a shape. Field types may reference shapes that are
// registered later; those references are linked by Finalize.
func (r *Registry) Register(name string, fields ...Field) (*Shape, error) {
	out, err := r.RegisterAll(Declaration{Name: name, Fields: fields})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// RegisterAll declares several shapes at once. Either every shape is
// registered or, on error, none is.
func (r *Registry) RegisterAll(decls ...Declaration) ([]*Shape, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	built := make([]*Shape, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		if _, dup := seen[d.Name]; dup {
			return nil, &errs.InvalidParameterError{Name: d.Name, Reason: "shape already registered"}
		}
		seen[d.Name] = struct{}{}
		s, err := r.build(d.Name, d.Fields)
		if err != nil {
			return nil, err
		}
		built = append(built, s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		return nil, &errs.InvalidParameterError{Name: decls[0].Name, Reason: "registry is already finalized"}
	}
	for _, s := range built {
		if _, ok := r.shapes[s.name]; ok {
			return nil, &errs.InvalidParameterError{Name: s.name, Reason: "shape already registered"}
		}
	}
	for _, s := range built {
		r.shapes[s.name] = s
		r.order = append(r.order, s.name)
	}
	return built, nil
}

func (r *Registry) build(name string, fields []Field) (*Shape, error) {
	if name == "" {
		return nil, &errs.InvalidParameterError{Name: "name", Reason: "shape name must not be empty"}
	}
	s := &Shape{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		reg:    r,
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, &errs.InvalidParameterError{Name: name, Reason: "field name must not be empty"}
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, &errs.InvalidParameterError{Name: name, Reason: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		f.Type = cloneType(f.Type)
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level declarations.
func (r *Registry) MustRegister(name string, fields ...Field) *Shape {
	s, err := r.Register(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the shape registered under name.
func (r *Registry) Lookup(name string) (*Shape, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shapes[name]
	if !ok {
		return nil, &errs.ShapeNotFoundError{Name: name}
	}
	return s, nil
}

// Names returns the registered shape names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Finalized reports whether Finalize has completed successfully.
func (r *Registry) Finalized() bool {
	return r.ready.Load()
}

// Finalize links every Ref in every registered shape to its target. It runs
// once; later calls return the result of the first call. No shape can be
// registered afterwards.
func (r *Registry) Finalize() error {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.finalErr = r.link()
		r.finalized = true
		r.ready.Store(r.finalErr == nil)
	})
	return r.finalErr
}

func (r *Registry) link() error {
	var missing []*errs.ForwardReferenceUnresolvedError
	for _, name := range r.order {
		s := r.shapes[name]
		for i := range s.fields {
			r.linkType(s.name, &s.fields[i].Type, &missing)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing[0]
}

func (r *Registry) linkType(owner string, t *Type, missing *[]*errs.ForwardReferenceUnresolvedError) {
	switch t.Kind {
	case KindRef:
		target, ok := r.shapes[t.Name]
		if !ok {
			*missing = append(*missing, &errs.ForwardReferenceUnresolvedError{Shape: owner, Ref: t.Name})
			return
		}
		t.target = target
	case KindArray, KindMap:
		r.linkType(owner, t.Elem, missing)
	case KindUnion:
		for i := range t.Options {
			r.linkType(owner, &t.Options[i], missing)
		}
	}
}

func cloneType(t Type) Type {
	if t.Elem != nil {
		elem := cloneType(*t.Elem)
		t.Elem = &elem
	}
	if t.Options != nil {
		opts := make([]Type, len(t.Options))
		for i, o := range t.Options {
			opts[i] = cloneType(o)
		}
		t.Options = opts
	}
	t.target = nil
	return t
}

// Default holds the wire shapes of the remote API and is finalized at init.
var Default = NewRegistry(WithBuiltins())

func init() {
	if err := Default.Finalize(); err != nil {
		panic(err)
	}
}

// Lookup returns a shape from the Default registry.
func Lookup(name string) (*Shape, error) {
	return Default.Lookup(name)
}
