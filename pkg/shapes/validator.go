package shapes

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/errs"
)

// UnknownPolicy decides what happens to keys a shape does not declare.
type UnknownPolicy int

const (
	// UnknownPassthrough keeps undeclared keys as opaque data.
	UnknownPassthrough UnknownPolicy = iota
	// UnknownReject reports every undeclared key as an issue.
	UnknownReject
)

type options struct {
	unknown   UnknownPolicy
	sentinels bool
}

// Option configures a single validation call.
type Option func(*options)

// Strict rejects keys the shape does not declare, at every nesting level.
func Strict() Option {
	return func(o *options) { o.unknown = UnknownReject }
}

// WithUnknown sets the unknown-key policy explicitly.
func WithUnknown(p UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

// AllowSentinels accepts the remote error sentinels (see LooksLikeRemoteError)
// wherever a field value is expected.
func AllowSentinels() Option {
	return func(o *options) { o.sentinels = true }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type checkFunc func(v any, path, field string, o *options, iss *errs.Issues)

type fieldCheck struct {
	field Field
	check checkFunc
}

// validator is the compiled structural check of one shape.
type validator struct {
	shape  *Shape
	fields []fieldCheck
}

// validatorFor returns the cached validator of s, building it on first use.
// Concurrent first uses may each build one; only the first published is kept.
func (r *Registry) validatorFor(s *Shape) *validator {
	if v, ok := r.validators.Load(s); ok {
		return v.(*validator)
	}
	built := r.compile(s)
	actual, _ := r.validators.LoadOrStore(s, built)
	return actual.(*validator)
}

func (r *Registry) compile(s *Shape) *validator {
	v := &validator{shape: s, fields: make([]fieldCheck, len(s.fields))}
	for i, f := range s.fields {
		v.fields[i] = fieldCheck{field: f, check: r.compileType(f.Type)}
	}
	return v
}

func (r *Registry) compileType(t Type) checkFunc {
	var inner checkFunc
	switch t.Kind {
	case KindAny:
		return func(any, string, string, *options, *errs.Issues) {}
	case KindString:
		inner = scalar(t, func(v any) bool { _, ok := v.(string); return ok })
	case KindNumber:
		inner = scalar(t, isNumber)
	case KindInteger:
		inner = scalar(t, isInteger)
	case KindBool:
		inner = scalar(t, func(v any) bool { _, ok := v.(bool); return ok })
	case KindNull:
		inner = scalar(t, func(v any) bool { return v == nil })
	case KindRef:
		target := t.target
		inner = func(v any, path, field string, o *options, iss *errs.Issues) {
			r.validatorFor(target).check(v, path, field, o, iss)
		}
	case KindArray:
		elem := r.compileType(*t.Elem)
		inner = func(v any, path, field string, o *options, iss *errs.Issues) {
			seq, ok := util.AsSlice(v)
			if !ok {
				appendInvalidType(iss, path, field, t, v)
				return
			}
			for i, item := range seq {
				elem(item, errs.JoinPointer(path, strconv.Itoa(i)), field, o, iss)
			}
		}
	case KindMap:
		elem := r.compileType(*t.Elem)
		inner = func(v any, path, field string, o *options, iss *errs.Issues) {
			m, ok := util.AsMap(v)
			if !ok {
				appendInvalidType(iss, path, field, t, v)
				return
			}
			for _, k := range sortedKeys(m) {
				elem(m[k], errs.JoinPointer(path, k), k, o, iss)
			}
		}
	case KindUnion:
		opts := make([]checkFunc, len(t.Options))
		for i, opt := range t.Options {
			opts[i] = r.compileType(opt)
		}
		inner = func(v any, path, field string, o *options, iss *errs.Issues) {
			for _, check := range opts {
				var tmp errs.Issues
				check(v, path, field, o, &tmp)
				if len(tmp) == 0 {
					return
				}
			}
			*iss = append(*iss, errs.Issue{
				Path:    path,
				Field:   field,
				Code:    errs.CodeNoMatch,
				Message: fmt.Sprintf("value of type %s matches none of %s", typeName(v), t.String()),
			})
		}
	default:
		inner = func(v any, path, field string, o *options, iss *errs.Issues) {
			appendInvalidType(iss, path, field, t, v)
		}
	}

	return func(v any, path, field string, o *options, iss *errs.Issues) {
		if v == nil && t.Nullable {
			return
		}
		if o.sentinels && LooksLikeRemoteError(v) {
			return
		}
		inner(v, path, field, o, iss)
	}
}

func scalar(t Type, ok func(any) bool) checkFunc {
	return func(v any, path, field string, _ *options, iss *errs.Issues) {
		if !ok(v) {
			appendInvalidType(iss, path, field, t, v)
		}
	}
}

func (v *validator) check(candidate any, path, field string, o *options, iss *errs.Issues) {
	m, ok := util.AsMap(candidate)
	if !ok {
		*iss = append(*iss, errs.Issue{
			Path:    path,
			Field:   field,
			Code:    errs.CodeInvalidType,
			Message: fmt.Sprintf("expected %s object, got %s", v.shape.name, typeName(candidate)),
		})
		return
	}
	v.checkMap(m, path, o, iss)
}

func (v *validator) checkMap(m map[string]any, path string, o *options, iss *errs.Issues) {
	for _, fc := range v.fields {
		name := fc.field.Name
		fpath := errs.JoinPointer(path, name)
		val, present := m[name]
		if !present {
			if fc.field.Required {
				*iss = append(*iss, errs.Issue{Path: fpath, Field: name, Code: errs.CodeRequired, Message: "field required"})
			}
			continue
		}
		fc.check(val, fpath, name, o, iss)
	}

	if o.unknown != UnknownReject {
		return
	}
	for _, k := range sortedKeys(m) {
		if _, declared := v.shape.index[k]; !declared {
			*iss = append(*iss, errs.Issue{
				Path:    errs.JoinPointer(path, k),
				Field:   k,
				Code:    errs.CodeUnknownKey,
				Message: fmt.Sprintf("field not declared by %s", v.shape.name),
			})
		}
	}
}

// Validate checks candidate against shape and returns it unchanged as a
// mapping. On failure it returns a *errs.ShapeValidationError listing every
// failing field.
func Validate(shape *Shape, candidate any, opts ...Option) (map[string]any, error) {
	if shape == nil {
		return nil, &errs.InvalidParameterError{Name: "shape", Reason: "must not be nil"}
	}
	if !shape.reg.Finalized() {
		return nil, &errs.ForwardReferenceUnresolvedError{Shape: shape.name}
	}

	o := newOptions(opts)
	m, ok := util.AsMap(candidate)
	if !ok {
		return nil, &errs.ShapeValidationError{
			Shape: shape.name,
			Issues: errs.Issues{{
				Code:    errs.CodeInvalidType,
				Message: fmt.Sprintf("expected object, got %s", typeName(candidate)),
			}},
		}
	}

	var iss errs.Issues
	shape.reg.validatorFor(shape).checkMap(m, "", o, &iss)
	if len(iss) > 0 {
		return nil, &errs.ShapeValidationError{Shape: shape.name, Issues: iss}
	}
	return m, nil
}

// ValidateMany validates every element of the candidates sequence. It fails
// with *errs.NotASequenceError if candidates is not a sequence, and with the
// first failing element's error otherwise. No partial result is returned.
func ValidateMany(shape *Shape, candidates any, opts ...Option) ([]map[string]any, error) {
	if shape == nil {
		return nil, &errs.InvalidParameterError{Name: "shape", Reason: "must not be nil"}
	}
	seq, ok := util.AsSlice(candidates)
	if !ok {
		return nil, &errs.NotASequenceError{Shape: shape.name, Got: typeName(candidates)}
	}

	out := make([]map[string]any, 0, len(seq))
	for i, c := range seq {
		m, err := Validate(shape, c, opts...)
		if err != nil {
			if sve, ok := err.(*errs.ShapeValidationError); ok {
				return nil, &errs.ShapeValidationError{Shape: sve.Shape, Issues: sve.Issues.Prefix(strconv.Itoa(i))}
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Validate checks candidate against s. See the package-level Validate.
func (s *Shape) Validate(candidate any, opts ...Option) (map[string]any, error) {
	return Validate(s, candidate, opts...)
}

// CheckValue validates a single value against a declared type of a shape in
// this registry. The issues carry paths relative to the given field name.
func (r *Registry) CheckValue(owner string, field string, t Type, v any, opts ...Option) error {
	if !r.Finalized() {
		return &errs.ForwardReferenceUnresolvedError{Shape: owner}
	}
	t = cloneType(t)
	var missing []*errs.ForwardReferenceUnresolvedError
	r.mu.RLock()
	r.linkType(owner, &t, &missing)
	r.mu.RUnlock()
	if len(missing) > 0 {
		return missing[0]
	}

	var iss errs.Issues
	r.compileType(t)(v, errs.JoinPointer("", field), field, newOptions(opts), &iss)
	if len(iss) > 0 {
		return &errs.ShapeValidationError{Shape: owner, Issues: iss}
	}
	return nil
}

func appendInvalidType(iss *errs.Issues, path, field string, t Type, v any) {
	*iss = append(*iss, errs.Issue{
		Path:    path,
		Field:   field,
		Code:    errs.CodeInvalidType,
		Message: fmt.Sprintf("expected %s, got %s", t.String(), typeName(v)),
	})
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	}
	return false
}

func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return !math.IsInf(n, 0) && n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case json.Number:
		_, err := n.Int64()
		return err == nil
	}
	return false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if isNumber(v) {
		return "number"
	}
	if _, ok := util.AsMap(v); ok {
		return "object"
	}
	if util.IsSlice(v) {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
