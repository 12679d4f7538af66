package shapes

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const jsonSchemaDraft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema projects a finalized shape into a JSON Schema (draft 2020-12)
// document. Referenced shapes are emitted under $defs, so self-referential
// shapes are representable. With Strict, objects disallow undeclared keys.
func JSONSchema(s *Shape, opts ...Option) map[string]any {
	o := newOptions(opts)
	defs := map[string]any{}
	root := objectSchema(s, defs, o)
	root["$schema"] = jsonSchemaDraft
	root["title"] = s.name
	if len(defs) > 0 {
		root["$defs"] = defs
	}
	return root
}

func objectSchema(s *Shape, defs map[string]any, o *options) map[string]any {
	props := make(map[string]any, len(s.fields))
	required := []string{}
	for _, f := range s.fields {
		props[f.Name] = typeSchema(f.Type, defs, o)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	if o.unknown == UnknownReject {
		out["additionalProperties"] = false
	}
	return out
}

func typeSchema(t Type, defs map[string]any, o *options) map[string]any {
	var out map[string]any
	switch t.Kind {
	case KindAny:
		return map[string]any{}
	case KindString, KindNumber, KindInteger, KindBool, KindNull:
		out = map[string]any{"type": t.Kind.String()}
	case KindRef:
		if t.target == nil {
			out = map[string]any{}
			break
		}
		if _, ok := defs[t.Name]; !ok {
			// Placeholder first so cycles terminate.
			defs[t.Name] = map[string]any{}
			defs[t.Name] = objectSchema(t.target, defs, o)
		}
		out = map[string]any{"$ref": "#/$defs/" + t.Name}
	case KindArray:
		out = map[string]any{"type": "array", "items": typeSchema(*t.Elem, defs, o)}
	case KindMap:
		out = map[string]any{"type": "object", "additionalProperties": typeSchema(*t.Elem, defs, o)}
	case KindUnion:
		anyOf := make([]any, len(t.Options))
		for i, opt := range t.Options {
			anyOf[i] = typeSchema(opt, defs, o)
		}
		out = map[string]any{"anyOf": anyOf}
	}
	if t.Nullable {
		return map[string]any{"anyOf": []any{out, map[string]any{"type": "null"}}}
	}
	return out
}

// CompileJSONSchema compiles the JSON Schema projection of s into a standard
// validator for collaborators that prefer one.
func CompileJSONSchema(s *Shape, opts ...Option) (*jsonschema.Schema, error) {
	data, err := json.Marshal(JSONSchema(s, opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %s: %w", s.name, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	location := "https://airtable.go/shapes/" + url.PathEscape(s.name) + ".json"
	if err := compiler.AddResource(location, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", s.name, err)
	}
	return compiler.Compile(location)
}
