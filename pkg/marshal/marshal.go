// Package marshal converts validated JSON-compatible values into Go structs.
package marshal

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tablekit/airtable.go/internal/util"
)

// Unmarshal loads a decoded JSON value (a mapping, a sequence or a scalar)
// into v by a JSON round trip.
func Unmarshal(data, v any) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialise value '%+v': %w", data, err)
	}
	if err := json.Unmarshal(jsonBytes, v); err != nil {
		return fmt.Errorf("failed unmarshaling '%s': %w", jsonBytes, err)
	}
	return nil
}

// UnmarshalMapToStruct is like Unmarshal for a single mapping, but rejects
// keys that v does not declare.
func UnmarshalMapToStruct(data map[string]any, v any) error {
	if util.IsSlice(v) {
		return fmt.Errorf("destination must not be a slice, got %T", v)
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialise mapping: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(jsonBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed unmarshaling mapping into %T: %w", v, err)
	}
	return nil
}

// ToMap converts a struct into a mapping using its json tags.
func ToMap(v any) (map[string]any, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, fmt.Errorf("value of type %T is not an object: %w", v, err)
	}
	return out, nil
}
