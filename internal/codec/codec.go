package codec

import (
	"errors"
	"io"

	"github.com/goccy/go-json"
)

type Encoder interface {
	Encode(v any) error
}

type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
}

// ErrNotObject is returned by DecodeObject for a null document.
var ErrNotObject = errors.New("codec: document is not an object")

// JSONCodec implements Marshaler and Unmarshaler with goccy/go-json.
type JSONCodec struct {
	// Indent, when set, is used by NewEncoder for pretty output.
	Indent string
}

var _ Marshaler = JSONCodec{}
var _ Unmarshaler = JSONCodec{}

func (c JSONCodec) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

func (c JSONCodec) NewEncoder(w io.Writer) Encoder {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	return enc
}

func (JSONCodec) Unmarshal(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}

// DecodeObject decodes a JSON document that must be an object.
func DecodeObject(u Unmarshaler, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := u.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}
