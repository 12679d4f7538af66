package models

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/tablekit/airtable.go/internal/codec"
	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
)

var jsonCodec codec.Unmarshaler = codec.JSONCodec{}

// DecodeResponse decodes a response body into a mapping. A body that is an
// error envelope, {"error": "TYPE"} or {"error": {"type", "message"}}, is
// returned as *errs.RemoteError instead.
func DecodeResponse(data []byte) (map[string]any, error) {
	if remote := sniffRemoteError(data); remote != nil {
		return nil, remote
	}
	m, err := codec.DecodeObject(jsonCodec, data)
	if err != nil {
		return nil, fmt.Errorf("models: decode response: %w", err)
	}
	return m, nil
}

// DecodeRecord decodes and parses a record response. A not-found envelope
// becomes *errs.RecordNotFoundError for id.
func DecodeRecord(class *Class, id string, data []byte, opts ...ParseOption) (*Object, error) {
	m, err := DecodeResponse(data)
	if err != nil {
		var remote *errs.RemoteError
		if errors.As(err, &remote) && isNotFound(remote.Type) {
			return nil, &errs.RecordNotFoundError{ID: id}
		}
		return nil, err
	}
	return Parse(class, m, opts...)
}

func isNotFound(t string) bool {
	switch t {
	case constants.RemoteErrorNotFound, constants.RemoteErrorModelNotFound, constants.RemoteErrorRowNotFound:
		return true
	}
	return false
}

// sniffRemoteError inspects only the top-level "error" key, so record bodies
// are not decoded twice.
func sniffRemoteError(data []byte) *errs.RemoteError {
	value, dataType, _, err := jsonparser.Get(data, constants.KeyError)
	if err != nil {
		return nil
	}
	switch dataType {
	case jsonparser.String:
		t, err := jsonparser.ParseString(value)
		if err != nil {
			return nil
		}
		return &errs.RemoteError{Type: t}
	case jsonparser.Object:
		t, err := jsonparser.GetString(value, "type")
		if err != nil {
			return nil
		}
		msg, _ := jsonparser.GetString(value, "message")
		return &errs.RemoteError{Type: t, Message: msg}
	}
	return nil
}
