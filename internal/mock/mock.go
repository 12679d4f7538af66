// Package mock provides an in-memory transport for exercising model
// lifecycles without a remote service.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/marshal"
)

// Call is a request received by the transport.
type Call struct {
	Method   string
	Endpoint string
	ID       string
	Payload  map[string]any
}

// Transport stores objects per endpoint. Payloads carrying a "fields" mapping
// are stored as record envelopes, anything else as flat objects.
type Transport struct {
	// Prefix is prepended to generated ids. Endpoints ending in "comments"
	// use the comment id prefix instead.
	Prefix string
	// Now returns the creation time of new objects.
	Now func() time.Time

	mu      sync.Mutex
	objects map[string]map[string]map[string]any
	calls   []Call
	fail    error
}

func New() *Transport {
	return &Transport{
		Prefix:  constants.RecordIDPrefix,
		Now:     time.Now,
		objects: map[string]map[string]map[string]any{},
	}
}

// Seed stores obj under its id as if it had been created remotely.
func (t *Transport) Seed(endpoint string, obj map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, _ := obj[constants.KeyID].(string)
	t.store(endpoint, id, copyObject(obj))
}

// FailNext makes the next call return err without touching the store.
func (t *Transport) FailNext(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = err
}

// Calls returns the calls received so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Object returns a copy of a stored object.
func (t *Transport) Object(endpoint, id string) (map[string]any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objects[endpoint][id]
	if !ok {
		return nil, false
	}
	return copyObject(obj), true
}

func (t *Transport) Create(_ context.Context, endpoint string, payload map[string]any) (map[string]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.record("create", endpoint, "", payload); err != nil {
		return nil, err
	}
	id := t.newID(endpoint)
	created := t.Now().UTC().Format(constants.TimestampLayout)

	obj := copyObject(payload)
	obj[constants.KeyID] = id
	obj[constants.KeyCreatedTime] = created
	t.store(endpoint, id, obj)
	return copyObject(obj), nil
}

func (t *Transport) Update(_ context.Context, endpoint, id string, payload map[string]any) (map[string]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.record("update", endpoint, id, payload); err != nil {
		return nil, err
	}
	obj, ok := t.objects[endpoint][id]
	if !ok {
		return nil, &errs.RemoteError{Type: constants.RemoteErrorNotFound}
	}

	src := copyObject(payload)
	fields, nested := src[constants.KeyFields].(map[string]any)
	if nested {
		src = fields
	}
	delete(src, constants.KeyID)
	if len(src) == 0 {
		return nil, &errs.RemoteError{Type: constants.RemoteErrorInvalidRequest, Message: "nothing to update"}
	}

	dst := obj
	if nested {
		dst, _ = obj[constants.KeyFields].(map[string]any)
		if dst == nil {
			dst = map[string]any{}
			obj[constants.KeyFields] = dst
		}
	}
	for k, v := range src {
		dst[k] = v
	}
	return copyObject(obj), nil
}

func (t *Transport) Delete(_ context.Context, endpoint, id string) (map[string]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.record("delete", endpoint, id, nil); err != nil {
		return nil, err
	}
	if _, ok := t.objects[endpoint][id]; !ok {
		return nil, &errs.RemoteError{Type: constants.RemoteErrorNotFound}
	}
	delete(t.objects[endpoint], id)
	return map[string]any{constants.KeyID: id, constants.KeyDeleted: true}, nil
}

func (t *Transport) record(method, endpoint, id string, payload map[string]any) error {
	var p map[string]any
	if payload != nil {
		p = copyObject(payload)
	}
	t.calls = append(t.calls, Call{Method: method, Endpoint: endpoint, ID: id, Payload: p})
	if t.fail != nil {
		err := t.fail
		t.fail = nil
		return err
	}
	return nil
}

func (t *Transport) store(endpoint, id string, obj map[string]any) {
	if t.objects[endpoint] == nil {
		t.objects[endpoint] = map[string]map[string]any{}
	}
	t.objects[endpoint][id] = obj
}

// newID returns a prefixed id of the remote id length.
func (t *Transport) newID(endpoint string) string {
	prefix := t.Prefix
	if strings.HasSuffix(endpoint, "comments") {
		prefix = constants.CommentIDPrefix
	}
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	n := constants.IDLength - len(prefix)
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return prefix + s[:n]
}

// copyObject deep-copies obj through its JSON form, like a real round trip.
func copyObject(obj map[string]any) map[string]any {
	out := map[string]any{}
	if err := marshal.Unmarshal(obj, &out); err != nil {
		panic(err)
	}
	return out
}
