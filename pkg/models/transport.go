package models

import (
	"context"

	"github.com/rs/zerolog"
)

// Transport performs the remote calls behind Save and Delete. Endpoints are
// opaque to this package; responses are decoded JSON objects. A nil response
// with a nil error means the service sent nothing to validate.
type Transport interface {
	Create(ctx context.Context, endpoint string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, endpoint, id string, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, endpoint, id string) (map[string]any, error)
}

var logger = zerolog.Nop()

// SetLogger installs the logger used for lifecycle and parse events.
// It is not safe to call concurrently with other functions of this package.
func SetLogger(l zerolog.Logger) {
	logger = l
}
