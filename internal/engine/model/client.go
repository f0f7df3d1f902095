package model

import (
	"context"
	"errors"
)

// ErrNoModel is the sentinel a Session returns when the service has no model
// of the requested kind for a module. Routine absence, not a transport fault.
var ErrNoModel = errors.New("no such model for module")

// ToolingClient opens sessions against the external model service. The
// transport itself (daemon protocol, wire format) lives behind this interface
// and is not part of this module.
type ToolingClient interface {
	Connect(ctx context.Context, rootDir string) (Session, error)
}

// Session is one established connection, created per top-level resolve and
// passed explicitly through every call. Implementations must tolerate
// concurrent Fetch calls.
type Session interface {
	// Fetch issues one request. The returned value is one of the typed models
	// in this package, matching kind. Returns ErrNoModel (possibly wrapped)
	// when the service has no such model for the handle.
	Fetch(ctx context.Context, handle Handle, kind Kind, params *Params) (any, error)
	Close() error
}
