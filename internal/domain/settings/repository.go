package settings

import (
	"context"
	"errors"
)

// ErrNotConfigured indicates the settings document has never been seeded;
// the engine treats this as a failed precondition, not an internal error.
var ErrNotConfigured = errors.New("global settings not configured")

// Repository provides read access to the settings singleton. Writes happen
// through administrative tooling outside this service.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
}
