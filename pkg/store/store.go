// Package store keeps hosted form page instances between requests.
package store

import (
	"context"
	"errors"

	"agentconsole/internal/agentform"
)

// ErrPageNotFound is returned for missing or expired pages
var ErrPageNotFound = errors.New("page not found")

// PageStore persists page snapshots keyed by page id for the lifetime of the page
type PageStore interface {
	// Save stores the snapshot and refreshes its expiry
	Save(ctx context.Context, s *agentform.Snapshot) error

	// Load returns the snapshot or ErrPageNotFound
	Load(ctx context.Context, id string) (*agentform.Snapshot, error)

	// Delete removes the page; deleting a missing page is not an error
	Delete(ctx context.Context, id string) error
}

// Sweeper removes state left behind by expired pages
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}
