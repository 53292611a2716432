// Package viewstate persists the mindmap view between CLI invocations.
//
// The only state today is the type filter. States are keyed by a name so
// that different data stores keep separate filters; the CLI derives the name
// from the configured store.
//
// Usage:
//
//	vs, err := viewstate.NewFileStore("") // ~/.config/entitymap/views/
//	st, err := vs.Get(ctx, key)
//	st.Filter = st.Filter.Toggle("t1")
//	err = vs.Set(ctx, key, st)
package viewstate

import (
	"context"
	"time"

	"github.com/matzehuels/entitymap/pkg/mindmap"
)

// State is the persisted view of one data store.
type State struct {
	Filter    mindmap.FilterState `json:"filter"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Store is the interface for view state backends.
type Store interface {
	// Get returns the saved state, or the zero State when none exists.
	Get(ctx context.Context, key string) (State, error)

	// Set stores st under key, stamping UpdatedAt.
	Set(ctx context.Context, key string, st State) error

	// Delete removes the state. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
