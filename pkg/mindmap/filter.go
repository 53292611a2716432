package mindmap

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/entitymap/pkg/model"
)

// FilterState is the set of type ids selected for display. The empty set
// shows every type. FilterState values are immutable: Toggle and Prune
// return new values.
type FilterState struct {
	ids map[string]struct{}
}

// NewFilter returns a filter selecting the given type ids.
func NewFilter(ids ...string) FilterState {
	f := FilterState{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			f.ids[id] = struct{}{}
		}
	}
	return f
}

// Toggle returns a copy of f with id added if absent or removed if present.
func (f FilterState) Toggle(id string) FilterState {
	next := FilterState{ids: maps.Clone(f.ids)}
	if next.ids == nil {
		next.ids = make(map[string]struct{}, 1)
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Has reports whether id is selected.
func (f FilterState) Has(id string) bool {
	_, ok := f.ids[id]
	return ok
}

// Empty reports whether no type is selected.
func (f FilterState) Empty() bool { return len(f.ids) == 0 }

// IDs returns the selected ids in sorted order.
func (f FilterState) IDs() []string {
	return slices.Sorted(maps.Keys(f.ids))
}

// Allows reports whether entities of typeID pass the filter.
func (f FilterState) Allows(typeID string) bool {
	return f.Empty() || f.Has(typeID)
}

// Prune drops ids that no longer name one of types.
func (f FilterState) Prune(types []model.Type) FilterState {
	known := make(map[string]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}
	next := FilterState{ids: make(map[string]struct{}, len(f.ids))}
	for id := range f.ids {
		if known[id] {
			next.ids[id] = struct{}{}
		}
	}
	return next
}

// Equal reports whether f and other select the same ids.
func (f FilterState) Equal(other FilterState) bool {
	return slices.Equal(f.IDs(), other.IDs())
}

// MarshalJSON encodes the filter as a sorted array of ids.
func (f FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.IDs())
}

// UnmarshalJSON decodes an array of ids.
func (f *FilterState) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*f = NewFilter(ids...)
	return nil
}
