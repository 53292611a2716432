package mindmap

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/entitymap/pkg/model"
)

func TestFilterToggle(t *testing.T) {
	var f FilterState
	if !f.Empty() || !f.Allows("anything") {
		t.Fatal("zero filter should allow everything")
	}

	on := f.Toggle("topic")
	if !on.Has("topic") || on.Allows("note") || !on.Allows("topic") {
		t.Errorf("after toggle: ids=%v", on.IDs())
	}
	if !f.Empty() {
		t.Error("Toggle must not modify the receiver")
	}

	off := on.Toggle("topic")
	if !off.Empty() {
		t.Errorf("toggle twice: ids=%v, want empty", off.IDs())
	}
}

func TestFilterToggleTwiceRestoresGraph(t *testing.T) {
	data := chain()
	data.Entities = append(data.Entities, entity("n1", "note", "About", "A"))

	base := Build(data, FilterState{})
	again := Build(data, FilterState{}.Toggle("note").Toggle("note"))
	if len(base.Nodes) != len(again.Nodes) || len(base.Edges) != len(again.Edges) {
		t.Errorf("nodes %d/%d edges %d/%d", len(base.Nodes), len(again.Nodes), len(base.Edges), len(again.Edges))
	}
}

func TestFilterIDsSorted(t *testing.T) {
	f := NewFilter("b", "a", "", "c")
	if got := f.IDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestFilterPrune(t *testing.T) {
	f := NewFilter("topic", "gone")
	got := f.Prune([]model.Type{topicType, noteType})
	if !slices.Equal(got.IDs(), []string{"topic"}) {
		t.Errorf("Prune() = %v", got.IDs())
	}
	if !f.Has("gone") {
		t.Error("Prune must not modify the receiver")
	}
}

func TestFilterJSON(t *testing.T) {
	b, err := json.Marshal(NewFilter("z", "a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["a","z"]` {
		t.Errorf("Marshal = %s", b)
	}
	var f FilterState
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatal(err)
	}
	if !f.Equal(NewFilter("a", "z")) {
		t.Errorf("round trip = %v", f.IDs())
	}
}
