package mindmap

import (
	"github.com/matzehuels/entitymap/pkg/model"
)

// Node is one entity card in the layout.
type Node struct {
	ID     string
	Label  string
	Type   *model.Type
	Entity *model.Entity

	// X and Y are the card center, set by Arrange.
	X, Y          float64
	Width, Height float64
	Rank          int
}

// Bounds returns the card rectangle.
func (n Node) Bounds() Rect {
	return Rect{X: n.X - n.Width/2, Y: n.Y - n.Height/2, Width: n.Width, Height: n.Height}
}

// Edge is a directed link from the entity holding a link attribute to the
// entity it references.
type Edge struct {
	From, To  string
	Attribute string
}

// Graph is the node and edge set of one render. Node order is entity order
// and doubles as draw order.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

func (g *Graph) index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// CardHeight returns the height of a card for an entity of type t: a fixed
// header plus one line per non-link attribute, never below MinNodeHeight.
func CardHeight(t *model.Type) float64 {
	return max(MinNodeHeight, BaseHeight+LineHeight*float64(len(t.PreviewAttributes())))
}

// Build derives the graph for the entities in data that pass filter.
//
// Entities whose type is missing are skipped, as are repeated entity ids
// after the first. Link values that are empty or point outside the node set
// produce no edge, so every edge endpoint is a node.
func Build(data model.Data, filter FilterState) Graph {
	types := data.TypeIndex()
	var g Graph
	ids := make(map[string]bool, len(data.Entities))

	for i := range data.Entities {
		e := &data.Entities[i]
		if !filter.Allows(e.TypeID) || ids[e.ID] {
			continue
		}
		t, ok := types[e.TypeID]
		if !ok {
			continue
		}
		ids[e.ID] = true
		g.Nodes = append(g.Nodes, Node{
			ID:     e.ID,
			Label:  e.Name,
			Type:   t,
			Entity: e,
			Width:  NodeWidth,
			Height: CardHeight(t),
		})
	}

	for _, n := range g.Nodes {
		for _, a := range n.Type.Attributes {
			if !a.Kind.IsLink() {
				continue
			}
			target := n.Entity.Value(a.Name)
			if target == "" || !ids[target] {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: n.ID, To: target, Attribute: a.Name})
		}
	}
	return g
}
