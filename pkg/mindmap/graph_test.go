package mindmap

import (
	"testing"

	"github.com/matzehuels/entitymap/pkg/model"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		data      model.Data
		filter    FilterState
		wantNodes []string
		wantEdges []Edge
	}{
		{
			name:      "chain",
			data:      chain(),
			wantNodes: []string{"A", "B", "C"},
			wantEdges: []Edge{{"A", "B", "Next"}, {"B", "C", "Next"}},
		},
		{
			name: "dangling link dropped",
			data: model.Data{
				Types:    []model.Type{topicType},
				Entities: []model.Entity{entity("A", "topic", "Next", "ghost")},
			},
			wantNodes: []string{"A"},
		},
		{
			name: "missing type skipped",
			data: model.Data{
				Types: []model.Type{topicType},
				Entities: []model.Entity{
					entity("A", "topic", "Next", "X"),
					entity("X", "deleted-type"),
				},
			},
			wantNodes: []string{"A"},
		},
		{
			name: "filter drops edges to hidden nodes",
			data: model.Data{
				Types: []model.Type{topicType, noteType},
				Entities: []model.Entity{
					entity("A", "topic"),
					entity("n1", "note", "About", "A"),
				},
			},
			filter:    NewFilter("note"),
			wantNodes: []string{"n1"},
		},
		{
			name: "mutual links",
			data: model.Data{
				Types: []model.Type{topicType},
				Entities: []model.Entity{
					entity("A", "topic", "Next", "B"),
					entity("B", "topic", "Next", "A"),
				},
			},
			wantNodes: []string{"A", "B"},
			wantEdges: []Edge{{"A", "B", "Next"}, {"B", "A", "Next"}},
		},
		{
			name: "duplicate id keeps first",
			data: model.Data{
				Types: []model.Type{topicType},
				Entities: []model.Entity{
					entity("A", "topic"),
					entity("A", "topic"),
				},
			},
			wantNodes: []string{"A"},
		},
		{
			name: "empty",
			data: model.Data{Types: []model.Type{topicType}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.data, tt.filter)
			if len(g.Nodes) != len(tt.wantNodes) {
				t.Fatalf("nodes = %d, want %d", len(g.Nodes), len(tt.wantNodes))
			}
			for i, id := range tt.wantNodes {
				if g.Nodes[i].ID != id {
					t.Errorf("node[%d] = %s, want %s", i, g.Nodes[i].ID, id)
				}
			}
			if len(g.Edges) != len(tt.wantEdges) {
				t.Fatalf("edges = %v, want %v", g.Edges, tt.wantEdges)
			}
			for i, e := range tt.wantEdges {
				if g.Edges[i] != e {
					t.Errorf("edge[%d] = %v, want %v", i, g.Edges[i], e)
				}
			}
		})
	}
}

func TestBuildEdgesStayInsideNodeSet(t *testing.T) {
	data := chain()
	data.Entities = append(data.Entities,
		entity("n1", "note", "About", "A"),
		entity("n2", "note", "About", "missing"),
	)
	for _, f := range []FilterState{{}, NewFilter("topic"), NewFilter("note")} {
		g := Build(data, f)
		for _, e := range g.Edges {
			if _, ok := g.Node(e.From); !ok {
				t.Errorf("filter %v: edge source %s not a node", f.IDs(), e.From)
			}
			if _, ok := g.Node(e.To); !ok {
				t.Errorf("filter %v: edge target %s not a node", f.IDs(), e.To)
			}
		}
	}
}

func TestCardHeight(t *testing.T) {
	prev := 0.0
	for n := 0; n <= 10; n++ {
		typ := &model.Type{Attributes: []model.Attribute{{Name: "L", Kind: model.KindLink}}}
		for i := 0; i < n; i++ {
			typ.Attributes = append(typ.Attributes, model.Attribute{Name: string(rune('a' + i)), Kind: model.KindText})
		}
		h := CardHeight(typ)
		if h < MinNodeHeight {
			t.Errorf("CardHeight(%d attrs) = %v, below floor", n, h)
		}
		if h < prev {
			t.Errorf("CardHeight(%d attrs) = %v, smaller than %v", n, h, prev)
		}
		prev = h
	}

	typ := &model.Type{}
	for i := 0; i < 5; i++ {
		typ.Attributes = append(typ.Attributes, model.Attribute{Name: string(rune('a' + i)), Kind: model.KindInteger})
	}
	if got, want := CardHeight(typ), 170.0; got != want {
		t.Errorf("CardHeight(5 attrs) = %v, want %v", got, want)
	}
}
