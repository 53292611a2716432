package mindmap

import "github.com/matzehuels/entitymap/pkg/model"

var (
	topicType = model.Type{ID: "topic", Name: "Topic", Attributes: []model.Attribute{
		{Name: "Summary", Kind: model.KindText},
		{Name: "Next", Kind: model.KindLink},
	}}
	noteType = model.Type{ID: "note", Name: "Note", Attributes: []model.Attribute{
		{Name: "About", Kind: model.KindLink, LinkedTypeID: "topic"},
	}}
)

func entity(id, typeID string, attrs ...string) model.Entity {
	m := make(map[string]string, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	return model.Entity{ID: id, Name: "Entity " + id, TypeID: typeID, Attributes: m}
}

// chain returns A -> B -> C linked through "Next".
func chain() model.Data {
	return model.Data{
		Types: []model.Type{topicType, noteType},
		Entities: []model.Entity{
			entity("A", "topic", "Next", "B"),
			entity("B", "topic", "Next", "C"),
			entity("C", "topic"),
		},
	}
}

func ranks(g Graph) map[string]int {
	out := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		out[n.ID] = n.Rank
	}
	return out
}
