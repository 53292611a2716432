package model

import (
	"slices"

	"github.com/matzehuels/entitymap/pkg/errors"
)

// Attribute is a named, typed field on a Type.
type Attribute struct {
	Name string `json:"name" bson:"name"`
	Kind Kind   `json:"type" bson:"type"`

	// LinkedTypeID constrains which entities a Link attribute may
	// reference. Empty means any type.
	LinkedTypeID string `json:"linkedTypeId,omitempty" bson:"linked_type_id,omitempty"`
}

// Type is a user-defined schema for entities.
type Type struct {
	ID         string      `json:"id" bson:"_id"`
	Name       string      `json:"name" bson:"name"`
	Attributes []Attribute `json:"attributes" bson:"attributes"`
}

// Attribute returns the attribute with the given name.
func (t *Type) Attribute(name string) (Attribute, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// PreviewAttributes returns the attributes shown on a mindmap card, which
// are all attributes except links, in declaration order.
func (t *Type) PreviewAttributes() []Attribute {
	out := make([]Attribute, 0, len(t.Attributes))
	for _, a := range t.Attributes {
		if !a.Kind.IsLink() {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks the type name and its attribute declarations.
func (t *Type) Validate() error {
	if err := errors.ValidateName("type name", t.Name); err != nil {
		return err
	}
	seen := make(map[string]bool, len(t.Attributes))
	for _, a := range t.Attributes {
		if err := errors.ValidateName("attribute name", a.Name); err != nil {
			return err
		}
		if seen[a.Name] {
			return errors.New(errors.ErrCodeInvalidAttribute, "duplicate attribute %q", a.Name)
		}
		seen[a.Name] = true
		if _, err := ParseKind(string(a.Kind)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAttribute, err, "attribute %q", a.Name)
		}
	}
	return nil
}

// Entity is a record instantiating a Type.
type Entity struct {
	ID         string            `json:"id" bson:"_id"`
	Name       string            `json:"name" bson:"name"`
	TypeID     string            `json:"typeId" bson:"type_id"`
	Attributes map[string]string `json:"attributes" bson:"attributes"`
}

// Value returns the raw value of the named attribute.
func (e *Entity) Value(name string) string {
	return e.Attributes[name]
}

// Data is the complete knowledge base.
type Data struct {
	Types    []Type   `json:"types" bson:"types"`
	Entities []Entity `json:"entities" bson:"entities"`
}

// Default returns the document a fresh store starts with.
func Default() Data {
	return Data{
		Types: []Type{{
			ID:         "t1",
			Name:       "Example",
			Attributes: []Attribute{{Name: "Title", Kind: KindText}},
		}},
		Entities: []Entity{},
	}
}

// Type returns the type with the given id, or nil.
func (d *Data) Type(id string) *Type {
	for i := range d.Types {
		if d.Types[i].ID == id {
			return &d.Types[i]
		}
	}
	return nil
}

// Entity returns the entity with the given id, or nil.
func (d *Data) Entity(id string) *Entity {
	for i := range d.Entities {
		if d.Entities[i].ID == id {
			return &d.Entities[i]
		}
	}
	return nil
}

// TypeIndex maps type ids to types for repeated lookups.
func (d *Data) TypeIndex() map[string]*Type {
	idx := make(map[string]*Type, len(d.Types))
	for i := range d.Types {
		idx[d.Types[i].ID] = &d.Types[i]
	}
	return idx
}

// Backlinks returns the entities that reference id through any attribute
// value, in document order.
func (d *Data) Backlinks(id string) []Entity {
	var out []Entity
	for _, e := range d.Entities {
		if e.ID == id {
			continue
		}
		for _, v := range e.Attributes {
			if v == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// LinkCandidates returns the entities a Link attribute may point at.
func (d *Data) LinkCandidates(a Attribute) []Entity {
	if a.LinkedTypeID == "" {
		return slices.Clone(d.Entities)
	}
	var out []Entity
	for _, e := range d.Entities {
		if e.TypeID == a.LinkedTypeID {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that the document has both collections and that every
// type is well formed.
func (d *Data) Validate() error {
	if d.Types == nil || d.Entities == nil {
		return errors.New(errors.ErrCodeInvalidData, "data must contain types and entities")
	}
	for i := range d.Types {
		if err := d.Types[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
