// Package model defines the knowledge-base data: user-defined types with
// ordered, typed attributes, and the entities that instantiate them.
//
// The whole document is a [Data] value and serializes to the flat-file
// format shared by every store backend:
//
//	{
//	  "types":    [{"id": "t1", "name": "Person", "attributes": [{"name": "Boss", "type": "Link", "linkedTypeId": "t1"}]}],
//	  "entities": [{"id": "e1", "name": "Ada", "typeId": "t1", "attributes": {"Boss": "e2"}}]
//	}
//
// A Link attribute stores the referenced entity's id as its raw value. The
// inverse relation (who references an entity) is available through
// [Data.Backlinks].
package model
