package document

import (
	"encoding/json"
	"fmt"
)

// Section names the top-level groups of a configuration document.
type Section string

const (
	SectionSkills  Section = "skills"
	SectionMCP     Section = "mcp"
	SectionRules   Section = "rules"
	SectionPrompts Section = "prompts"
	SectionHooks   Section = "hooks"
	SectionEditors Section = "editors"
)

// Sections lists every recognized section in canonical order.
func Sections() []Section {
	return []Section{SectionSkills, SectionMCP, SectionRules, SectionPrompts, SectionHooks, SectionEditors}
}

// ItemKind discriminates the three forms a section item can take.
type ItemKind int

const (
	// ItemObject is a full descriptor, e.g. {"command": "npx", "args": [...]}.
	ItemObject ItemKind = iota
	// ItemShorthand is a bare string, usually a path or source reference.
	ItemShorthand
	// ItemDeleted is the boolean sentinel `false`, meaning "remove this entry".
	ItemDeleted
)

// Item is one named entry inside a document section. It is a tagged union so
// that the deletion sentinel is an explicit, exhaustively-matched case rather
// than a nullable field.
type Item struct {
	kind  ItemKind
	obj   map[string]interface{}
	short string
}

// ObjectItem wraps a descriptor map as an Item.
func ObjectItem(obj map[string]interface{}) Item {
	return Item{kind: ItemObject, obj: obj}
}

// ShorthandItem wraps a string shorthand as an Item.
func ShorthandItem(s string) Item {
	return Item{kind: ItemShorthand, short: s}
}

// DeletedItem returns the deletion sentinel.
func DeletedItem() Item {
	return Item{kind: ItemDeleted}
}

// Kind reports which union case the item holds.
func (i Item) Kind() ItemKind { return i.kind }

// IsDeleted reports whether the item is the deletion sentinel.
func (i Item) IsDeleted() bool { return i.kind == ItemDeleted }

// Object returns the descriptor map. Nil unless Kind is ItemObject.
func (i Item) Object() map[string]interface{} { return i.obj }

// Shorthand returns the string form. Empty unless Kind is ItemShorthand.
func (i Item) Shorthand() string { return i.short }

// UnmarshalJSON decodes an item from its document representation:
// object, string, or the literal false.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		*i = ObjectItem(v)
		return nil
	case string:
		*i = ShorthandItem(v)
		return nil
	case bool:
		if v {
			return fmt.Errorf("item value true is not valid; use an object, a string, or false")
		}
		*i = DeletedItem()
		return nil
	default:
		return fmt.Errorf("item value must be an object, a string, or false, got %T", raw)
	}
}

// MarshalJSON encodes the item back to its document representation.
func (i Item) MarshalJSON() ([]byte, error) {
	switch i.kind {
	case ItemObject:
		return json.Marshal(i.obj)
	case ItemShorthand:
		return json.Marshal(i.short)
	case ItemDeleted:
		return json.Marshal(false)
	default:
		return nil, fmt.Errorf("unknown item kind %d", i.kind)
	}
}

// SectionMap holds the named items of one section.
type SectionMap map[string]Item

// Document is a full configuration document: section name to item map.
// Item names are unique per section; insertion order carries no meaning.
type Document map[Section]SectionMap

// Clone returns a shallow-per-item copy of the document. Item values are
// immutable from the document's point of view, so sharing them is safe.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for section, items := range d {
		m := make(SectionMap, len(items))
		for name, item := range items {
			m[name] = item
		}
		out[section] = m
	}
	return out
}
