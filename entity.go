package graphgen

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// IDProperty is the property that holds an entity identifier.
const IDProperty = "uuid"

// Entity is the canonical record for a node or a relationship.
type Entity struct {
	// ID is the entity identifier, or nil if the entity has none.
	ID any `json:"id" yaml:"id"`
	// Kinds holds the node labels, or the relationship type as its only element.
	Kinds []string `json:"kinds" yaml:"kinds"`
	// Properties holds every property except the identifier.
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// Triple is a relationship together with the nodes it connects.
type Triple struct {
	Source       Entity `json:"source" yaml:"source"`
	Relationship Entity `json:"relationship" yaml:"relationship"`
	Target       Entity `json:"target" yaml:"target"`
}

// entityShape pairs a shape predicate with the extraction used when it matches.
type entityShape struct {
	name    string
	match   func(any) bool
	extract func(any) Entity
}

// entityShapes is consulted in order by Normalize. The first match wins.
var entityShapes = []entityShape{
	{name: "canonical", match: isCanonical, extract: canonicalEntity},
	{name: "map", match: isMapShaped, extract: mapEntity},
	{name: "native", match: isNative, extract: nativeEntity},
}

// Normalize converts a node or relationship, in any of the shapes a query
// result can hold, into an Entity. It never fails: values of an unknown shape
// yield an Entity with no ID, no kinds and no properties.
//
// Entity values are returned unchanged, so Normalize is idempotent.
func Normalize(v any) (e Entity) {
	// Capability methods belong to foreign types. A panicking one degrades
	// to the empty entity like any other unknown shape.
	defer func() {
		if recover() != nil {
			e = emptyEntity()
		}
	}()
	for _, s := range entityShapes {
		if s.match(v) {
			return s.extract(v)
		}
	}
	return emptyEntity()
}

// NormalizeTriple normalizes the source, relationship and target columns of row.
func NormalizeTriple(row map[string]any, source, rel, target string) Triple {
	return Triple{
		Source:       Normalize(row[source]),
		Relationship: Normalize(row[rel]),
		Target:       Normalize(row[target]),
	}
}

func emptyEntity() Entity {
	return Entity{Kinds: []string{}, Properties: map[string]any{}}
}

// canonicalKeys are the keys of a map that already holds an Entity.
var canonicalKeys = [...]string{"id", "kinds", "properties"}

func isCanonical(v any) bool {
	switch e := v.(type) {
	case Entity:
		return true
	case *Entity:
		return e != nil
	case map[string]any:
		if len(e) != len(canonicalKeys) {
			return false
		}
		for _, k := range canonicalKeys {
			if _, ok := e[k]; !ok {
				return false
			}
		}
		_, ok := e["properties"].(map[string]any)
		return ok
	}
	return false
}

func canonicalEntity(v any) Entity {
	switch e := v.(type) {
	case Entity:
		return e
	case *Entity:
		return *e
	}
	m := v.(map[string]any)
	kinds, _ := stringList(m["kinds"])
	if kinds == nil {
		kinds = []string{}
	}
	return Entity{ID: m["id"], Kinds: kinds, Properties: m["properties"].(map[string]any)}
}

// kindKeys are the keys a map-shaped result may carry its labels under,
// in order of preference.
var kindKeys = [...]string{"labels", "_labels"}

// A map-shaped relationship carries its type under relTypeKey, or under
// typeKey next to one of endpointKeys. Elsewhere typeKey is a property.
const (
	relTypeKey = "_type"
	typeKey    = "type"
)

var endpointKeys = [...]string{"startNodeElementId", "endNodeElementId"}

func isMapShaped(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func mapEntity(v any) Entity {
	m := v.(map[string]any)
	e := Entity{Kinds: []string{}, Properties: make(map[string]any, len(m))}
	lifted := ""
	for _, k := range kindKeys {
		if kinds, ok := stringList(m[k]); ok {
			e.Kinds, lifted = kinds, k
			break
		}
	}
	if lifted == "" {
		if k := relationshipTypeKey(m); k != "" {
			e.Kinds, lifted = []string{m[k].(string)}, k
		}
	}
	for k, val := range m {
		switch {
		case k == IDProperty:
			e.ID = val
		case k == lifted:
		default:
			e.Properties[k] = val
		}
	}
	return e
}

// relationshipTypeKey returns the key holding the type of a map-shaped
// relationship, or "" if m does not look like one.
func relationshipTypeKey(m map[string]any) string {
	if t, ok := m[relTypeKey].(string); ok && t != "" {
		return relTypeKey
	}
	if t, ok := m[typeKey].(string); !ok || t == "" {
		return ""
	}
	for _, k := range endpointKeys {
		if _, ok := m[k]; ok {
			return typeKey
		}
	}
	return ""
}

// propertyCarrier is implemented by graph-native values such as dbtype.Node
// and dbtype.Relationship.
type propertyCarrier interface {
	GetProperties() map[string]any
}

// kindCarrier lets foreign graph values report their kinds.
type kindCarrier interface {
	Kinds() []string
}

type elementIDCarrier interface {
	GetElementId() string
}

func isNative(v any) bool {
	if _, ok := v.(propertyCarrier); !ok {
		return false
	}
	_, ok := nativeKinds(v)
	return ok
}

func nativeKinds(v any) ([]string, bool) {
	switch n := v.(type) {
	case dbtype.Node:
		return n.Labels, true
	case *dbtype.Node:
		if n != nil {
			return n.Labels, true
		}
	case dbtype.Relationship:
		return []string{n.Type}, true
	case *dbtype.Relationship:
		if n != nil {
			return []string{n.Type}, true
		}
	case kindCarrier:
		return n.Kinds(), true
	}
	return nil, false
}

func nativeEntity(v any) Entity {
	kinds, _ := nativeKinds(v)
	props := v.(propertyCarrier).GetProperties()
	e := Entity{
		Kinds:      append(make([]string, 0, len(kinds)), kinds...),
		Properties: make(map[string]any, len(props)),
	}
	for k, val := range props {
		if k == IDProperty {
			e.ID = val
			continue
		}
		e.Properties[k] = val
	}
	if e.ID == nil {
		if c, ok := v.(elementIDCarrier); ok && c.GetElementId() != "" {
			e.ID = c.GetElementId()
		}
	}
	return e
}

// stringList reports whether v is a list of strings and returns a copy of it.
func stringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return append(make([]string, 0, len(l)), l...), true
	case []any:
		out := make([]string, 0, len(l))
		for _, x := range l {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
