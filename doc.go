// Package graphgen holds the runtime shared by every generated graph client
// module.
//
// A generated module is a single Go file. Its runtime section is a verbatim
// copy of the declarations in this package, so the types below appear in
// generated code under the generated package name:
//
//   - Entity and Triple, the canonical form of query results
//   - Normalize, which converts nodes and relationships of any supported
//     shape into an Entity and never fails
//   - the Coerce functions and ValidationError used by generated accessors
//     to check filter values against the recorded property types
//   - Runner, the query execution boundary, with SessionRunner and
//     DialRunner over the Neo4j driver
//
// # Normalization
//
// Normalize recognizes, in order:
//
//	Entity, *Entity, or map{id, kinds, properties}  returned as is
//	map[string]any                                   uuid, labels/_labels/type lifted
//	dbtype.Node, dbtype.Relationship                 labels or type, uuid or element id
//
// Anything else yields an Entity with no ID, no kinds and no properties.
package graphgen
