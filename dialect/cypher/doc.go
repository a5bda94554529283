// Package cypher builds the Cypher queries sent by the generator and by
// generated modules.
//
// Lookup queries match a kind by property equality. Kind and property names
// are backtick-quoted and values are always passed as parameters:
//
//	q, params := cypher.LookupByKind("Person", map[string]any{"name": "Ada"})
//	// MATCH (n:`Person` {`name`: $name}) RETURN n
//
// The introspection queries read the schema by sampling, using the type
// probe selected by a Probe value.
package cypher
