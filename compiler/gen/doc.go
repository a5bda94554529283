// Package gen renders collected graph schemas into Go client modules.
//
// # Architecture
//
// The pipeline runs in a fixed order, each stage completing before the next:
//
//	load.Metadata (collected schema)
//	        ↓
//	   GenerateFor (one GeneratedFunction per kind)
//	        ↓
//	   Assembler (sections, goimports)
//	        ↓
//	   <module>.go
//
// # Key Types
//
//   - TypeRule: maps a native property type to a Go type and a coercion
//   - GeneratedFunction: an accessor built fragment by fragment, then frozen
//   - Assembler: renders and writes a module, moving through the states
//     introspecting, generating, writing and done
//   - Config: configuration of a generation, set with functional options
//
// # Generated Output
//
// A module is a single file whose sections appear in this order:
//
//	header             provenance comment and package clause
//	imports
//	Connection         connection the module was generated from
//	runtime            Entity, Normalize, Coerce*, Runner, LookupByKind, ...
//	Metadata           the collected schema as a Go literal
//	Nodes              one method per node label
//	Edges              one method per relationship type
//	bindings           NewNodes, NewEdges, DefaultNodes, DefaultEdges,
//	                   ExecuteQuery, ServerTimestamp
//
// A generated accessor looks like this:
//
//	people, err := person.DefaultNodes.Person(ctx, nil, map[string]any{"age": "42"})
//
// Filter values are checked against the collected property types before the
// query runs. The value "42" above is coerced to int64(42); a value that
// cannot be coerced fails with a ValidationError.
//
// # Error Handling
//
//   - ConfigError: invalid options or module name
//   - GenerationError: invalid metadata or runtime sources
//   - AssemblyError: the module could not be formatted or written
//
// # Configuration
//
//	a, err := gen.NewAssembler(
//	    gen.WithLogger(logger),
//	    gen.WithFeatures(gen.FeatureSnapshot),
//	    gen.WithSnapshotFormat("msgpack"),
//	)
//
// # Features
//
//   - schema/snapshot: writes the collected schema next to the module
package gen
