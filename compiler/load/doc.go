// Package load collects the schema of a live graph into a Metadata value.
//
// Collection samples the graph through a graphgen.Runner:
//
//	md, err := load.Collect(ctx, runner,
//	    load.WithSampleLimit(500),
//	    load.WithProbe(cypher.ProbeCypher),
//	)
//
// The graph has no declared schema, so property types are inferred from the
// values seen on the sampled entities and reconciled with field.Widen.
package load
