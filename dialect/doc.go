// Package dialect defines the database boundary of the generator.
//
// The generator only reads. Every query it sends is parameterized Cypher
// built by the dialect/cypher package, and every result comes back as rows
// keyed by column name:
//
//	type Runner interface {
//	    Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
//	}
//
// # Driver Interface
//
// A Driver is a Runner bound to one connection for the duration of a
// generation run:
//
//	type Driver interface {
//	    graphgen.Runner
//	    Close(ctx context.Context) error
//	    Dialect() string
//	}
//
// # Usage
//
//	drv, err := neo4j.Open(ctx, neo4j.DefaultConfig().Merge(neo4j.Config{
//	    URI: "bolt://graph.internal:7687",
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close(ctx)
//
// # Sub-packages
//
//   - dialect/cypher: lookup and introspection query builders
//   - dialect/neo4j: driver over the Neo4j Bolt protocol
package dialect
