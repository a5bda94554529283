// Package neo4j provides the generator-side driver over the Neo4j Bolt
// protocol.
//
// A connection profile is built from DefaultConfig and the fields a caller
// sets explicitly:
//
//	cfg := neo4j.DefaultConfig().Merge(neo4j.Config{
//	    URI:      "neo4j+s://graph.example.com",
//	    Password: os.Getenv("NEO4J_PASSWORD"),
//	})
//
// Open verifies connectivity, retrying with exponential backoff, and opens
// the one read session used for the whole generation run:
//
//	drv, err := neo4j.Open(ctx, cfg, neo4j.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer drv.Close(ctx)
//
// StatsDriver wraps any dialect.Driver with query counters and slow query
// reporting.
package neo4j
