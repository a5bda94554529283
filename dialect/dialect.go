package dialect

import (
	"context"

	"github.com/syssam/graphgen"
)

// Dialect names.
const (
	Neo4j = "neo4j"
)

// Driver is the generator-side query execution boundary. It runs the
// introspection queries of a single generation run.
type Driver interface {
	graphgen.Runner
	// Close releases the session and the underlying connection.
	Close(ctx context.Context) error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
