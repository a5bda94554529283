// graphgen generates Go client modules from the schema of a Neo4j database.
//
//	graphgen generate --uri bolt://localhost:7687 --database movies --name movies
//	graphgen generate --profile hr
//	graphgen watch --config graphgen.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp().command().ExecuteContext(ctx); err != nil {
		failure(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
