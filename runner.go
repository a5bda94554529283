package graphgen

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes a read query and returns its rows keyed by column name.
// A nil parameter map is treated as empty.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// The RunnerFunc type is an adapter to allow the use of ordinary functions
// as query runners.
type RunnerFunc func(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)

// Run calls f(ctx, query, params).
func (f RunnerFunc) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return f(ctx, query, params)
}

// ConnectionConfig describes how to reach the database.
type ConnectionConfig struct {
	URI      string
	Database string
	Username string
	Password string
}

// Connect creates a driver for cfg and verifies that the server is reachable.
func Connect(ctx context.Context, cfg ConnectionConfig) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphgen: create driver for %s: %w", cfg.URI, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graphgen: connect to %s: %w", cfg.URI, err)
	}
	return driver, nil
}

// SessionRunner runs every query in a read transaction of a new session
// on Driver.
type SessionRunner struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// Run implements Runner.
func (r SessionRunner) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if params == nil {
		params = map[string]any{}
	}
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: r.Database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)
	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return Rows(records), nil
	})
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any), nil
}

// Rows converts driver records to rows keyed by column name.
func Rows(records []*neo4j.Record) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.AsMap())
	}
	return rows
}

// DialRunner opens a connection for each query and closes it afterwards.
type DialRunner struct {
	Config ConnectionConfig
}

// Run implements Runner.
func (r DialRunner) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	driver, err := Connect(ctx, r.Config)
	if err != nil {
		return nil, err
	}
	defer driver.Close(ctx)
	return SessionRunner{Driver: driver, Database: r.Config.Database}.Run(ctx, query, params)
}
