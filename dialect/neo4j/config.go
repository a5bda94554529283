package neo4j

import (
	"errors"
	"fmt"
	"time"

	"github.com/syssam/graphgen"
)

// ErrInvalidConfig is returned by Validate for an unusable connection profile.
var ErrInvalidConfig = errors.New("graphgen: invalid connection config")

// Config is a connection profile.
type Config struct {
	// URI is the connection URI of the server.
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string

	// Database is the name of the database to introspect.
	Database string

	// Username for authentication.
	Username string

	// Password for authentication. An empty password is sent as is.
	Password string

	// MaxConnectionPoolSize limits the number of connections in the pool.
	MaxConnectionPoolSize int

	// ConnectionTimeout is the maximum time to wait for a connection. It
	// also caps the delay between two connection attempts.
	ConnectionTimeout time.Duration

	// MaxTransactionRetryTime is the maximum time to retry failed transactions.
	MaxTransactionRetryTime time.Duration

	// ConnectRetries is the number of connection attempts made by Open.
	ConnectRetries int
}

// DefaultConfig returns the profile used for every field a caller leaves
// unset:
//
//	URI:      bolt://localhost:7687
//	Database: neo4j
//	Username: neo4j
//
// The default password is empty.
func DefaultConfig() Config {
	return Config{
		URI:                     "bolt://localhost:7687",
		Database:                "neo4j",
		Username:                "neo4j",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
		ConnectRetries:          5,
	}
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	if override.URI != "" {
		c.URI = override.URI
	}
	if override.Database != "" {
		c.Database = override.Database
	}
	if override.Username != "" {
		c.Username = override.Username
	}
	if override.Password != "" {
		c.Password = override.Password
	}
	if override.MaxConnectionPoolSize != 0 {
		c.MaxConnectionPoolSize = override.MaxConnectionPoolSize
	}
	if override.ConnectionTimeout != 0 {
		c.ConnectionTimeout = override.ConnectionTimeout
	}
	if override.MaxTransactionRetryTime != 0 {
		c.MaxTransactionRetryTime = override.MaxTransactionRetryTime
	}
	if override.ConnectRetries != 0 {
		c.ConnectRetries = override.ConnectRetries
	}
	return c
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch {
	case c.URI == "":
		return fmt.Errorf("%w: URI cannot be empty", ErrInvalidConfig)
	case c.Database == "":
		return fmt.Errorf("%w: Database cannot be empty", ErrInvalidConfig)
	case c.Username == "":
		return fmt.Errorf("%w: Username cannot be empty", ErrInvalidConfig)
	case c.MaxConnectionPoolSize <= 0:
		return fmt.Errorf("%w: MaxConnectionPoolSize must be positive", ErrInvalidConfig)
	case c.ConnectionTimeout <= 0:
		return fmt.Errorf("%w: ConnectionTimeout must be positive", ErrInvalidConfig)
	case c.MaxTransactionRetryTime <= 0:
		return fmt.Errorf("%w: MaxTransactionRetryTime must be positive", ErrInvalidConfig)
	case c.ConnectRetries <= 0:
		return fmt.Errorf("%w: ConnectRetries must be positive", ErrInvalidConfig)
	}
	return nil
}

// Profile returns the part of c written into generated modules.
func (c Config) Profile() graphgen.ConnectionConfig {
	return graphgen.ConnectionConfig{
		URI:      c.URI,
		Database: c.Database,
		Username: c.Username,
		Password: c.Password,
	}
}

// String returns the profile without its password.
func (c Config) String() string {
	return fmt.Sprintf("%s@%s/%s", c.Username, c.URI, c.Database)
}
