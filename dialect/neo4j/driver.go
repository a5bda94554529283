package neo4j

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	driver "github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/dialect"
)

// ErrClosed is returned by Run once the driver was closed.
var ErrClosed = errors.New("graphgen: driver closed")

// baseDelay is the delay before the second connection attempt. It doubles
// with every further attempt.
const baseDelay = 100 * time.Millisecond

// Driver runs the queries of one generation run in read transactions of a
// single session. It is safe for concurrent use, though queries are
// serialized on the session.
type Driver struct {
	cfg     Config
	log     *zap.Logger
	driver  driver.DriverWithContext
	mu      sync.Mutex
	session driver.SessionWithContext
}

var _ dialect.Driver = (*Driver)(nil)

// Option configures Open.
type Option func(*Driver)

// WithLogger sets the logger of connection attempts.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// Open connects to the server described by cfg. Failed attempts are retried
// cfg.ConnectRetries times with exponential backoff, each delay capped at
// cfg.ConnectionTimeout.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	auth := driver.BasicAuth(cfg.Username, cfg.Password, "")
	configure := func(c *driver.Config) {
		c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		c.MaxTransactionRetryTime = cfg.MaxTransactionRetryTime
	}

	var lastErr error
	for attempt := 0; attempt < cfg.ConnectRetries; attempt++ {
		drv, err := driver.NewDriverWithContext(cfg.URI, auth, configure)
		if err == nil {
			if err = drv.VerifyConnectivity(ctx); err == nil {
				d.driver = drv
				d.session = drv.NewSession(ctx, driver.SessionConfig{
					DatabaseName: cfg.Database,
					AccessMode:   driver.AccessModeRead,
				})
				d.log.Debug("connected", zap.Stringer("profile", cfg), zap.Int("attempts", attempt+1))
				return d, nil
			}
			_ = drv.Close(ctx)
		}
		lastErr = err
		d.log.Warn("connection attempt failed",
			zap.Stringer("profile", cfg),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if attempt == cfg.ConnectRetries-1 {
			break
		}
		delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.ConnectionTimeout {
			delay = cfg.ConnectionTimeout
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("graphgen: connect to %s: %w", cfg.URI, ctx.Err())
		}
	}
	return nil, fmt.Errorf("graphgen: connect to %s failed after %d attempts: %w", cfg.URI, cfg.ConnectRetries, lastErr)
}

// Run implements graphgen.Runner.
func (d *Driver) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if params == nil {
		params = map[string]any{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil, ErrClosed
	}
	rows, err := d.session.ExecuteRead(ctx, func(tx driver.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return graphgen.Rows(records), nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphgen: run query: %w", err)
	}
	return rows.([]map[string]any), nil
}

// Close closes the session and the connection. Closing a closed driver is
// a no-op.
func (d *Driver) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil
	}
	err := d.session.Close(ctx)
	if cerr := d.driver.Close(ctx); err == nil {
		err = cerr
	}
	d.session, d.driver = nil, nil
	if err != nil {
		return fmt.Errorf("graphgen: close driver: %w", err)
	}
	return nil
}

// Dialect implements dialect.Driver.
func (*Driver) Dialect() string {
	return dialect.Neo4j
}

// Config returns the profile the driver was opened with.
func (d *Driver) Config() Config {
	return d.cfg
}
