package neo4j

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/syssam/graphgen/dialect"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalDuration is the total time spent executing queries.
	TotalDuration atomic.Int64 // nanoseconds
	// TotalRows is the number of rows returned.
	TotalRows atomic.Int64
	// SlowQueries is the count of queries exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of query errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		TotalRows:     s.TotalRows.Load(),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalDuration.Store(0)
	s.TotalRows.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalDuration time.Duration
	TotalRows     int64
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average query duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	if s.TotalQueries == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalQueries)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d rows=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalRows, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow query is detected.
type SlowQueryHook func(ctx context.Context, query string, params map[string]any, duration time.Duration)

// StatsDriver wraps a Driver with query statistics collection.
type StatsDriver struct {
	dialect.Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
	now           func() time.Time
}

var _ dialect.Driver = (*StatsDriver)(nil)

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow query detection.
// Default is 1s.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow queries.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow queries to l. Parameter values are not logged.
func WithSlowQueryLog(l *zap.Logger) StatsOption {
	return WithSlowQueryHook(func(_ context.Context, query string, params map[string]any, duration time.Duration) {
		l.Warn("slow query detected",
			zap.Duration("duration", duration),
			zap.String("query", query),
			zap.Int("params", len(params)),
		)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv, _ := neo4j.Open(ctx, cfg)
//	stats := neo4j.NewStatsDriver(drv,
//	    neo4j.WithSlowThreshold(200*time.Millisecond),
//	    neo4j.WithSlowQueryLog(logger),
//	)
//	md, err := load.Collect(ctx, stats)
//	logger.Info("introspection done", zap.Stringer("stats", stats.QueryStats().Stats()))
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow query threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Run executes a query and records statistics.
func (d *StatsDriver) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	start := d.now()
	rows, err := d.Driver.Run(ctx, query, params)
	d.record(ctx, query, params, d.now().Sub(start), len(rows), err)
	return rows, err
}

func (d *StatsDriver) record(ctx context.Context, query string, params map[string]any, duration time.Duration, rows int, err error) {
	d.stats.TotalQueries.Add(1)
	d.stats.TotalDuration.Add(int64(duration))
	d.stats.TotalRows.Add(int64(rows))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, params, duration)
		}
	}
}
