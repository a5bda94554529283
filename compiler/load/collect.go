package load

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/dialect/cypher"
	"github.com/syssam/graphgen/schema/field"
)

// DefaultSampleLimit is the number of entities sampled per kind.
const DefaultSampleLimit = 1000

type (
	// Option configures Collect.
	Option func(*collector)

	collector struct {
		runner graphgen.Runner
		limit  int
		probe  cypher.Probe
		log    *zap.Logger
	}
)

// WithSampleLimit sets the number of entities sampled per kind.
// Non-positive values keep the default.
func WithSampleLimit(n int) Option {
	return func(c *collector) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithProbe selects the type probe used by property discovery.
func WithProbe(p cypher.Probe) Option {
	return func(c *collector) {
		c.probe = p
	}
}

// WithLogger sets the logger of the collection.
func WithLogger(l *zap.Logger) Option {
	return func(c *collector) {
		if l != nil {
			c.log = l
		}
	}
}

// Collect discovers the schema of the graph behind r. It runs, in order:
// node kinds, the properties of each node kind, relationship kinds, the
// properties and endpoints of each relationship kind, and the server clock.
//
// If any query fails, Collect returns an *IntrospectionError and no Metadata.
func Collect(ctx context.Context, r graphgen.Runner, opts ...Option) (*Metadata, error) {
	c := &collector{
		runner: r,
		limit:  DefaultSampleLimit,
		probe:  cypher.ProbeAPOC,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	start := time.Now()
	c.log.Info("collecting metadata", zap.Int("limit", c.limit), zap.Stringer("probe", c.probe))
	md := NewMetadata()
	var err error
	if md.NodeKinds, err = c.kinds(ctx, StepNodeKinds, cypher.ColumnLabel, cypher.NodeKinds); err != nil {
		return nil, err
	}
	for _, kind := range md.NodeKinds {
		q, params := cypher.NodeProperties(kind, c.probe, c.limit)
		if md.NodeProperties[kind], err = c.properties(ctx, StepNodeProperties, kind, q, params); err != nil {
			return nil, err
		}
	}
	if md.EdgeKinds, err = c.kinds(ctx, StepEdgeKinds, cypher.ColumnRelationshipType, cypher.EdgeKinds); err != nil {
		return nil, err
	}
	for _, kind := range md.EdgeKinds {
		q, params := cypher.EdgeProperties(kind, c.probe, c.limit)
		if md.EdgeProperties[kind], err = c.properties(ctx, StepEdgeProperties, kind, q, params); err != nil {
			return nil, err
		}
		if md.EdgeEndpoints[kind], err = c.endpoints(ctx, kind); err != nil {
			return nil, err
		}
	}
	if md.ServerTime, err = c.serverTime(ctx); err != nil {
		return nil, err
	}
	c.log.Info("metadata collected",
		zap.Int("nodes", len(md.NodeKinds)),
		zap.Int("edges", len(md.EdgeKinds)),
		zap.Duration("duration", time.Since(start)),
	)
	return md, nil
}

func (c *collector) run(ctx context.Context, step, kind, query string, params map[string]any) ([]map[string]any, error) {
	rows, err := c.runner.Run(ctx, query, params)
	if err != nil {
		c.log.Error("introspection query failed", zap.String("step", step), zap.String("kind", kind), zap.Error(err))
		return nil, NewIntrospectionError(step, kind, err)
	}
	return rows, nil
}

// kinds lists the values of column, dropping duplicates and keeping the
// server order.
func (c *collector) kinds(ctx context.Context, step, column string, build func() (string, map[string]any)) ([]string, error) {
	q, params := build()
	rows, err := c.run(ctx, step, "", q, params)
	if err != nil {
		return nil, err
	}
	seen := make(kindSet, len(rows))
	kinds := make([]string, 0, len(rows))
	for _, row := range rows {
		k, ok := row[column].(string)
		if !ok {
			return nil, NewIntrospectionError(step, "", fmt.Errorf("column %q is %T, not a string", column, row[column]))
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen.add(k)
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// properties returns the type of every property of kind, widening the types
// reported for the same key to a single one.
func (c *collector) properties(ctx context.Context, step, kind, query string, params map[string]any) (map[string]string, error) {
	rows, err := c.run(ctx, step, kind, query, params)
	if err != nil {
		return nil, err
	}
	types := make(map[string]field.Type)
	for _, row := range rows {
		key, ok := row[cypher.ColumnKey].(string)
		if !ok {
			return nil, NewIntrospectionError(step, kind, fmt.Errorf("column %q is %T, not a string", cypher.ColumnKey, row[cypher.ColumnKey]))
		}
		native, _ := row[cypher.ColumnType].(string)
		types[key] = field.Widen(types[key], field.Parse(native))
	}
	props := make(map[string]string, len(types))
	for key, t := range types {
		if !t.Valid() || t == field.TypeNull {
			t = field.TypeAny
		}
		props[key] = t.String()
	}
	c.log.Debug("properties collected", zap.String("step", step), zap.String("kind", kind), zap.Int("properties", len(props)))
	return props, nil
}

// endpoints returns the start and end kinds observed for kind.
func (c *collector) endpoints(ctx context.Context, kind string) (Endpoints, error) {
	q, params := cypher.EdgeEndpoints(kind, c.limit)
	rows, err := c.run(ctx, StepEdgeEndpoints, kind, q, params)
	if err != nil {
		return Endpoints{}, err
	}
	start, end := make(kindSet), make(kindSet)
	for _, row := range rows {
		s, ok := labels(row[cypher.ColumnStartLabels])
		if !ok {
			return Endpoints{}, NewIntrospectionError(StepEdgeEndpoints, kind, fmt.Errorf("column %q is %T, not a list of labels", cypher.ColumnStartLabels, row[cypher.ColumnStartLabels]))
		}
		e, ok := labels(row[cypher.ColumnEndLabels])
		if !ok {
			return Endpoints{}, NewIntrospectionError(StepEdgeEndpoints, kind, fmt.Errorf("column %q is %T, not a list of labels", cypher.ColumnEndLabels, row[cypher.ColumnEndLabels]))
		}
		start.add(s...)
		end.add(e...)
	}
	return Endpoints{Start: start.sorted(), End: end.sorted()}, nil
}

func (c *collector) serverTime(ctx context.Context) (time.Time, error) {
	q, params := cypher.ServerTimestamp()
	rows, err := c.run(ctx, StepServerTimestamp, "", q, params)
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, NewIntrospectionError(StepServerTimestamp, "", fmt.Errorf("no rows"))
	}
	ts, err := graphgen.CoerceDateTime(rows[0][cypher.ColumnTimestamp])
	if err != nil {
		return time.Time{}, NewIntrospectionError(StepServerTimestamp, "", err)
	}
	return ts, nil
}

func labels(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, x := range l {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
