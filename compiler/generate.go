// Package compiler runs module generation end to end: it connects to the
// database, collects its schema and assembles the client module.
package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/compiler/load"
	"github.com/syssam/graphgen/dialect/neo4j"
)

// DefaultModuleName is the module name used when none is given.
const DefaultModuleName = "newgraph"

// Span names and attributes.
const (
	SpanGenerate   = "graphgen.generate"
	SpanIntrospect = "graphgen.introspect"
	SpanAssemble   = "graphgen.assemble"

	AttrModule = "graphgen.module"
	AttrNodes  = "graphgen.nodes"
	AttrEdges  = "graphgen.edges"
)

type (
	// Option configures a generation.
	Option func(*options)

	options struct {
		log    *zap.Logger
		tracer trace.Tracer
		gen    []gen.Option
		load   []load.Option
		stats  []neo4j.StatsOption
	}
)

// WithLogger sets the logger of all generation stages.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracer sets the tracer. The default is the global tracer provider's.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithGenOptions passes options to the module assembler.
func WithGenOptions(opts ...gen.Option) Option {
	return func(o *options) {
		o.gen = append(o.gen, opts...)
	}
}

// WithLoadOptions passes options to schema collection.
func WithLoadOptions(opts ...load.Option) Option {
	return func(o *options) {
		o.load = append(o.load, opts...)
	}
}

// WithStatsOptions configures the query statistics of Generate.
func WithStatsOptions(opts ...neo4j.StatsOption) Option {
	return func(o *options) {
		o.stats = append(o.stats, opts...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		log:    zap.NewNop(),
		tracer: otel.Tracer("github.com/syssam/graphgen/compiler"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OutputPath returns the module file of moduleName in outDir.
func OutputPath(outDir, moduleName string) string {
	if moduleName == "" {
		moduleName = DefaultModuleName
	}
	return filepath.Join(outDir, moduleName+".go")
}

// Generate connects with conn merged over neo4j.DefaultConfig, collects the
// schema and writes the module <outDir>/<moduleName>.go. The connection is
// closed on every exit path. It returns the path of the module.
func Generate(ctx context.Context, conn neo4j.Config, outDir, moduleName string, opts ...Option) (string, error) {
	o := newOptions(opts)
	cfg := neo4j.DefaultConfig().Merge(conn)
	drv, err := neo4j.Open(ctx, cfg, neo4j.WithLogger(o.log))
	if err != nil {
		return "", err
	}
	stats := neo4j.NewStatsDriver(drv, append([]neo4j.StatsOption{neo4j.WithSlowQueryLog(o.log)}, o.stats...)...)
	defer func() {
		if err := stats.Close(ctx); err != nil {
			o.log.Warn("close driver", zap.Error(err))
		}
		o.log.Debug("query statistics", zap.Stringer("stats", stats.QueryStats().Stats()))
	}()
	return generate(ctx, stats, cfg, outDir, moduleName, o)
}

// GenerateWith is like Generate, but runs the introspection queries on r.
// conn is merged over neo4j.DefaultConfig and written into the module.
func GenerateWith(ctx context.Context, r graphgen.Runner, conn neo4j.Config, outDir, moduleName string, opts ...Option) (string, error) {
	return generate(ctx, r, neo4j.DefaultConfig().Merge(conn), outDir, moduleName, newOptions(opts))
}

func generate(ctx context.Context, r graphgen.Runner, cfg neo4j.Config, outDir, moduleName string, o *options) (path string, err error) {
	if moduleName == "" {
		moduleName = DefaultModuleName
	}
	ctx, span := o.tracer.Start(ctx, SpanGenerate, trace.WithAttributes(attribute.String(AttrModule, moduleName)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()
	log := o.log.With(zap.String("module", moduleName))
	start := time.Now()

	md, err := introspect(ctx, r, o)
	if err != nil {
		return "", err
	}
	span.SetAttributes(
		attribute.Int(AttrNodes, len(md.NodeKinds)),
		attribute.Int(AttrEdges, len(md.EdgeKinds)),
	)
	if md.Empty() {
		log.Warn("graph has no node or relationship kinds")
	}
	path, err = assemble(ctx, md, cfg.Profile(), OutputPath(outDir, moduleName), o)
	if err != nil {
		return "", err
	}
	log.Info("generation finished", zap.String("path", path), zap.Duration("duration", time.Since(start)))
	return path, nil
}

func introspect(ctx context.Context, r graphgen.Runner, o *options) (*load.Metadata, error) {
	ctx, span := o.tracer.Start(ctx, SpanIntrospect)
	defer span.End()
	md, err := load.Collect(ctx, r, append([]load.Option{load.WithLogger(o.log)}, o.load...)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int(AttrNodes, len(md.NodeKinds)),
		attribute.Int(AttrEdges, len(md.EdgeKinds)),
	)
	return md, nil
}

func assemble(ctx context.Context, md *load.Metadata, conn graphgen.ConnectionConfig, path string, o *options) (string, error) {
	_, span := o.tracer.Start(ctx, SpanAssemble, trace.WithAttributes(attribute.String("graphgen.path", path)))
	defer span.End()
	out, err := gen.Assemble(md, conn, path, append([]gen.Option{gen.WithLogger(o.log)}, o.gen...)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return out, nil
}

// Job is one module to generate.
type Job struct {
	Conn   neo4j.Config
	OutDir string
	Module string
	// Runner overrides the connection made from Conn when set.
	Runner graphgen.Runner
	Opts   []Option
}

// Result is the outcome of a Job.
type Result struct {
	Job  Job
	Path string
	Err  error
}

// GenerateAll runs jobs with at most workers generations at a time and
// returns one Result per job, in job order. It fails only when two jobs write
// the same module; generation errors are reported in the results.
func GenerateAll(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		path := OutputPath(job.OutDir, job.Module)
		if j, ok := seen[path]; ok {
			return nil, fmt.Errorf("graphgen: jobs %d and %d both write %s", j, i, path)
		}
		seen[path] = i
	}
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			var (
				path string
				err  error
			)
			if job.Runner != nil {
				path, err = GenerateWith(ctx, job.Runner, job.Conn, job.OutDir, job.Module, job.Opts...)
			} else {
				path, err = Generate(ctx, job.Conn, job.OutDir, job.Module, job.Opts...)
			}
			results[i] = Result{Job: job, Path: path, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
