package gen

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/load"
	"github.com/syssam/graphgen/dialect/cypher"
)

// PasswordEnv is the variable generated modules read the password from when
// it is not embedded.
const PasswordEnv = "NEO4J_PASSWORD"

// State is the stage of an Assembler.
type State int

// Assembler states. An Assembler moves forward only, and any failure moves
// it to StateFailed.
const (
	StateIntrospecting State = iota
	StateGenerating
	StateWriting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIntrospecting: "introspecting",
	StateGenerating:    "generating",
	StateWriting:       "writing",
	StateDone:          "done",
	StateFailed:        "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Assembler renders a Metadata into a client module and writes it.
// An Assembler assembles a single module; it is not retried.
type Assembler struct {
	cfg   *Config
	state State
	funcs []*GeneratedFunction
}

// NewAssembler returns an Assembler configured by opts.
func NewAssembler(opts ...Option) (*Assembler, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Assembler{cfg: cfg}, nil
}

// Assemble renders md into the module at outputPath with a new Assembler.
func Assemble(md *load.Metadata, conn graphgen.ConnectionConfig, outputPath string, opts ...Option) (string, error) {
	a, err := NewAssembler(opts...)
	if err != nil {
		return "", err
	}
	return a.Assemble(md, conn, outputPath)
}

// State returns the current state.
func (a *Assembler) State() State {
	return a.state
}

// Functions returns the accessors of the last assembly, nodes first.
func (a *Assembler) Functions() []*GeneratedFunction {
	return a.funcs
}

// ModuleName returns the package name of the module written to path.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".go")
}

// Assemble renders md into a module and writes it to outputPath, whose base
// name without extension is the package name. It returns outputPath.
func (a *Assembler) Assemble(md *load.Metadata, conn graphgen.ConnectionConfig, outputPath string) (path string, err error) {
	if a.state != StateIntrospecting {
		return "", NewGenerationError("assemble", "", "assembler is "+a.state.String(), nil)
	}
	defer func() {
		if err != nil {
			a.state = StateFailed
		}
	}()
	var (
		log    = a.cfg.logger()
		start  = a.cfg.Now()
		module = ModuleName(outputPath)
	)
	log = log.With(zap.String("module", module))
	if !token.IsIdentifier(module) || token.IsKeyword(module) {
		return "", NewConfigError("Module", module, "module name must be a Go identifier")
	}
	if md == nil {
		return "", NewGenerationError("metadata", "", "no metadata", nil)
	}
	if err := md.Validate(); err != nil {
		return "", NewGenerationError("metadata", "", "invalid metadata", err)
	}

	a.state = StateGenerating
	src, err := a.render(md, conn, module)
	if err != nil {
		return "", err
	}
	formatted, err := formatSource(outputPath, src)
	if err != nil {
		return "", err
	}

	a.state = StateWriting
	if err := writeModule(log, outputPath, formatted); err != nil {
		return "", err
	}
	if err := runFeatures(a.cfg, md, outputPath); err != nil {
		discardModule(log, outputPath)
		return "", NewAssemblyError(outputPath, "features", err)
	}
	a.state = StateDone
	log.Info("module generated",
		zap.String("path", outputPath),
		zap.Int("nodes", len(md.NodeKinds)),
		zap.Int("edges", len(md.EdgeKinds)),
		zap.Duration("duration", a.cfg.Now().Sub(start)),
	)
	return outputPath, nil
}

// render returns the unformatted module source. Sections appear in a fixed
// order since later ones refer to names declared by earlier ones.
func (a *Assembler) render(md *load.Metadata, conn graphgen.ConnectionConfig, module string) ([]byte, error) {
	rt, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	log := a.cfg.logger()
	log.Debug("generating node interface", zap.Int("nodes", len(md.NodeKinds)))
	nodes := a.functions(md.NodeKinds, md.NodeProperty, false)
	log.Debug("generating edge interface", zap.Int("edges", len(md.EdgeKinds)))
	edges := a.functions(md.EdgeKinds, md.EdgeProperty, true)
	a.funcs = append(nodes, edges...)

	var b strings.Builder
	b.WriteString(a.header(md, conn, module))
	b.WriteString(importBlock(rt.Imports))
	section(&b, connectionBlock(conn, a.cfg.EmbedPassword))
	b.WriteString(rt.Decls)
	section(&b, metadataBlock(md))
	section(&b, bundle(NodesType, "node kind", nodes))
	section(&b, bundle(EdgesType, "relationship kind", edges))
	section(&b, bindings())
	return []byte(b.String()), nil
}

// functions generates and freezes the accessors of kinds.
func (a *Assembler) functions(kinds []string, props func(string) map[string]string, edge bool) []*GeneratedFunction {
	names := Accessors(kinds)
	funcs := make([]*GeneratedFunction, 0, len(kinds))
	for _, kind := range kinds {
		f := GenerateFor(kind, props(kind), edge)
		f.Name = names[kind]
		f.Doc = docFor(f)
		f.Freeze()
		funcs = append(funcs, f)
	}
	return funcs
}

func section(b *strings.Builder, code jen.Code) {
	fmt.Fprintf(b, "%#v\n\n", code)
}

func (a *Assembler) header(md *load.Metadata, conn graphgen.ConnectionConfig, module string) string {
	server := "unknown"
	if !md.ServerTime.IsZero() {
		server = md.ServerTime.UTC().Format(time.RFC3339)
	}
	var b strings.Builder
	b.WriteString("// Code generated by graphgen. DO NOT EDIT.\n\n")
	if h := strings.TrimSpace(a.cfg.Header); h != "" {
		b.WriteString(h)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "// Package %s is a client for the graph database %q at %s.\n", module, conn.Database, conn.URI)
	b.WriteString("//\n")
	fmt.Fprintf(&b, "//\tModule:    %s\n", module)
	fmt.Fprintf(&b, "//\tGenerator: graphgen %s\n", a.cfg.Version)
	fmt.Fprintf(&b, "//\tServer:    %s\n", server)
	fmt.Fprintf(&b, "//\tRun:       %s\n", a.cfg.RunID)
	fmt.Fprintf(&b, "//\tGenerated: %s\n", a.cfg.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "package %s\n\n", module)
	return b.String()
}

func importBlock(runtime []string) string {
	paths := append([]string{"context", "os"}, runtime...)
	seen := make(map[string]bool, len(paths))
	var b strings.Builder
	b.WriteString("import (\n")
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		fmt.Fprintf(&b, "\t%s\n", strconv.Quote(p))
	}
	b.WriteString(")\n\n")
	return b.String()
}

func connectionBlock(conn graphgen.ConnectionConfig, embedPassword bool) jen.Code {
	password := jen.Qual("os", "Getenv").Call(jen.Lit(PasswordEnv))
	if embedPassword {
		password = jen.Lit(conn.Password)
	}
	return jen.Comment("Connection is the connection the module was generated from.").Line().
		Var().Id("Connection").Op("=").Id("ConnectionConfig").Values(jen.Dict{
		jen.Id("URI"):      jen.Lit(conn.URI),
		jen.Id("Database"): jen.Lit(conn.Database),
		jen.Id("Username"): jen.Lit(conn.Username),
		jen.Id("Password"): password,
	})
}

func metadataBlock(md *load.Metadata) jen.Code {
	return jen.Comment("SchemaMetadata describes the schema of the graph.").Line().
		Type().Id("SchemaMetadata").Struct(
		jen.Id("NodeKinds").Index().String(),
		jen.Id("NodeProperties").Map(jen.String()).Map(jen.String()).String(),
		jen.Id("EdgeKinds").Index().String(),
		jen.Id("EdgeProperties").Map(jen.String()).Map(jen.String()).String(),
		jen.Id("EdgeEndpoints").Map(jen.String()).Id("EndpointKinds"),
	).
		Line().Line().
		Comment("EndpointKinds holds the node kinds seen at either end of a relationship kind.").Line().
		Type().Id("EndpointKinds").Struct(
		jen.Id("Start").Index().String(),
		jen.Id("End").Index().String(),
	).
		Line().Line().
		Comment("Metadata is the schema the module was generated from.").Line().
		Var().Id("Metadata").Op("=").Id("SchemaMetadata").Values(
		jen.Id("NodeKinds").Op(":").Add(stringSlice(md.NodeKinds)),
		jen.Id("NodeProperties").Op(":").Add(propertyMap(md.NodeKinds, md.NodeProperty)),
		jen.Id("EdgeKinds").Op(":").Add(stringSlice(md.EdgeKinds)),
		jen.Id("EdgeProperties").Op(":").Add(propertyMap(md.EdgeKinds, md.EdgeProperty)),
		jen.Id("EdgeEndpoints").Op(":").Map(jen.String()).Id("EndpointKinds").Values(jen.DictFunc(func(d jen.Dict) {
			for _, kind := range md.EdgeKinds {
				ep := md.EdgeEndpoints[kind]
				d[jen.Lit(kind)] = jen.Values(jen.Dict{
					jen.Id("Start"): stringSlice(ep.Start),
					jen.Id("End"):   stringSlice(ep.End),
				})
			}
		})),
	)
}

func stringSlice(ss []string) jen.Code {
	return jen.Index().String().ValuesFunc(func(g *jen.Group) {
		for _, s := range ss {
			g.Lit(s)
		}
	})
}

func propertyMap(kinds []string, props func(string) map[string]string) jen.Code {
	return jen.Map(jen.String()).Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, kind := range kinds {
			p := props(kind)
			d[jen.Lit(kind)] = jen.Values(jen.DictFunc(func(d jen.Dict) {
				for name, native := range p {
					d[jen.Lit(name)] = jen.Lit(native)
				}
			}))
		}
	}))
}

// bundle declares typ and its accessor methods.
func bundle(typ, noun string, funcs []*GeneratedFunction) jen.Code {
	s := jen.Commentf("%s bundles one accessor per %s.", typ, noun).Line().
		Type().Id(typ).Struct(jen.Id("runner").Id("Runner"))
	for _, f := range funcs {
		s.Line().Line().Add(f.Freeze())
	}
	return s
}

func bindings() jen.Code {
	query, _ := cypher.ServerTimestamp()
	return jen.Comment("NewNodes returns the node accessors running their queries on r.").Line().
		Func().Id("NewNodes").Params(jen.Id("r").Id("Runner")).Op("*").Id(NodesType).Block(
		jen.Return(jen.Op("&").Id(NodesType).Values(jen.Dict{jen.Id("runner"): jen.Id("r")})),
	).
		Line().Line().
		Comment("NewEdges returns the relationship accessors running their queries on r.").Line().
		Func().Id("NewEdges").Params(jen.Id("r").Id("Runner")).Op("*").Id(EdgesType).Block(
		jen.Return(jen.Op("&").Id(EdgesType).Values(jen.Dict{jen.Id("runner"): jen.Id("r")})),
	).
		Line().Line().
		Comment("DefaultNodes and DefaultEdges connect with Connection for every query.").Line().
		Var().Defs(
		jen.Id("DefaultNodes").Op("=").Id("NewNodes").Call(jen.Id("DialRunner").Values(jen.Dict{jen.Id("Config"): jen.Id("Connection")})),
		jen.Id("DefaultEdges").Op("=").Id("NewEdges").Call(jen.Id("DialRunner").Values(jen.Dict{jen.Id("Config"): jen.Id("Connection")})),
	).
		Line().Line().
		Comment("ExecuteQuery runs a read query with Connection.").Line().
		Func().Id("ExecuteQuery").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("query").String(),
		jen.Id("params").Map(jen.String()).Id("any"),
	).Params(jen.Index().Map(jen.String()).Id("any"), jen.Error()).Block(
		jen.Return(jen.Id("DialRunner").Values(jen.Dict{jen.Id("Config"): jen.Id("Connection")}).Dot("Run").Call(
			jen.Id("ctx"), jen.Id("query"), jen.Id("params"),
		)),
	).
		Line().Line().
		Comment("ServerTimestamp returns the current time of the database server.").Line().
		Func().Id("ServerTimestamp").Params(jen.Id("ctx").Qual("context", "Context")).Params(jen.Qual("time", "Time"), jen.Error()).Block(
		jen.Id("query").Op(":=").Lit(query),
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("ExecuteQuery").Call(jen.Id("ctx"), jen.Id("query"), jen.Nil()),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Qual("time", "Time").Values(), jen.Id("NewQueryError").Call(jen.Lit(""), jen.Id("query"), jen.Err())),
		),
		jen.If(jen.Len(jen.Id("rows")).Op("==").Lit(0)).Block(
			jen.Return(jen.Qual("time", "Time").Values(), jen.Id("NewQueryError").Call(jen.Lit(""), jen.Id("query"), jen.Qual("fmt", "Errorf").Call(jen.Lit("no rows")))),
		),
		jen.Return(jen.Id("CoerceDateTime").Call(jen.Id("rows").Index(jen.Lit(0)).Index(jen.Lit(cypher.ColumnTimestamp)))),
	)
}
