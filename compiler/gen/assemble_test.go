package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/load"
)

var testNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func testMetadata() *load.Metadata {
	return &load.Metadata{
		NodeKinds: []string{"Person", "Company"},
		NodeProperties: map[string]map[string]string{
			"Person":  {"name": "STRING", "age": "INTEGER", "born": "DATE"},
			"Company": {"name": "STRING", "tags": "LIST"},
		},
		EdgeKinds: []string{"WORKS_AT", "KNOWS"},
		EdgeProperties: map[string]map[string]string{
			"WORKS_AT": {"since": "DATETIME"},
			"KNOWS":    {},
		},
		EdgeEndpoints: map[string]load.Endpoints{
			"WORKS_AT": {Start: []string{"Person"}, End: []string{"Company"}},
			"KNOWS":    {Start: []string{"Person"}, End: []string{"Person"}},
		},
		ServerTime: time.Date(2024, 5, 6, 7, 0, 0, 0, time.UTC),
	}
}

func testConn() graphgen.ConnectionConfig {
	return graphgen.ConnectionConfig{
		URI:      "bolt://localhost:7687",
		Database: "social",
		Username: "neo4j",
		Password: "secret",
	}
}

func assemble(t *testing.T, md *load.Metadata, opts ...Option) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "social.go")
	opts = append([]Option{WithRunID("run-1"), WithClock(func() time.Time { return testNow })}, opts...)
	out, err := Assemble(md, testConn(), path, opts...)
	require.NoError(t, err)
	require.Equal(t, path, out)
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	return path, string(buf)
}

func TestAssemble(t *testing.T) {
	path, src := assemble(t, testMetadata())

	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "social", f.Name.Name)

	t.Run("header", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(src, "// Code generated by graphgen. DO NOT EDIT."))
		assert.Contains(t, src, "Generator: graphgen "+Version)
		assert.Contains(t, src, "Server:    2024-05-06T07:00:00Z")
		assert.Contains(t, src, "Run:       run-1")
		assert.Contains(t, src, "Generated: 2024-05-06T07:08:09Z")
	})

	t.Run("section order", func(t *testing.T) {
		// Accessors follow the order in which the server listed the kinds.
		markers := []string{
			"package social",
			"var Connection = ConnectionConfig{",
			"func Normalize(",
			"func LookupByKind(",
			"var Metadata = SchemaMetadata{",
			"type Nodes struct",
			"func (n *Nodes) Person(",
			"func (n *Nodes) Company(",
			"type Edges struct",
			"func (e *Edges) WorksAt(",
			"func (e *Edges) Knows(",
			"func NewNodes(",
			"func ExecuteQuery(",
			"func ServerTimestamp(",
		}
		last := -1
		for _, m := range markers {
			i := strings.Index(src, m)
			require.Greater(t, i, last, "marker %q out of order", m)
			last = i
		}
	})

	t.Run("metadata literal", func(t *testing.T) {
		assert.Contains(t, src, `"Person": {`)
		assert.Contains(t, src, `"age":  "INTEGER"`)
		assert.Contains(t, src, `"WORKS_AT": {`)
		assert.Contains(t, src, `Start: []string{"Person"}`)
		assert.Contains(t, src, `End:   []string{"Company"}`)
	})

	t.Run("validations", func(t *testing.T) {
		assert.Contains(t, src, `NewValidationError("age", "INTEGER", "int64", v, err)`)
		assert.Contains(t, src, `NewValidationError("born", "DATE", "dbtype.Date", v, err)`)
		assert.Contains(t, src, `NewValidationError("since", "DATETIME", "time.Time", v, err)`)
	})

	t.Run("password from environment", func(t *testing.T) {
		assert.Contains(t, src, `os.Getenv("NEO4J_PASSWORD")`)
		assert.NotContains(t, src, "secret")
	})
}

func TestAssembleEmbedPassword(t *testing.T) {
	_, src := assemble(t, testMetadata(), WithEmbedPassword(true))
	assert.Contains(t, src, `Password: "secret"`)
	assert.NotContains(t, src, "NEO4J_PASSWORD")
}

func TestAssembleHeader(t *testing.T) {
	_, src := assemble(t, testMetadata(), WithHeader("// Copyright 2024 Example."))
	assert.Contains(t, src, "// Copyright 2024 Example.")
}

func TestAssembleEmptySchema(t *testing.T) {
	md := load.NewMetadata()
	path, src := assemble(t, md)
	_, err := parser.ParseFile(token.NewFileSet(), path, src, 0)
	require.NoError(t, err)
	assert.Contains(t, src, "type Nodes struct")
	assert.Contains(t, src, "type Edges struct")
	assert.Contains(t, src, "Server:    unknown")
	assert.NotContains(t, src, "func (n *Nodes)")
	assert.NotContains(t, src, "func (e *Edges)")
}

func TestAssembleDeterministic(t *testing.T) {
	_, a := assemble(t, testMetadata())
	_, b := assemble(t, testMetadata())
	assert.Equal(t, a, b)
}

func TestAssembleReplacesModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.go")
	require.NoError(t, os.WriteFile(path, []byte("package social\n\nvar stale = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path+".error", []byte("broken"), 0o644))

	_, err := Assemble(testMetadata(), testConn(), path)
	require.NoError(t, err)
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "stale")
	assert.NoFileExists(t, path+".error")
}

func TestAssembleFeatureFailureDiscardsModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.go")
	// A directory in place of the snapshot makes the feature fail.
	require.NoError(t, os.Mkdir(SnapshotPath(path, SnapshotYAML), 0o755))

	_, err := Assemble(testMetadata(), testConn(), path, WithFeatures(FeatureSnapshot))
	require.Error(t, err)
	assert.True(t, IsAssemblyError(err))
	assert.NoFileExists(t, path)
}

func TestAssembleCollisions(t *testing.T) {
	md := testMetadata()
	md.NodeKinds = append(md.NodeKinds, "PERSON")
	md.NodeProperties["PERSON"] = map[string]string{}
	_, src := assemble(t, md)
	assert.Contains(t, src, "func (n *Nodes) Person(")
	assert.Contains(t, src, "func (n *Nodes) Person2(")
	assert.Contains(t, src, `LookupByKind("PERSON", filters)`)
}

func TestAssemblerStates(t *testing.T) {
	t.Run("done", func(t *testing.T) {
		a, err := NewAssembler()
		require.NoError(t, err)
		assert.Equal(t, StateIntrospecting, a.State())

		_, err = a.Assemble(testMetadata(), testConn(), filepath.Join(t.TempDir(), "social.go"))
		require.NoError(t, err)
		assert.Equal(t, StateDone, a.State())
		assert.Len(t, a.Functions(), 4)

		_, err = a.Assemble(testMetadata(), testConn(), filepath.Join(t.TempDir(), "social.go"))
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
	})

	t.Run("failed", func(t *testing.T) {
		a, err := NewAssembler()
		require.NoError(t, err)
		_, err = a.Assemble(nil, testConn(), filepath.Join(t.TempDir(), "social.go"))
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Equal(t, StateFailed, a.State())
		assert.Equal(t, "failed", a.State().String())
	})
}

func TestAssembleInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		md    *load.Metadata
		path  string
		check func(error) bool
	}{
		{"keyword module", testMetadata(), filepath.Join(dir, "type.go"), IsConfigError},
		{"dashed module", testMetadata(), filepath.Join(dir, "my-graph.go"), IsConfigError},
		{"missing properties", &load.Metadata{NodeKinds: []string{"Person"}}, filepath.Join(dir, "social.go"), IsGenerationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.md, testConn(), tt.path)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.NoFileExists(t, tt.path)
		})
	}
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "social", ModuleName("/tmp/out/social.go"))
	assert.Equal(t, "social", ModuleName("social"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "introspecting", StateIntrospecting.String())
	assert.Equal(t, "writing", StateWriting.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestLoadRuntime(t *testing.T) {
	rt, err := loadRuntime()
	require.NoError(t, err)
	assert.Contains(t, rt.Imports, "github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype")
	assert.Contains(t, rt.Imports, "github.com/neo4j/neo4j-go-driver/v5/neo4j")
	assert.NotContains(t, rt.Decls, "package ")
	assert.NotContains(t, rt.Decls, "go:embed")
	for _, name := range []string{"func Normalize(", "func CoerceInt64(", "func CoerceLocalDateTime(", "func NewValidationError(", "type DialRunner struct", "func LookupByKind("} {
		assert.Contains(t, rt.Decls, name)
	}
}
