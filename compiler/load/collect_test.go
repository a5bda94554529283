package load_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/load"
	"github.com/syssam/graphgen/dialect/cypher"
)

var serverTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// script answers queries whose text contains a key with the mapped rows.
// Keys are matched longest first so more specific ones win.
type script map[string][]map[string]any

func (s script) runner(t *testing.T, failOn string) (graphgen.RunnerFunc, *[]string) {
	var queries []string
	return func(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
		queries = append(queries, query)
		if failOn != "" && strings.Contains(query, failOn) {
			return nil, errors.New("connection reset")
		}
		best := ""
		for k := range s {
			if strings.Contains(query, k) && len(k) > len(best) {
				best = k
			}
		}
		if best == "" {
			t.Fatalf("unexpected query: %s", query)
		}
		return s[best], nil
	}, &queries
}

func sampleGraph() script {
	return script{
		"db.labels()": {
			{"label": "Person"}, {"label": "Company"},
		},
		"(n:`Person`)": {
			{"key": "name", "type": "STRING"},
			{"key": "age", "type": "INTEGER"},
			{"key": "age", "type": "FLOAT"},
			{"key": "uuid", "type": "STRING"},
		},
		"(n:`Company`)": {
			{"key": "name", "type": "STRING"},
			{"key": "founded", "type": "DATE"},
		},
		"db.relationshipTypes()": {
			{"relationshipType": "KNOWS"}, {"relationshipType": "WORKS_AT"},
		},
		"()-[e:`KNOWS`]->()": {
			{"key": "since", "type": "INTEGER"},
		},
		"()-[e:`WORKS_AT`]->()": {},
		"(a)-[e:`KNOWS`]->(b)": {
			{"startLabels": []any{"Person"}, "endLabels": []any{"Person"}},
			{"startLabels": []any{"Person"}, "endLabels": []any{"Company"}},
			{"startLabels": []any{"Person"}, "endLabels": []any{"Person"}},
			{"startLabels": []string{"Person"}, "endLabels": []string{"Company"}},
		},
		"(a)-[e:`WORKS_AT`]->(b)": {
			{"startLabels": []any{"Person"}, "endLabels": []any{"Company"}},
		},
		"datetime()": {
			{"timestamp": serverTime},
		},
	}
}

func TestCollect(t *testing.T) {
	run, queries := sampleGraph().runner(t, "")
	md, err := load.Collect(context.Background(), run)
	require.NoError(t, err)
	require.NoError(t, md.Validate())

	assert.Equal(t, []string{"Person", "Company"}, md.NodeKinds)
	assert.Equal(t, []string{"KNOWS", "WORKS_AT"}, md.EdgeKinds)
	assert.Equal(t, map[string]string{"name": "STRING", "age": "FLOAT", "uuid": "STRING"}, md.NodeProperty("Person"))
	assert.Equal(t, map[string]string{"name": "STRING", "founded": "DATE"}, md.NodeProperty("Company"))
	assert.Equal(t, map[string]string{"since": "INTEGER"}, md.EdgeProperty("KNOWS"))
	assert.NotNil(t, md.EdgeProperty("WORKS_AT"))
	assert.Empty(t, md.EdgeProperty("WORKS_AT"))
	assert.Equal(t, load.Endpoints{Start: []string{"Person"}, End: []string{"Company", "Person"}}, md.EdgeEndpoints["KNOWS"])
	assert.Equal(t, load.Endpoints{Start: []string{"Person"}, End: []string{"Company"}}, md.EdgeEndpoints["WORKS_AT"])
	assert.True(t, serverTime.Equal(md.ServerTime))
	assert.False(t, md.Empty())

	// Sequence: kinds, then per-kind properties, then relationships, then the clock.
	require.Len(t, *queries, 9)
	assert.Contains(t, (*queries)[0], "db.labels()")
	assert.Contains(t, (*queries)[1], "`Person`")
	assert.Contains(t, (*queries)[2], "`Company`")
	assert.Contains(t, (*queries)[3], "db.relationshipTypes()")
	assert.Contains(t, (*queries)[4], "()-[e:`KNOWS`]->()")
	assert.Contains(t, (*queries)[5], "(a)-[e:`KNOWS`]->(b)")
	assert.Contains(t, (*queries)[8], "datetime()")
}

func TestCollectOptions(t *testing.T) {
	run, queries := sampleGraph().runner(t, "")
	_, err := load.Collect(context.Background(), run,
		load.WithSampleLimit(25),
		load.WithProbe(cypher.ProbeCypher),
		load.WithLogger(nil),
	)
	require.NoError(t, err)
	assert.Contains(t, (*queries)[1], "LIMIT 25")
	assert.Contains(t, (*queries)[1], "valueType(n[key])")
}

func TestCollectEmptyGraph(t *testing.T) {
	run, _ := script{
		"db.labels()":            {},
		"db.relationshipTypes()": {},
		"datetime()":             {{"timestamp": serverTime.Format(time.RFC3339)}},
	}.runner(t, "")
	md, err := load.Collect(context.Background(), run)
	require.NoError(t, err)
	assert.True(t, md.Empty())
	assert.NotNil(t, md.NodeKinds)
	assert.NotNil(t, md.EdgeEndpoints)
	assert.True(t, serverTime.Equal(md.ServerTime))
}

func TestCollectDuplicateKinds(t *testing.T) {
	s := sampleGraph()
	s["db.labels()"] = []map[string]any{{"label": "Person"}, {"label": "Person"}, {"label": "Company"}}
	run, _ := s.runner(t, "")
	md, err := load.Collect(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", "Company"}, md.NodeKinds)
}

func TestCollectFailure(t *testing.T) {
	tests := []struct {
		failOn string
		step   string
		kind   string
	}{
		{"db.labels()", load.StepNodeKinds, ""},
		{"(n:`Company`)", load.StepNodeProperties, "Company"},
		{"db.relationshipTypes()", load.StepEdgeKinds, ""},
		{"()-[e:`WORKS_AT`]->()", load.StepEdgeProperties, "WORKS_AT"},
		{"(a)-[e:`KNOWS`]->(b)", load.StepEdgeEndpoints, "KNOWS"},
		{"datetime()", load.StepServerTimestamp, ""},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			run, _ := sampleGraph().runner(t, tt.failOn)
			md, err := load.Collect(context.Background(), run)
			require.Error(t, err)
			assert.Nil(t, md)
			assert.True(t, errors.Is(err, load.ErrIntrospection))
			assert.True(t, load.IsIntrospectionError(err))
			var ie *load.IntrospectionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.step, ie.Step)
			assert.Equal(t, tt.kind, ie.Kind)
			assert.Contains(t, err.Error(), "connection reset")
		})
	}
}

func TestCollectMalformedRows(t *testing.T) {
	s := sampleGraph()
	s["(a)-[e:`KNOWS`]->(b)"] = []map[string]any{{"startLabels": "Person", "endLabels": []any{"Person"}}}
	run, _ := s.runner(t, "")
	_, err := load.Collect(context.Background(), run)
	assert.True(t, load.IsIntrospectionError(err))
}

func TestMetadataValidate(t *testing.T) {
	md := load.NewMetadata()
	md.NodeKinds = []string{"Person"}
	assert.Error(t, md.Validate())
	md.NodeProperties["Person"] = map[string]string{}
	assert.NoError(t, md.Validate())
	md.EdgeKinds = []string{"KNOWS"}
	md.EdgeProperties["KNOWS"] = map[string]string{}
	assert.Error(t, md.Validate())
	md.EdgeEndpoints["KNOWS"] = load.Endpoints{}
	assert.NoError(t, md.Validate())
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, load.SortedKeys(map[string]string{"c": "", "a": "", "b": ""}))
	assert.Empty(t, load.SortedKeys(nil))
}
