package cypher

import (
	"fmt"
	"strconv"
	"strings"
)

// Probe selects the function used to report the type of a sampled value.
type Probe uint8

const (
	// ProbeAPOC uses apoc.meta.type. It requires the APOC plugin.
	ProbeAPOC Probe = iota
	// ProbeCypher uses the valueType function of Neo4j 5.13 and later.
	ProbeCypher
)

// String returns the probe name.
func (p Probe) String() string {
	switch p {
	case ProbeAPOC:
		return "apoc"
	case ProbeCypher:
		return "cypher"
	default:
		return "Probe(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParseProbe returns the probe with the given name. The empty name selects
// ProbeAPOC.
func ParseProbe(name string) (Probe, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "apoc":
		return ProbeAPOC, nil
	case "cypher", "valuetype":
		return ProbeCypher, nil
	}
	return 0, fmt.Errorf("cypher: unknown type probe %q", name)
}

func (p Probe) typeOf(expr string) string {
	if p == ProbeCypher {
		return "valueType(" + expr + ")"
	}
	return "apoc.meta.type(" + expr + ")"
}

// Result columns of the introspection queries.
const (
	ColumnLabel            = "label"
	ColumnRelationshipType = "relationshipType"
	ColumnKey              = "key"
	ColumnType             = "type"
	ColumnStartLabels      = "startLabels"
	ColumnEndLabels        = "endLabels"
	ColumnTimestamp        = "timestamp"
)

// NodeKinds returns the query listing every node label.
func NodeKinds() (string, map[string]any) {
	return "CALL db.labels() YIELD label RETURN label", nil
}

// NodeProperties returns the query reporting each property key of the first
// limit nodes labelled kind, with the type of every observed value.
func NodeProperties(kind string, probe Probe, limit int) (string, map[string]any) {
	return "MATCH (n:" + Quote(kind) + ") WITH n LIMIT " + strconv.Itoa(limit) +
		" UNWIND keys(n) AS key RETURN DISTINCT key, " + probe.typeOf("n[key]") + " AS type", nil
}

// EdgeKinds returns the query listing every relationship type.
func EdgeKinds() (string, map[string]any) {
	return "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType", nil
}

// EdgeProperties returns the query reporting each property key of the first
// limit relationships of type kind, with the type of every observed value.
func EdgeProperties(kind string, probe Probe, limit int) (string, map[string]any) {
	return "MATCH ()-[e:" + Quote(kind) + "]->() WITH e LIMIT " + strconv.Itoa(limit) +
		" UNWIND keys(e) AS key RETURN DISTINCT key, " + probe.typeOf("e[key]") + " AS type", nil
}

// EdgeEndpoints returns the query reporting the label lists of the endpoints
// of the first limit relationships of type kind.
func EdgeEndpoints(kind string, limit int) (string, map[string]any) {
	return "MATCH (a)-[e:" + Quote(kind) + "]->(b) WITH a, b LIMIT " + strconv.Itoa(limit) +
		" RETURN DISTINCT labels(a) AS startLabels, labels(b) AS endLabels", nil
}

// ServerTimestamp returns the query reading the server clock.
func ServerTimestamp() (string, map[string]any) {
	return "RETURN datetime() AS timestamp", nil
}
