package load

import (
	"fmt"
	"sort"
	"time"
)

// Metadata is the schema of a graph, as collected by sampling it.
// It is built once per generation run and never modified afterwards.
type Metadata struct {
	NodeKinds      []string                     `json:"node_kinds" yaml:"node_kinds" msgpack:"node_kinds"`
	NodeProperties map[string]map[string]string `json:"node_properties" yaml:"node_properties" msgpack:"node_properties"`
	EdgeKinds      []string                     `json:"edge_kinds" yaml:"edge_kinds" msgpack:"edge_kinds"`
	EdgeProperties map[string]map[string]string `json:"edge_properties" yaml:"edge_properties" msgpack:"edge_properties"`
	EdgeEndpoints  map[string]Endpoints         `json:"edge_endpoints" yaml:"edge_endpoints" msgpack:"edge_endpoints"`
	// ServerTime is the server clock when collection finished.
	ServerTime time.Time `json:"server_time" yaml:"server_time" msgpack:"server_time"`
}

// Endpoints holds the node kinds observed at either end of a relationship kind.
type Endpoints struct {
	Start []string `json:"start" yaml:"start" msgpack:"start"`
	End   []string `json:"end" yaml:"end" msgpack:"end"`
}

// NewMetadata returns an empty Metadata with all maps allocated.
func NewMetadata() *Metadata {
	return &Metadata{
		NodeKinds:      []string{},
		NodeProperties: map[string]map[string]string{},
		EdgeKinds:      []string{},
		EdgeProperties: map[string]map[string]string{},
		EdgeEndpoints:  map[string]Endpoints{},
	}
}

// NodeProperty returns the property types of a node kind. The result is
// never nil for a kind listed in NodeKinds.
func (m *Metadata) NodeProperty(kind string) map[string]string {
	return m.NodeProperties[kind]
}

// EdgeProperty returns the property types of a relationship kind.
func (m *Metadata) EdgeProperty(kind string) map[string]string {
	return m.EdgeProperties[kind]
}

// Empty reports whether the graph has no node kinds and no relationship kinds.
func (m *Metadata) Empty() bool {
	return len(m.NodeKinds) == 0 && len(m.EdgeKinds) == 0
}

// Validate checks that every listed kind has a property entry and that every
// relationship kind has an endpoints entry.
func (m *Metadata) Validate() error {
	for _, k := range m.NodeKinds {
		if m.NodeProperties[k] == nil {
			return fmt.Errorf("graphgen: node kind %q has no property entry", k)
		}
	}
	for _, k := range m.EdgeKinds {
		if m.EdgeProperties[k] == nil {
			return fmt.Errorf("graphgen: edge kind %q has no property entry", k)
		}
		if _, ok := m.EdgeEndpoints[k]; !ok {
			return fmt.Errorf("graphgen: edge kind %q has no endpoints entry", k)
		}
	}
	return nil
}

// SortedKeys returns the keys of props in lexicographic order.
func SortedKeys(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// kindSet accumulates unique kinds.
type kindSet map[string]struct{}

func (s kindSet) add(kinds ...string) {
	for _, k := range kinds {
		s[k] = struct{}{}
	}
}

func (s kindSet) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
