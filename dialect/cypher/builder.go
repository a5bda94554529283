package cypher

import (
	"sort"
	"strconv"
	"strings"
)

// Quote returns name as a backtick-quoted Cypher identifier.
func Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// LookupByKind returns a query matching the nodes labelled kind whose
// properties equal filters, together with its parameters.
//
//	MATCH (n:`Person` {`age`: $age, `name`: $name}) RETURN n
//
// Filter values only ever appear in the parameter map.
func LookupByKind(kind string, filters map[string]any) (string, map[string]any) {
	pattern, params := propertyPattern(filters)
	return "MATCH (n:" + Quote(kind) + " " + pattern + ") RETURN n", params
}

// LookupEdgesByKind returns a query matching the relationships of type kind
// whose properties equal filters, along with their endpoints.
//
//	MATCH (source)-[r:`KNOWS` {`since`: $since}]->(target) RETURN source, r, target
func LookupEdgesByKind(kind string, filters map[string]any) (string, map[string]any) {
	pattern, params := propertyPattern(filters)
	return "MATCH (source)-[r:" + Quote(kind) + " " + pattern + "]->(target) RETURN source, r, target", params
}

// propertyPattern renders filters as a property map pattern in key order.
// Keys that are plain identifiers name their own parameter. If any key is
// not, all parameters are named positionally.
func propertyPattern(filters map[string]any) (string, map[string]any) {
	keys := make([]string, 0, len(filters))
	positional := false
	for k := range filters {
		keys = append(keys, k)
		positional = positional || !isIdentifier(k)
	}
	sort.Strings(keys)
	params := make(map[string]any, len(keys))
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		name := k
		if positional {
			name = "p" + strconv.Itoa(i)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Quote(k))
		b.WriteString(": $")
		b.WriteString(name)
		params[name] = filters[k]
	}
	b.WriteByte('}')
	return b.String(), params
}

// isIdentifier reports whether s is an ASCII identifier usable as a
// parameter name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
