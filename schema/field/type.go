package field

import (
	"strings"
)

// A Type is the native type of a graph property.
type Type uint8

// Property types.
const (
	TypeInvalid Type = iota
	TypeNull
	TypeString
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeLocalDateTime
	TypeList
	TypeMap
	TypeAny
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid:       "invalid",
		TypeNull:          "NULL",
		TypeString:        "STRING",
		TypeInteger:       "INTEGER",
		TypeFloat:         "FLOAT",
		TypeBoolean:       "BOOLEAN",
		TypeDate:          "DATE",
		TypeDateTime:      "DATETIME",
		TypeLocalDateTime: "LOCAL DATETIME",
		TypeList:          "LIST",
		TypeMap:           "MAP",
		TypeAny:           "ANY",
	}
	constNames = [...]string{
		TypeNull:          "TypeNull",
		TypeString:        "TypeString",
		TypeInteger:       "TypeInteger",
		TypeFloat:         "TypeFloat",
		TypeBoolean:       "TypeBoolean",
		TypeDate:          "TypeDate",
		TypeDateTime:      "TypeDateTime",
		TypeLocalDateTime: "TypeLocalDateTime",
		TypeList:          "TypeList",
		TypeMap:           "TypeMap",
		TypeAny:           "TypeAny",
	}
)

// String returns the canonical native name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Temporal reports if the given type is a date or a datetime.
func (t Type) Temporal() bool {
	return t == TypeDate || t == TypeDateTime || t == TypeLocalDateTime
}

// Valid reports if the given type is known.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// ConstName returns the constant name of the type.
func (t Type) ConstName() string {
	if t.Valid() {
		return constNames[t]
	}
	return typeNames[TypeInvalid]
}

// aliases maps every recognized spelling, upper-cased, to its type.
// It covers apoc.meta.type, Cypher valueType() and db.schema.nodeTypeProperties.
var aliases = map[string]Type{
	"NULL":            TypeNull,
	"NOTHING":         TypeNull,
	"STRING":          TypeString,
	"INTEGER":         TypeInteger,
	"INT":             TypeInteger,
	"LONG":            TypeInteger,
	"FLOAT":           TypeFloat,
	"DOUBLE":          TypeFloat,
	"BOOLEAN":         TypeBoolean,
	"DATE":            TypeDate,
	"DATETIME":        TypeDateTime,
	"DATE_TIME":       TypeDateTime,
	"ZONED DATETIME":  TypeDateTime,
	"LOCAL DATETIME":  TypeLocalDateTime,
	"LOCAL_DATE_TIME": TypeLocalDateTime,
	"LOCALDATETIME":   TypeLocalDateTime,
	"LIST":            TypeList,
	"MAP":             TypeMap,
	"ANY":             TypeAny,
}

// Parse returns the type named by native. Unrecognized names yield TypeAny,
// and the empty name yields TypeInvalid.
func Parse(native string) Type {
	name := strings.ToUpper(strings.TrimSpace(native))
	name = strings.TrimSpace(strings.TrimSuffix(name, "NOT NULL"))
	switch {
	case name == "":
		return TypeInvalid
	case strings.HasPrefix(name, "LIST"),
		strings.HasSuffix(name, "[]"),
		strings.HasSuffix(name, "ARRAY"):
		return TypeList
	}
	if t, ok := aliases[name]; ok {
		return t
	}
	return TypeAny
}

// Widen returns the narrowest type that holds values of both a and b.
// Null and invalid types are absorbed by the other operand. A date widens to
// either datetime, but zoned and local datetimes never compare equal in the
// database and widen to TypeAny.
func Widen(a, b Type) Type {
	switch {
	case a == b:
		return a
	case a == TypeInvalid || a == TypeNull:
		return b
	case b == TypeInvalid || b == TypeNull:
		return a
	case a.Numeric() && b.Numeric():
		return TypeFloat
	case a == TypeDate && b.Temporal():
		return b
	case b == TypeDate && a.Temporal():
		return a
	default:
		return TypeAny
	}
}

// WidenAll folds Widen over ts. It returns TypeInvalid for no types.
func WidenAll(ts ...Type) Type {
	w := TypeInvalid
	for _, t := range ts {
		w = Widen(w, t)
	}
	return w
}
