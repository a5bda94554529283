// Package field describes the native types of graph properties.
//
// Introspection reports a type name for every sampled property value. The
// spelling depends on the probe used:
//
//	apoc.meta.type(v)          STRING, INTEGER, DATE_TIME, String[]
//	valueType(v)               INTEGER NOT NULL, LIST<STRING NOT NULL>, ZONED DATETIME
//	db.schema.*TypeProperties  Long, Double, StringArray
//
// Parse maps all of them onto one Type:
//
//	field.Parse("DATE_TIME")     // field.TypeDateTime
//	field.Parse("LocalDateTime") // field.TypeLocalDateTime
//	field.Parse("StringArray")   // field.TypeList
//	field.Parse("POINT")         // field.TypeAny
//
// # Heterogeneous Properties
//
// A property sampled from many entities may be reported with several types.
// Widen reconciles them:
//
//	field.Widen(field.TypeInteger, field.TypeFloat)   // TypeFloat
//	field.Widen(field.TypeDate, field.TypeDateTime)   // TypeDateTime
//	field.Widen(field.TypeDateTime, field.TypeLocalDateTime)  // TypeAny
//	field.Widen(field.TypeString, field.TypeNull)     // TypeString
//	field.Widen(field.TypeString, field.TypeInteger)  // TypeAny
package field
