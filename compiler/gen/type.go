package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/graphgen/schema/field"
)

// TypeRule maps a native property type to the Go type the driver sends for
// it and to the runtime function coercing filter values to that type.
type TypeRule struct {
	// Native is the canonical native type name, e.g. INTEGER.
	Native string
	// GoType is the Go type of coerced values, e.g. int64.
	GoType string
	// Coerce is the runtime coercion function. Empty means no coercion.
	Coerce string
}

// typeRules holds the rule of every native type with a coercion.
var typeRules = map[field.Type]TypeRule{
	field.TypeString:        {Native: "STRING", GoType: "string", Coerce: "CoerceString"},
	field.TypeInteger:       {Native: "INTEGER", GoType: "int64", Coerce: "CoerceInt64"},
	field.TypeFloat:         {Native: "FLOAT", GoType: "float64", Coerce: "CoerceFloat64"},
	field.TypeBoolean:       {Native: "BOOLEAN", GoType: "bool", Coerce: "CoerceBool"},
	field.TypeDate:          {Native: "DATE", GoType: "dbtype.Date", Coerce: "CoerceDate"},
	field.TypeDateTime:      {Native: "DATETIME", GoType: "time.Time", Coerce: "CoerceDateTime"},
	field.TypeLocalDateTime: {Native: "LOCAL DATETIME", GoType: "dbtype.LocalDateTime", Coerce: "CoerceLocalDateTime"},
	field.TypeList:          {Native: "LIST", GoType: "[]any", Coerce: "CoerceList"},
	field.TypeMap:           {Native: "MAP", GoType: "map[string]any", Coerce: "CoerceMap"},
}

// Rule returns the rule of a native type name. Unknown names map to any,
// with no coercion.
func Rule(native string) TypeRule {
	if r, ok := typeRules[field.Parse(native)]; ok {
		return r
	}
	return TypeRule{Native: native, GoType: "any"}
}

// MapType returns the Go type of values of the given native type.
func MapType(native string) string {
	return Rule(native).GoType
}

// GenerateValidation returns the statement checking the filter value of a
// property. A present, non-nil value is coerced to the Go type of native and
// replaced by the coerced value. A failed coercion returns a ValidationError
// naming the property, the expected type and the supplied type:
//
//	if v, ok := filters["age"]; ok && v != nil {
//		c, err := CoerceInt64(v)
//		if err != nil {
//			return nil, NewValidationError("age", "INTEGER", "int64", v, err)
//		}
//		filters["age"] = c
//	}
//
// Properties of an unknown type accept any value.
func GenerateValidation(property, native string) jen.Code {
	r := Rule(native)
	if r.Coerce == "" {
		return jen.Commentf("%q has type %s and accepts any value.", property, native)
	}
	return jen.If(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("filters").Index(jen.Lit(property)),
		jen.Id("ok").Op("&&").Id("v").Op("!=").Nil(),
	).Block(
		jen.List(jen.Id("c"), jen.Err()).Op(":=").Id(r.Coerce).Call(jen.Id("v")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(
				jen.Nil(),
				jen.Id("NewValidationError").Call(jen.Lit(property), jen.Lit(r.Native), jen.Lit(r.GoType), jen.Id("v"), jen.Err()),
			),
		),
		jen.Id("filters").Index(jen.Lit(property)).Op("=").Id("c"),
	)
}
