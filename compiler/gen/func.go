package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/compiler/load"
)

// Receivers of the generated accessors.
const (
	NodesType = "Nodes"
	EdgesType = "Edges"
)

// Result columns of the generated lookup queries.
const (
	nodeColumn   = "n"
	sourceColumn = "source"
	edgeColumn   = "r"
	targetColumn = "target"
)

// GeneratedFunction is an accessor being built for one kind. Its body is
// appended fragment by fragment and frozen into a method declaration once
// complete.
type GeneratedFunction struct {
	// Name is the method name.
	Name string
	// Kind is the node label or relationship type.
	Kind string
	// Edge reports whether Kind is a relationship type.
	Edge bool
	// Doc holds the lines of the method comment.
	Doc []string
	// Body holds the statements of the method in order.
	Body []jen.Code

	frozen jen.Code
}

// Append adds fragments to the end of the body. It panics once the function
// was frozen.
func (f *GeneratedFunction) Append(code ...jen.Code) {
	if f.frozen != nil {
		panic(fmt.Sprintf("graphgen: append to frozen function %s", f.Name))
	}
	f.Body = append(f.Body, code...)
}

// Frozen reports whether Freeze was called.
func (f *GeneratedFunction) Frozen() bool {
	return f.frozen != nil
}

// Freeze returns the method declaration. Later calls return the same code.
func (f *GeneratedFunction) Freeze() jen.Code {
	if f.frozen != nil {
		return f.frozen
	}
	recv, typ, result := "n", NodesType, "Entity"
	if f.Edge {
		recv, typ, result = "e", EdgesType, "Triple"
	}
	s := jen.Null()
	for _, line := range f.Doc {
		s.Comment(line).Line()
	}
	s.Func().
		Params(jen.Id(recv).Op("*").Id(typ)).
		Id(f.Name).
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("id").Id("any"),
			jen.Id("props").Map(jen.String()).Id("any"),
		).
		Params(jen.Index().Id(result), jen.Error()).
		Block(f.Body...)
	f.frozen = s
	return s
}

// GenerateFor builds the accessor of a kind: the skeleton copying the
// caller's filters, one validation fragment per property in lexicographic
// order, and the closing fragment running the lookup.
func GenerateFor(kind string, properties map[string]string, isEdge bool) *GeneratedFunction {
	f := &GeneratedFunction{
		Name: Accessor(kind),
		Kind: kind,
		Edge: isEdge,
	}
	f.Doc = docFor(f)
	f.Append(
		jen.Id("filters").Op(":=").Make(jen.Map(jen.String()).Id("any"), jen.Len(jen.Id("props")).Op("+").Lit(1)).
			Line().For(jen.List(jen.Id("k"), jen.Id("v")).Op(":=").Range().Id("props")).Block(
			jen.Id("filters").Index(jen.Id("k")).Op("=").Id("v"),
		),
	)
	for _, p := range load.SortedKeys(properties) {
		f.Append(GenerateValidation(p, properties[p]))
	}
	if isEdge {
		f.Append(closeEdge(kind))
	} else {
		f.Append(closeNode(kind))
	}
	return f
}

func docFor(f *GeneratedFunction) []string {
	if f.Edge {
		return []string{
			fmt.Sprintf("%s returns the %q relationships whose properties equal props.", f.Name, f.Kind),
			fmt.Sprintf("A non-nil id must equal the %s property.", graphgen.IDProperty),
			"Each result is a Triple of source node, relationship and target node.",
		}
	}
	return []string{
		fmt.Sprintf("%s returns the nodes labelled %q whose properties equal props.", f.Name, f.Kind),
		fmt.Sprintf("A non-nil id must equal the %s property.", graphgen.IDProperty),
		"Each result is an Entity holding the node id, labels and remaining properties.",
	}
}

// mergeID merges the identifier into the filters and runs the query built
// by lookup. It leaves rows in scope.
func mergeID(kind, lookup, recv string) jen.Code {
	return jen.Add(
		jen.If(jen.Id("id").Op("!=").Nil()).Block(
			jen.Id("filters").Index(jen.Id("IDProperty")).Op("=").Id("id"),
		),
	).Line().List(jen.Id("query"), jen.Id("params")).Op(":=").Id(lookup).Call(jen.Lit(kind), jen.Id("filters")).
		Line().List(jen.Id("rows"), jen.Err()).Op(":=").Id(recv).Dot("runner").Dot("Run").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("params")).
		Line().If(jen.Err().Op("!=").Nil()).Block(
		jen.Return(jen.Nil(), jen.Id("NewQueryError").Call(jen.Lit(kind), jen.Id("query"), jen.Err())),
	)
}

func closeNode(kind string) jen.Code {
	return jen.Add(mergeID(kind, "LookupByKind", "n")).
		Line().Id("entities").Op(":=").Make(jen.Index().Id("Entity"), jen.Lit(0), jen.Len(jen.Id("rows"))).
		Line().For(jen.List(jen.Id("_"), jen.Id("row")).Op(":=").Range().Id("rows")).Block(
		jen.Id("entities").Op("=").Append(jen.Id("entities"), jen.Id("Normalize").Call(jen.Id("row").Index(jen.Lit(nodeColumn)))),
	).
		Line().Return(jen.Id("entities"), jen.Nil())
}

func closeEdge(kind string) jen.Code {
	return jen.Add(mergeID(kind, "LookupEdgesByKind", "e")).
		Line().Id("triples").Op(":=").Make(jen.Index().Id("Triple"), jen.Lit(0), jen.Len(jen.Id("rows"))).
		Line().For(jen.List(jen.Id("_"), jen.Id("row")).Op(":=").Range().Id("rows")).Block(
		jen.Id("triples").Op("=").Append(jen.Id("triples"), jen.Id("NormalizeTriple").Call(
			jen.Id("row"), jen.Lit(sourceColumn), jen.Lit(edgeColumn), jen.Lit(targetColumn),
		)),
	).
		Line().Return(jen.Id("triples"), jen.Nil())
}
