package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/syssam/graphgen"
	"github.com/syssam/graphgen/dialect/cypher"
)

// runtimeFile is a source file copied into generated modules.
type runtimeFile struct {
	fsys fs.FS
	name string
}

// runtimeFiles lists the copied files in emission order.
var runtimeFiles = func() []runtimeFile {
	files := make([]runtimeFile, 0, len(graphgen.RuntimeFiles)+1)
	for _, name := range graphgen.RuntimeFiles {
		files = append(files, runtimeFile{fsys: graphgen.Runtime, name: name})
	}
	return append(files, runtimeFile{fsys: cypher.Builder, name: cypher.BuilderFile})
}()

// runtimeSection holds the declarations shared by all generated modules
// and the imports they need.
type runtimeSection struct {
	Imports []string
	Decls   string
}

// loadRuntime reads the runtime files and returns their declarations
// without package clauses or imports.
func loadRuntime() (*runtimeSection, error) {
	var (
		imports = make(map[string]bool)
		decls   strings.Builder
	)
	for _, rf := range runtimeFiles {
		src, err := fs.ReadFile(rf.fsys, rf.name)
		if err != nil {
			return nil, NewGenerationError("runtime", "", "read "+rf.name, err)
		}
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, rf.name, src, parser.ParseComments)
		if err != nil {
			return nil, NewGenerationError("runtime", "", "parse "+rf.name, err)
		}
		for _, spec := range f.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				return nil, NewGenerationError("runtime", "", "import of "+rf.name, err)
			}
			imports[path] = true
		}
		start := fset.Position(bodyStart(f)).Offset
		decls.WriteString(strings.TrimSpace(string(src[start:])))
		decls.WriteString("\n\n")
	}
	paths := make([]string, 0, len(imports))
	for p := range imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return &runtimeSection{Imports: paths, Decls: decls.String()}, nil
}

// bodyStart returns the position following the package clause and the
// import declarations of f.
func bodyStart(f *ast.File) token.Pos {
	end := f.Name.End()
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT {
			break
		}
		end = gd.End()
	}
	return end
}
