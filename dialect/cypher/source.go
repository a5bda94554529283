package cypher

import "embed"

// Builder holds the query builder copied into every generated module.
//
//go:embed builder.go
var Builder embed.FS

// BuilderFile is the name of the embedded builder source.
const BuilderFile = "builder.go"
