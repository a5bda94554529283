package graphgen

import "embed"

// Runtime holds the files copied into every generated module. They must only
// import packages a generated module can import.
//
//go:embed entity.go coerce.go errors.go runner.go
var Runtime embed.FS

// RuntimeFiles lists the embedded files in the order they are emitted.
var RuntimeFiles = []string{"errors.go", "entity.go", "coerce.go", "runner.go"}
