// Package migrations holds the goose SQL migrations for the shared staging
// schema, embedded so binaries can run them without external files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the directory inside FS passed to goose.
const Dir = "."
