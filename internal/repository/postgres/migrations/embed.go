package migrations

import "embed"

// FS holds the goose migrations for the PostgreSQL schema.
//
//go:embed *.sql
var FS embed.FS
