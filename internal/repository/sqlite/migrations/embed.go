package migrations

import "embed"

// FS holds the ordered SQLite schema files applied by Run.
//
//go:embed *.sql
var FS embed.FS
