// Package migrations embeds the SQL schema so binaries can migrate without
// shipping the files next to them.
package migrations

import "embed"

//go:embed sql/*.sql
var FS embed.FS

// Dir is the directory inside FS holding the migration files.
const Dir = "sql"
