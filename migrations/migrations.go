// Package migrations embeds the versioned SQL schema for each storage backend.
// Files are named NNN_name.sql and live in one directory per backend.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
