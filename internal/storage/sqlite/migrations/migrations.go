// Package migrations embeds the SQL migrations for the sqlite content store.
package migrations

import "embed"

// FS contains the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
