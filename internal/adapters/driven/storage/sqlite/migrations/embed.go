// Package migrations embeds SQL migration files for the SQLite store.
//
// Files are named NNN_description.up.sql and NNN_description.down.sql.
// Only up migrations run automatically; each runs once, in version order.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
