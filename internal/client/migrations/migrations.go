// Package migrations embeds the SQLite schema of the local session store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
