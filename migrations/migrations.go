// Package migrations embeds the SQL schema so the server binary carries its
// own migrations and never depends on a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
