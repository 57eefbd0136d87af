// Package migrations embeds the SQL migration files so the binary can apply
// them at boot without shipping files alongside it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
