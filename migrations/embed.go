// Package migrations embeds the SQL migration files into the binary.
//
// Import this package for its side effect of registering the embedded
// filesystem with the database package:
//
//	import _ "github.com/inspectra/inspectra-core/migrations"
package migrations

import (
	"embed"

	"github.com/inspectra/inspectra-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
