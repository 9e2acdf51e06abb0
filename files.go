package auth

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the accounts migrations for external migration
// runners. CreateSchema covers the same table for local setups.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
