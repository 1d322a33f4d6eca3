package postgres

import "io/fs"

// MigrationFS returns the embedded migrations rooted at the migrations directory.
func MigrationFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
