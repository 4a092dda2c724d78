package postgresql

import (
	"io/fs"
)

func migrationsSub() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
