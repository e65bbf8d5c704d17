package config

import (
	"errors"
	"fmt"
)

// Database is the storage selection of the trip API service.
type Database struct {
	Driver string
	DSN    string
}

// LoadDatabase reads DB_DRIVER (sqlite or pgx) with DB_PATH for SQLite and
// DATABASE_URL for PostgreSQL.
func LoadDatabase() (Database, error) {
	driver := Get("DB_DRIVER", "sqlite")

	switch driver {
	case "sqlite":
		return Database{Driver: driver, DSN: Get("DB_PATH", "data/app.db")}, nil
	case "pgx":
		url := Get("DATABASE_URL", "")
		if url == "" {
			return Database{}, errors.New("load database config: DATABASE_URL is required for DB_DRIVER=pgx")
		}
		return Database{Driver: driver, DSN: url}, nil
	}

	return Database{}, fmt.Errorf("load database config: unsupported DB_DRIVER %q", driver)
}
