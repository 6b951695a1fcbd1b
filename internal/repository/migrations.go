package repository

import (
	"database/sql"
	"embed"
	"errors"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies embedded goose migrations. It opens its own
// database/sql connection because goose doesn't speak pgx pools.
func RunMigrations(cfg DBConfig) error {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return errors.New("opening migration connection error: " + err.Error())
	}
	defer db.Close()
	goose.SetBaseFS(migrationsFS)
	if err = goose.SetDialect("postgres"); err != nil {
		return errors.New("setting goose dialect error: " + err.Error())
	}
	if err = goose.Up(db, "migrations"); err != nil {
		return errors.New("applying migrations error: " + err.Error())
	}
	return nil
}
