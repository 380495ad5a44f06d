package postgres

import (
	"errors"

	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/postgres/migrations"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

var errNoPool = errors.New("postgres: migrations need a pgxpool connection")

// ApplyMigrations runs the embedded migrations over a database/sql handle
// borrowed from the pool.
func (s *Store) ApplyMigrations() error {
	if s.raw == nil {
		return errNoPool
	}

	// Not closed: the handle only borrows pool connections.
	db := stdlib.OpenDBFromPool(s.raw)

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return err
	}

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
