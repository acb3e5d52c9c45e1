package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migrateDB "github.com/golang-migrate/migrate/v4/database"
	migratePgx "github.com/golang-migrate/migrate/v4/database/pgx"
	migrateSqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies embedded migrations of dialect.
//
// Postgres migrations run over a dedicated connection which is closed afterwards. SQLite migrations
// run over db itself since an in-memory database lives only as long as its connection.
func Migrate(db *sql.DB, opts Options) error {
	src, err := iofs.New(migrations, "migrations/"+string(opts.Dialect))
	if err != nil {
		return fmt.Errorf("failed to read %s migrations - %w", opts.Dialect, err)
	}

	switch opts.Dialect {
	case Postgres:
		migrationDB, err := sql.Open(opts.Dialect.driverName(), opts.DSN)
		if err != nil {
			return fmt.Errorf("failed to open connection for migrations - %w", err)
		}

		drv, err := migratePgx.WithInstance(migrationDB, &migratePgx.Config{})
		if err != nil {
			_ = migrationDB.Close()
			return fmt.Errorf("failed to build migration driver - %w", err)
		}

		m, err := up(src, opts.Dialect, drv)
		if err != nil {
			_ = migrationDB.Close()
			return err
		}

		srcErr, dbErr := m.Close()
		return errors.Join(srcErr, dbErr)
	case SQLite:
		drv, err := migrateSqlite.WithInstance(db, &migrateSqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to build migration driver - %w", err)
		}

		// closing migrate instance closes db as well
		if _, err := up(src, opts.Dialect, drv); err != nil {
			return err
		}
		return src.Close()
	default:
		return fmt.Errorf("unsupported dialect %q", opts.Dialect)
	}
}

func up(src source.Driver, d Dialect, drv migrateDB.Driver) (*migrate.Migrate, error) {
	m, err := migrate.NewWithInstance("iofs", src, string(d), drv)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migrations - %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("failed to apply migrations - %w", err)
	}
	return m, nil
}
