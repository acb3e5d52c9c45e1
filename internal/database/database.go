package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v4/stdlib" // postgres driver
	"github.com/jmoiron/sqlx"
	"go.nhat.io/otelsql"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite" // sqlite driver
)

const statsInterval = 15 * time.Second

// Dialect is SQL dialect of the underlying store
type Dialect string

const (
	// Postgres is PostgreSQL accessed through pgx
	Postgres Dialect = "postgres"
	// SQLite is embedded SQLite accessed through modernc driver
	SQLite Dialect = "sqlite"
)

// ParseDialect converts raw value to Dialect
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(s)); d {
	case Postgres, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// Placeholder returns bind variables format used by dialect
func (d Dialect) Placeholder() squirrel.PlaceholderFormat {
	if d == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// Builder returns statement builder for dialect
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder())
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Options describe how to connect to the store
type Options struct {
	Dialect      Dialect
	DSN          string
	MaxOpenConns int
}

func (o Options) inMemory() bool {
	return o.Dialect == SQLite && strings.Contains(o.DSN, ":memory:")
}

var (
	driversMu  sync.Mutex
	registered = make(map[Dialect]string)
)

// registerDriver wraps dialect driver with otelsql once per process
func registerDriver(d Dialect) (string, error) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if name, ok := registered[d]; ok {
		return name, nil
	}

	name, err := otelsql.Register(d.driverName(),
		otelsql.AllowRoot(),
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(attribute.String("db.system", string(d))),
	)
	if err != nil {
		return "", err
	}

	registered[d] = name
	return name, nil
}

// Open connects to the store, verifies connection and applies migrations
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	driverName, err := registerDriver(opts.Dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to register instrumented %s driver - %w", opts.Dialect, err)
	}

	db, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database - %w", opts.Dialect, err)
	}

	switch {
	case opts.inMemory():
		// every connection to in-memory sqlite gets its own empty database
		db.SetMaxOpenConns(1)
	case opts.MaxOpenConns > 0:
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("didn't get response from database after sending ping request - %w", err)
	}

	if err := otelsql.RecordStats(db, otelsql.WithMinimumReadDBStatsInterval(statsInterval)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to record database stats - %w", err)
	}

	if err := Migrate(db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}

	return sqlx.NewDb(db, opts.Dialect.driverName()), nil
}

// SQLiteDSN builds modernc dsn for the file path, ":memory:" builds in-memory database
func SQLiteDSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_time_format=sqlite"
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}
	return fmt.Sprintf("file:%s?%s&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path, pragmas)
}

// PostgresDSN builds pgx dsn
func PostgresDSN(user, password, host string, port int, database, sslMode string) string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s sslmode=%s", user, password, host, port, database, sslMode)
}
