package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is unique or primary key constraint failure
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is foreign key constraint failure
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
		}
	}
	return false
}

// ConstraintColumn extracts column of violated constraint, empty when driver error doesn't name it.
// Postgres constraints are expected to follow default naming <table>_<column>_key and <table>_<column>_fkey,
// primary key constraints <table>_pkey yield empty column.
func ConstraintColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
		for _, suffix := range []string{"_fkey", "_key"} {
			if strings.HasSuffix(name, suffix) {
				return strings.TrimSuffix(name, suffix)
			}
		}
		return ""
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// UNIQUE constraint failed: users.username
		msg := sqliteErr.Error()
		i := strings.LastIndex(msg, "constraint failed: ")
		if i < 0 {
			return ""
		}

		cols := msg[i+len("constraint failed: "):]

		col, _, _ := strings.Cut(cols, ",")
		if _, c, ok := strings.Cut(col, "."); ok {
			col = c
		}
		col, _, _ = strings.Cut(col, " ")
		return strings.TrimSpace(col)
	}
	return ""
}
