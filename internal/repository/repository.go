package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/umalmyha/bankadmin/internal/database"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/validation"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

// Store bundles dependencies shared by every sql repository
type Store struct {
	Executor  transactor.SqlxWithinTransactionExecutor
	Dialect   database.Dialect
	Validator *validation.EntityValidator
}

type sqlRepository struct {
	trx       transactor.SqlxWithinTransactionExecutor
	dialect   database.Dialect
	builder   squirrel.StatementBuilderType
	validator *validation.EntityValidator
}

func newSQLRepository(s Store) sqlRepository {
	return sqlRepository{
		trx:       s.Executor,
		dialect:   s.Dialect,
		builder:   s.Dialect.Builder(),
		validator: s.Validator,
	}
}

func (r *sqlRepository) get(ctx context.Context, dest any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, r.trx.Executor(ctx), dest, query, args...)
}

func (r *sqlRepository) selectAll(ctx context.Context, dest any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, r.trx.Executor(ctx), dest, query, args...)
}

func (r *sqlRepository) exec(ctx context.Context, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.trx.Executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// findOne scans single row into dest, missing row is reported as EntryNotFoundErr
func (r *sqlRepository) findOne(ctx context.Context, dest any, q squirrel.Sqlizer, notFoundMsg string) error {
	if err := r.get(ctx, dest, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bankErrors.NewEntryNotFoundErr(notFoundMsg)
		}
		return err
	}
	return nil
}

func (r *sqlRepository) count(ctx context.Context, table, column string, value any) (int, error) {
	var n int
	q := r.builder.Select("COUNT(*)").From(table).Where(squirrel.Eq{column: value})
	if err := r.get(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sqlRepository) exists(ctx context.Context, table, column string, value any) (bool, error) {
	n, err := r.count(ctx, table, column, value)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// checkReference reports foreign key violation if referenced row is missing
func (r *sqlRepository) checkReference(ctx context.Context, entity, field, table, column string, value any) error {
	ok, err := r.exists(ctx, table, column, value)
	if err != nil {
		return err
	}

	if !ok {
		msg := fmt.Sprintf("%s with %s %v doesn't exist", table, column, value)
		return bankErrors.NewConstraintViolation(entity, field, bankErrors.RuleForeignKey, msg)
	}
	return nil
}

// checkUnique reports unique violation if value is already taken
func (r *sqlRepository) checkUnique(ctx context.Context, entity, table, column string, value any) error {
	taken, err := r.exists(ctx, table, column, value)
	if err != nil {
		return err
	}

	if taken {
		msg := fmt.Sprintf("value %v is already taken", value)
		return bankErrors.NewConstraintViolation(entity, column, bankErrors.RuleUnique, msg)
	}
	return nil
}

// insertReturningID executes insert and scans generated identifier. Explicitly provided identifier
// moves postgres identity sequence past it, so subsequent generated values don't collide.
func (r *sqlRepository) insertReturningID(ctx context.Context, table, idColumn string, values map[string]any) (int64, error) {
	var id int64
	q := r.builder.Insert(table).SetMap(values).Suffix("RETURNING " + idColumn)
	if err := r.get(ctx, &id, q); err != nil {
		return 0, err
	}

	if _, explicit := values[idColumn]; explicit && r.dialect == database.Postgres {
		if err := r.syncIdentity(ctx, table, idColumn); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *sqlRepository) syncIdentity(ctx context.Context, table, idColumn string) error {
	seq := fmt.Sprintf("pg_get_serial_sequence('%s', '%s')", table, idColumn)
	q := squirrel.Expr(fmt.Sprintf(
		"SELECT setval(%s, GREATEST((SELECT MAX(%s) FROM %s), nextval(%s) - 1, 1))",
		seq, idColumn, table, seq,
	))

	var last int64
	if err := r.get(ctx, &last, q); err != nil {
		return fmt.Errorf("failed to sync %s identity - %w", table, err)
	}
	return nil
}

// writeErr converts driver constraint failures into ConstraintViolation,
// key is reported as field when driver error doesn't name the column
func writeErr(entity, key string, err error) error {
	if err == nil {
		return nil
	}

	field := database.ConstraintColumn(err)
	if field == "" {
		field = key
	}

	switch {
	case database.IsUniqueViolation(err):
		return bankErrors.NewConstraintViolation(entity, field, bankErrors.RuleUnique, err.Error())
	case database.IsForeignKeyViolation(err):
		return bankErrors.NewConstraintViolation(entity, field, bankErrors.RuleForeignKey, err.Error())
	default:
		return err
	}
}
