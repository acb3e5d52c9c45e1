package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/model"
)

const accountEntity = "account"

var accountColumns = []string{
	"account_id", "customer_id", "account_type", "account_number", "balance", "opened_date",
}

type AccountRepository interface {
	FindByID(context.Context, int64) (*model.Account, error)
	FindByCustomerID(context.Context, string) ([]*model.Account, error)
	Create(context.Context, *model.Account) error
}

type sqlAccountRepository struct {
	sqlRepository
}

func NewSQLAccountRepository(s Store) AccountRepository {
	return &sqlAccountRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlAccountRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	var a model.Account
	q := r.builder.Select(accountColumns...).From("accounts").Where(squirrel.Eq{"account_id": id})
	if err := r.findOne(ctx, &a, q, fmt.Sprintf("account with id %d doesn't exist", id)); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqlAccountRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	q := r.builder.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("account_id")

	if err := r.selectAll(ctx, &accounts, q); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *sqlAccountRepository) Create(ctx context.Context, a *model.Account) error {
	if err := r.validator.Validate(accountEntity, a); err != nil {
		return err
	}

	if err := r.checkReference(ctx, accountEntity, "customer_id", "customers", "customer_id", a.CustomerID); err != nil {
		return err
	}

	if err := r.checkReference(ctx, accountEntity, "account_type", "account_types", "code", a.AccountType); err != nil {
		return err
	}

	if err := r.checkUnique(ctx, accountEntity, "accounts", "account_number", a.AccountNumber); err != nil {
		return err
	}

	values := map[string]any{
		"customer_id":    a.CustomerID,
		"account_type":   a.AccountType,
		"account_number": a.AccountNumber,
		"balance":        a.Balance,
		"opened_date":    a.OpenedDate,
	}

	if a.ID != 0 {
		if err := r.checkUnique(ctx, accountEntity, "accounts", "account_id", a.ID); err != nil {
			return err
		}
		values["account_id"] = a.ID
	}

	id, err := r.insertReturningID(ctx, "accounts", "account_id", values)
	if err != nil {
		return writeErr(accountEntity, "account_id", err)
	}

	a.ID = id
	return nil
}
