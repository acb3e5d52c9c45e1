package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/model"
)

const accountTypeEntity = "account_type"

var accountTypeColumns = []string{"code", "description", "interest_rate", "monthly_fee"}

type AccountTypeRepository interface {
	FindAll(context.Context) ([]*model.AccountType, error)
	FindByCode(context.Context, string) (*model.AccountType, error)
	Create(context.Context, *model.AccountType) error
}

type sqlAccountTypeRepository struct {
	sqlRepository
}

func NewSQLAccountTypeRepository(s Store) AccountTypeRepository {
	return &sqlAccountTypeRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlAccountTypeRepository) FindAll(ctx context.Context) ([]*model.AccountType, error) {
	types := make([]*model.AccountType, 0)
	q := r.builder.Select(accountTypeColumns...).From("account_types").OrderBy("code")
	if err := r.selectAll(ctx, &types, q); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *sqlAccountTypeRepository) FindByCode(ctx context.Context, code string) (*model.AccountType, error) {
	var at model.AccountType
	q := r.builder.Select(accountTypeColumns...).From("account_types").Where(squirrel.Eq{"code": code})
	if err := r.findOne(ctx, &at, q, fmt.Sprintf("account type %s doesn't exist", code)); err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *sqlAccountTypeRepository) Create(ctx context.Context, at *model.AccountType) error {
	if err := r.validator.Validate(accountTypeEntity, at); err != nil {
		return err
	}

	if err := r.checkUnique(ctx, accountTypeEntity, "account_types", "code", at.Code); err != nil {
		return err
	}

	q := r.builder.Insert("account_types").
		Columns(accountTypeColumns...).
		Values(at.Code, at.Description, at.InterestRate, at.MonthlyFee)

	_, err := r.exec(ctx, q)
	return writeErr(accountTypeEntity, "code", err)
}
