package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/model"
)

const userTypeEntity = "user_type"

type UserTypeRepository interface {
	FindAll(context.Context) ([]*model.UserType, error)
	FindByCode(context.Context, string) (*model.UserType, error)
	Create(context.Context, *model.UserType) error
}

type sqlUserTypeRepository struct {
	sqlRepository
}

func NewSQLUserTypeRepository(s Store) UserTypeRepository {
	return &sqlUserTypeRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlUserTypeRepository) FindAll(ctx context.Context) ([]*model.UserType, error) {
	types := make([]*model.UserType, 0)
	q := r.builder.Select("code", "description").From("user_types").OrderBy("code")
	if err := r.selectAll(ctx, &types, q); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *sqlUserTypeRepository) FindByCode(ctx context.Context, code string) (*model.UserType, error) {
	var ut model.UserType
	q := r.builder.Select("code", "description").From("user_types").Where(squirrel.Eq{"code": code})
	if err := r.findOne(ctx, &ut, q, fmt.Sprintf("user type %s doesn't exist", code)); err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *sqlUserTypeRepository) Create(ctx context.Context, ut *model.UserType) error {
	if err := r.validator.Validate(userTypeEntity, ut); err != nil {
		return err
	}

	if err := r.checkUnique(ctx, userTypeEntity, "user_types", "code", ut.Code); err != nil {
		return err
	}

	q := r.builder.Insert("user_types").Columns("code", "description").Values(ut.Code, ut.Description)
	_, err := r.exec(ctx, q)
	return writeErr(userTypeEntity, "code", err)
}
