package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
)

const userEntity = "user"

var userColumns = []string{
	"user_id", "user_type", "username", "email", "password_hash", "registration_date", "last_login",
}

type UserRepository interface {
	FindAll(context.Context) ([]*model.User, error)
	FindByID(context.Context, int64) (*model.User, error)
	FindByUsername(context.Context, string) (*model.User, error)
	Create(context.Context, *model.User) error
	UpdateLastLogin(context.Context, int64, time.Time) error
}

type sqlUserRepository struct {
	sqlRepository
}

func NewSQLUserRepository(s Store) UserRepository {
	return &sqlUserRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	q := r.builder.Select(userColumns...).From("users").OrderBy("user_id")
	if err := r.selectAll(ctx, &users, q); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	q := r.builder.Select(userColumns...).From("users").Where(squirrel.Eq{"user_id": id})
	if err := r.findOne(ctx, &u, q, fmt.Sprintf("user with id %d doesn't exist", id)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	q := r.builder.Select(userColumns...).From("users").Where(squirrel.Eq{"username": username})
	if err := r.findOne(ctx, &u, q, fmt.Sprintf("user %s doesn't exist", username)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqlUserRepository) Create(ctx context.Context, u *model.User) error {
	if err := r.validator.Validate(userEntity, u); err != nil {
		return err
	}

	if err := r.checkReference(ctx, userEntity, "user_type", "user_types", "code", u.UserType); err != nil {
		return err
	}

	if err := r.checkUnique(ctx, userEntity, "users", "username", u.Username); err != nil {
		return err
	}

	values := map[string]any{
		"user_type":         u.UserType,
		"username":          u.Username,
		"email":             u.Email,
		"password_hash":     u.PasswordHash,
		"registration_date": u.RegistrationDate,
		"last_login":        u.LastLogin,
	}

	if u.ID != 0 {
		if err := r.checkUnique(ctx, userEntity, "users", "user_id", u.ID); err != nil {
			return err
		}
		values["user_id"] = u.ID
	}

	id, err := r.insertReturningID(ctx, "users", "user_id", values)
	if err != nil {
		return writeErr(userEntity, "user_id", err)
	}

	u.ID = id
	return nil
}

func (r *sqlUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	q := r.builder.Update("users").Set("last_login", at).Where(squirrel.Eq{"user_id": id})
	affected, err := r.exec(ctx, q)
	if err != nil {
		return err
	}

	if affected == 0 {
		return bankErrors.NewEntryNotFoundErr(fmt.Sprintf("user with id %d doesn't exist", id))
	}
	return nil
}
