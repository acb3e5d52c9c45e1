package service

import (
	"context"
	"errors"
	"time"

	"github.com/umalmyha/bankadmin/internal/auth"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/repository"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

// NewUser is user with plain password to be hashed before storing
type NewUser struct {
	User     *model.User
	Password string
}

type UserService interface {
	FindAll(context.Context) ([]*model.User, error)
	FindByID(context.Context, int64) (*model.User, error)
	Create(context.Context, NewUser) (*model.User, error)
	EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error)
	FindAllTypes(context.Context) ([]*model.UserType, error)
	CreateType(context.Context, *model.UserType) error
}

type userService struct {
	trx          transactor.Transactor
	userRepo     repository.UserRepository
	userTypeRepo repository.UserTypeRepository
	now          func() time.Time
}

func NewUserService(
	trx transactor.Transactor,
	userRepo repository.UserRepository,
	userTypeRepo repository.UserTypeRepository,
) UserService {
	return &userService{trx: trx, userRepo: userRepo, userTypeRepo: userTypeRepo, now: time.Now}
}

func (s *userService) FindAll(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// Create hashes password if present and stamps registration date when it is missing
func (s *userService) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	u := nu.User

	if nu.Password != "" {
		hash, err := auth.GeneratePasswordHash(nu.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	if u.RegistrationDate == nil {
		now := s.now().UTC()
		u.RegistrationDate = &now
	}

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates administrator with given credentials unless username is already taken.
// Reports whether user has been created.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}

	var notFoundErr *bankErrors.EntryNotFoundErr
	if !errors.As(err, &notFoundErr) {
		return nil, false, err
	}

	u, err := s.Create(ctx, NewUser{
		User:     &model.User{UserType: model.UserTypeAdmin, Username: username},
		Password: password,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *userService) FindAllTypes(ctx context.Context) ([]*model.UserType, error) {
	return s.userTypeRepo.FindAll(ctx)
}

func (s *userService) CreateType(ctx context.Context, ut *model.UserType) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.userTypeRepo.Create(ctx, ut)
	})
}
