package service

import (
	"context"

	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/repository"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

type AccountService interface {
	FindByCustomerID(context.Context, string) ([]*model.Account, error)
	Create(context.Context, *model.Account) error
	FindAllTypes(context.Context) ([]*model.AccountType, error)
	CreateType(context.Context, *model.AccountType) error
}

type accountService struct {
	trx             transactor.Transactor
	accountRepo     repository.AccountRepository
	accountTypeRepo repository.AccountTypeRepository
	customerRepo    repository.CustomerRepository
}

func NewAccountService(
	trx transactor.Transactor,
	accountRepo repository.AccountRepository,
	accountTypeRepo repository.AccountTypeRepository,
	customerRepo repository.CustomerRepository,
) AccountService {
	return &accountService{
		trx:             trx,
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		customerRepo:    customerRepo,
	}
}

// FindByCustomerID lists customer accounts, unknown customer is reported as not found
func (s *accountService) FindByCustomerID(ctx context.Context, customerID string) ([]*model.Account, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.accountRepo.FindByCustomerID(ctx, customerID)
}

func (s *accountService) Create(ctx context.Context, a *model.Account) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.accountRepo.Create(ctx, a)
	})
}

func (s *accountService) FindAllTypes(ctx context.Context) ([]*model.AccountType, error) {
	return s.accountTypeRepo.FindAll(ctx)
}

func (s *accountService) CreateType(ctx context.Context, at *model.AccountType) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.accountTypeRepo.Create(ctx, at)
	})
}
