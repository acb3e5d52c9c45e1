package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/repository"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

type CustomerService interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	FindDetails(context.Context, string) (*model.CustomerDetails, error)
	Create(context.Context, *model.Customer) error
	CreateAddress(context.Context, *model.Address) error
	CreateContact(context.Context, *model.Contact) error
	DeleteByID(context.Context, string) error
}

// CustomerRepositories groups repositories customer service navigates through
type CustomerRepositories struct {
	Customers    repository.CustomerRepository
	Addresses    repository.AddressRepository
	Contacts     repository.ContactRepository
	Users        repository.UserRepository
	Accounts     repository.AccountRepository
	AccountTypes repository.AccountTypeRepository
}

type customerService struct {
	trx          transactor.Transactor
	rps          CustomerRepositories
	deletePolicy model.DeletePolicy
	logger       logrus.FieldLogger
}

func NewCustomerService(
	trx transactor.Transactor,
	rps CustomerRepositories,
	deletePolicy model.DeletePolicy,
	logger logrus.FieldLogger,
) CustomerService {
	return &customerService{trx: trx, rps: rps, deletePolicy: deletePolicy, logger: logger}
}

func (s *customerService) FindAll(ctx context.Context) ([]*model.Customer, error) {
	return s.rps.Customers.FindAll(ctx)
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return s.rps.Customers.FindByID(ctx, id)
}

// FindDetails loads customer with address, contact, user and accounts paired with account types
func (s *customerService) FindDetails(ctx context.Context, id string) (*model.CustomerDetails, error) {
	c, err := s.rps.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &model.CustomerDetails{Customer: c}

	if c.AddressID != nil {
		if details.Address, err = s.rps.Addresses.FindByID(ctx, *c.AddressID); err != nil {
			return nil, err
		}
	}

	if c.ContactID != nil {
		if details.Contact, err = s.rps.Contacts.FindByID(ctx, *c.ContactID); err != nil {
			return nil, err
		}
	}

	if c.UserID != nil {
		if details.User, err = s.rps.Users.FindByID(ctx, *c.UserID); err != nil {
			return nil, err
		}
	}

	accounts, err := s.rps.Accounts.FindByCustomerID(ctx, id)
	if err != nil {
		return nil, err
	}

	types := make(map[string]*model.AccountType)
	details.Accounts = make([]*model.AccountDetails, 0, len(accounts))

	for _, a := range accounts {
		at, ok := types[a.AccountType]
		if !ok {
			if at, err = s.rps.AccountTypes.FindByCode(ctx, a.AccountType); err != nil {
				return nil, err
			}
			types[a.AccountType] = at
		}
		details.Accounts = append(details.Accounts, &model.AccountDetails{Account: a, Type: at})
	}

	return details, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.rps.Customers.Create(ctx, c)
	})
}

func (s *customerService) CreateAddress(ctx context.Context, a *model.Address) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.rps.Addresses.Create(ctx, a)
	})
}

func (s *customerService) CreateContact(ctx context.Context, c *model.Contact) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.rps.Contacts.Create(ctx, c)
	})
}

// DeleteByID deletes customer applying configured delete policy
func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.rps.Customers.DeleteByID(ctx, id, s.deletePolicy)
	})

	logger := s.logger.WithFields(logrus.Fields{"customerId": id, "policy": s.deletePolicy})

	var riv *bankErrors.ReferentialIntegrityViolation
	switch {
	case err == nil:
		logger.Info("customer deleted")
	case errors.As(err, &riv):
		logger.WithField("references", riv.References).Warn("customer is still referenced, delete rejected")
	}
	return err
}
