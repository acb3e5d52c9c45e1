package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/database"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
)

const customerEntity = "customer"

var customerColumns = []string{
	"customer_id", "first_name", "middle_name", "last_name", "gender", "birth_date", "address_id", "contact_id", "user_id",
}

type CustomerRepository interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	FindByUserID(context.Context, int64) (*model.Customer, error)
	Create(context.Context, *model.Customer) error
	DeleteByID(context.Context, string, model.DeletePolicy) error
}

type sqlCustomerRepository struct {
	sqlRepository
}

func NewSQLCustomerRepository(s Store) CustomerRepository {
	return &sqlCustomerRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers := make([]*model.Customer, 0)
	q := r.builder.Select(customerColumns...).From("customers").OrderBy("customer_id")
	if err := r.selectAll(ctx, &customers, q); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *sqlCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	q := r.builder.Select(customerColumns...).From("customers").Where(squirrel.Eq{"customer_id": id})
	if err := r.findOne(ctx, &c, q, fmt.Sprintf("customer with id %s doesn't exist", id)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqlCustomerRepository) FindByUserID(ctx context.Context, userID int64) (*model.Customer, error) {
	var c model.Customer
	q := r.builder.Select(customerColumns...).From("customers").Where(squirrel.Eq{"user_id": userID})
	if err := r.findOne(ctx, &c, q, fmt.Sprintf("customer for user %d doesn't exist", userID)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqlCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if err := r.validator.Validate(customerEntity, c); err != nil {
		return err
	}

	if err := r.checkUnique(ctx, customerEntity, "customers", "customer_id", c.ID); err != nil {
		return err
	}

	links := []struct {
		column string
		table  string
		id     *int64
	}{
		{column: "address_id", table: "addresses", id: c.AddressID},
		{column: "contact_id", table: "contacts", id: c.ContactID},
		{column: "user_id", table: "users", id: c.UserID},
	}

	for _, l := range links {
		if l.id == nil {
			continue
		}

		if err := r.checkReference(ctx, customerEntity, l.column, l.table, l.column, *l.id); err != nil {
			return err
		}

		// each address, contact and user belongs to one customer at most
		if err := r.checkUnique(ctx, customerEntity, "customers", l.column, *l.id); err != nil {
			return err
		}
	}

	q := r.builder.Insert("customers").
		Columns(customerColumns...).
		Values(c.ID, c.FirstName, c.MiddleName, c.LastName, c.Gender, c.BirthDate, c.AddressID, c.ContactID, c.UserID)

	_, err := r.exec(ctx, q)
	return writeErr(customerEntity, "customer_id", err)
}

// DeleteByID removes customer applying policy to the rows referencing it, must be called within transaction
func (r *sqlCustomerRepository) DeleteByID(ctx context.Context, id string, policy model.DeletePolicy) error {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := r.count(ctx, "accounts", "customer_id", id)
	if err != nil {
		return err
	}

	switch policy {
	case model.DeletePolicyReject, "":
		if refs > 0 {
			return bankErrors.NewReferentialIntegrityViolation(customerEntity, id, accountEntity, refs)
		}
		return r.deleteCustomer(ctx, id)
	case model.DeletePolicyCascade:
		if refs > 0 {
			if _, err := r.exec(ctx, r.builder.Delete("accounts").Where(squirrel.Eq{"customer_id": id})); err != nil {
				return err
			}
		}

		if err := r.deleteCustomer(ctx, id); err != nil {
			return err
		}

		if c.AddressID != nil {
			if _, err := r.exec(ctx, r.builder.Delete("addresses").Where(squirrel.Eq{"address_id": *c.AddressID})); err != nil {
				return err
			}
		}

		if c.ContactID != nil {
			if _, err := r.exec(ctx, r.builder.Delete("contacts").Where(squirrel.Eq{"contact_id": *c.ContactID})); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown delete policy %q", policy)
	}
}

func (r *sqlCustomerRepository) deleteCustomer(ctx context.Context, id string) error {
	affected, err := r.exec(ctx, r.builder.Delete("customers").Where(squirrel.Eq{"customer_id": id}))
	if err != nil {
		// account was opened after references had been counted, so at least one exists
		if database.IsForeignKeyViolation(err) {
			return bankErrors.NewReferentialIntegrityViolation(customerEntity, id, accountEntity, 1)
		}
		return writeErr(customerEntity, "customer_id", err)
	}

	if affected == 0 {
		return bankErrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %s doesn't exist", id))
	}
	return nil
}
