package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/model"
)

const contactEntity = "contact"

var contactColumns = []string{"contact_id", "email", "phone_number"}

type ContactRepository interface {
	FindByID(context.Context, int64) (*model.Contact, error)
	Create(context.Context, *model.Contact) error
}

type sqlContactRepository struct {
	sqlRepository
}

func NewSQLContactRepository(s Store) ContactRepository {
	return &sqlContactRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlContactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	var c model.Contact
	q := r.builder.Select(contactColumns...).From("contacts").Where(squirrel.Eq{"contact_id": id})
	if err := r.findOne(ctx, &c, q, fmt.Sprintf("contact with id %d doesn't exist", id)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqlContactRepository) Create(ctx context.Context, c *model.Contact) error {
	if err := r.validator.Validate(contactEntity, c); err != nil {
		return err
	}

	values := map[string]any{
		"email":        c.Email,
		"phone_number": c.PhoneNumber,
	}

	if c.ID != 0 {
		if err := r.checkUnique(ctx, contactEntity, "contacts", "contact_id", c.ID); err != nil {
			return err
		}
		values["contact_id"] = c.ID
	}

	id, err := r.insertReturningID(ctx, "contacts", "contact_id", values)
	if err != nil {
		return writeErr(contactEntity, "contact_id", err)
	}

	c.ID = id
	return nil
}
