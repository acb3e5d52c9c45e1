package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/umalmyha/bankadmin/internal/model"
)

const addressEntity = "address"

var addressColumns = []string{
	"address_id", "country_code", "city", "zip_code", "street_name", "street_number", "apartment_number",
}

type AddressRepository interface {
	FindByID(context.Context, int64) (*model.Address, error)
	Create(context.Context, *model.Address) error
}

type sqlAddressRepository struct {
	sqlRepository
}

func NewSQLAddressRepository(s Store) AddressRepository {
	return &sqlAddressRepository{sqlRepository: newSQLRepository(s)}
}

func (r *sqlAddressRepository) FindByID(ctx context.Context, id int64) (*model.Address, error) {
	var a model.Address
	q := r.builder.Select(addressColumns...).From("addresses").Where(squirrel.Eq{"address_id": id})
	if err := r.findOne(ctx, &a, q, fmt.Sprintf("address with id %d doesn't exist", id)); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqlAddressRepository) Create(ctx context.Context, a *model.Address) error {
	if err := r.validator.Validate(addressEntity, a); err != nil {
		return err
	}

	values := map[string]any{
		"country_code":     a.CountryCode,
		"city":             a.City,
		"zip_code":         a.ZipCode,
		"street_name":      a.StreetName,
		"street_number":    a.StreetNumber,
		"apartment_number": a.ApartmentNumber,
	}

	if a.ID != 0 {
		if err := r.checkUnique(ctx, addressEntity, "addresses", "address_id", a.ID); err != nil {
			return err
		}
		values["address_id"] = a.ID
	}

	id, err := r.insertReturningID(ctx, "addresses", "address_id", values)
	if err != nil {
		return writeErr(addressEntity, "address_id", err)
	}

	a.ID = id
	return nil
}
