package model

import "time"

// Customer is customer model entity
type Customer struct {
	ID         string    `json:"customerId" db:"customer_id" validate:"required,max=13"`
	FirstName  string    `json:"firstName" db:"first_name" validate:"required,max=35"`
	MiddleName *string   `json:"middleName" db:"middle_name" validate:"omitempty,max=35"`
	LastName   string    `json:"lastName" db:"last_name" validate:"required,max=35"`
	Gender     string    `json:"gender" db:"gender" validate:"required,len=1"`
	BirthDate  time.Time `json:"birthDate" db:"birth_date" validate:"required"`
	AddressID  *int64    `json:"addressId" db:"address_id"`
	ContactID  *int64    `json:"contactId" db:"contact_id"`
	UserID     *int64    `json:"userId" db:"user_id"`
}

// FullName joins customer names skipping missing middle name
func (c *Customer) FullName() string {
	if c.MiddleName == nil || *c.MiddleName == "" {
		return c.FirstName + " " + c.LastName
	}
	return c.FirstName + " " + *c.MiddleName + " " + c.LastName
}

// Address is address model entity
type Address struct {
	ID              int64   `json:"addressId" db:"address_id"`
	CountryCode     string  `json:"countryCode" db:"country_code" validate:"required,max=3"`
	City            string  `json:"city" db:"city" validate:"required,max=50"`
	ZipCode         string  `json:"zipCode" db:"zip_code" validate:"required,max=9"`
	StreetName      string  `json:"streetName" db:"street_name" validate:"required,max=50"`
	StreetNumber    string  `json:"streetNumber" db:"street_number" validate:"required,max=10"`
	ApartmentNumber *string `json:"apartmentNumber" db:"apartment_number" validate:"omitempty,max=10"`
}

// Contact is contact model entity
type Contact struct {
	ID          int64   `json:"contactId" db:"contact_id"`
	Email       *string `json:"email" db:"email" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phoneNumber" db:"phone_number" validate:"omitempty,max=15"`
}

// CustomerDetails is customer together with all rows it is linked with
type CustomerDetails struct {
	Customer *Customer         `json:"customer"`
	Address  *Address          `json:"address"`
	Contact  *Contact          `json:"contact"`
	User     *User             `json:"user"`
	Accounts []*AccountDetails `json:"accounts"`
}
