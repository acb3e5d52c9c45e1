package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTypeStandard is code of the standard account type
const AccountTypeStandard = "STD"

// AccountType is account type dictionary entity
type AccountType struct {
	Code         string              `json:"code" db:"code" validate:"required,max=3"`
	Description  string              `json:"description" db:"description" validate:"required,max=50"`
	InterestRate decimal.NullDecimal `json:"interestRate" db:"interest_rate" swaggertype:"string"`
	MonthlyFee   decimal.Decimal     `json:"monthlyFee" db:"monthly_fee" swaggertype:"string"`
}

// Account is bank account model entity
type Account struct {
	ID            int64           `json:"accountId" db:"account_id"`
	CustomerID    string          `json:"customerId" db:"customer_id" validate:"required,max=13"`
	AccountType   string          `json:"accountType" db:"account_type" validate:"required,max=3"`
	AccountNumber string          `json:"accountNumber" db:"account_number" validate:"required,max=26"`
	Balance       decimal.Decimal `json:"balance" db:"balance" swaggertype:"string"`
	OpenedDate    *time.Time      `json:"openedDate" db:"opened_date"`
}

// AccountDetails is account paired with its type
type AccountDetails struct {
	Account *Account     `json:"account"`
	Type    *AccountType `json:"type"`
}
