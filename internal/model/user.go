package model

import "time"

const (
	// UserTypeAdmin is code of administrator user type
	UserTypeAdmin = "ADM"
	// UserTypeCustomer is code of customer user type
	UserTypeCustomer = "CUS"
)

// UserType is user type dictionary entity
type UserType struct {
	Code        string `json:"code" db:"code" validate:"required,max=3"`
	Description string `json:"description" db:"description" validate:"required,max=25"`
}

// User is user model entity
type User struct {
	ID               int64      `json:"userId" db:"user_id"`
	UserType         string     `json:"userType" db:"user_type" validate:"required,max=3"`
	Username         string     `json:"username" db:"username" validate:"required,max=25"`
	Email            *string    `json:"email" db:"email" validate:"omitempty,max=255"`
	PasswordHash     *string    `json:"-" db:"password_hash" validate:"omitempty,max=256"`
	RegistrationDate *time.Time `json:"registrationDate" db:"registration_date"`
	LastLogin        *time.Time `json:"lastLogin" db:"last_login"`
}

// IsAdmin reports whether user belongs to administrators
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}
