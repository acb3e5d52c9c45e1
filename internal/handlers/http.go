package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/service"
)

const dateLayout = "2006-01-02"

type newUserType struct {
	Code        string `json:"code" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type newAccountType struct {
	Code         string           `json:"code" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	InterestRate *decimal.Decimal `json:"interestRate" swaggertype:"string"`
	MonthlyFee   decimal.Decimal  `json:"monthlyFee" swaggertype:"string"`
}

type newUser struct {
	ID       int64   `json:"userId"`
	UserType string  `json:"userType" validate:"required"`
	Username string  `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=4,max=72"`
}

type newAddress struct {
	CountryCode     string  `json:"countryCode" validate:"required"`
	City            string  `json:"city" validate:"required"`
	ZipCode         string  `json:"zipCode" validate:"required"`
	StreetName      string  `json:"streetName" validate:"required"`
	StreetNumber    string  `json:"streetNumber" validate:"required"`
	ApartmentNumber *string `json:"apartmentNumber"`
}

type newContact struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,e164"`
}

type newCustomer struct {
	ID         string  `json:"customerId" validate:"required"`
	FirstName  string  `json:"firstName" validate:"required"`
	MiddleName *string `json:"middleName"`
	LastName   string  `json:"lastName" validate:"required"`
	Gender     string  `json:"gender" validate:"required,oneof=M F"`
	BirthDate  string  `json:"birthDate" validate:"required,datetime=2006-01-02"`
	AddressID  *int64  `json:"addressId"`
	ContactID  *int64  `json:"contactId"`
	UserID     *int64  `json:"userId"`
}

type newAccount struct {
	CustomerID    string          `param:"id" json:"-" validate:"required"`
	AccountType   string          `json:"accountType" validate:"required"`
	AccountNumber string          `json:"accountNumber" validate:"required"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	OpenedDate    *string         `json:"openedDate" validate:"omitempty,datetime=2006-01-02"`
}

type healthStatus struct {
	Status string `json:"status"`
}

// AuthHTTPHandler is http handler for auth endpoint
type AuthHTTPHandler struct {
	authSvc service.AuthService
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(authSvc service.AuthService) *AuthHTTPHandler {
	return &AuthHTTPHandler{authSvc: authSvc}
}

// Token issues access token
// @Summary     Issue access token
// @Description Verifies provided credentials and signs access token bound to new session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       credentials body     credentials true "User credentials"
// @Success     200         {object} accessToken
// @Failure     400         {object} errorMessage
// @Failure     401         {object} errorMessage
// @Failure     500         {object} errorMessage
// @Router      /api/v1/auth/token [post]
func (h *AuthHTTPHandler) Token(c echo.Context) error {
	var cred credentials
	if err := c.Bind(&cred); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&cred); err != nil {
		return err
	}

	token, err := h.authSvc.Login(c.Request().Context(), cred.Username, cred.Password, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &accessToken{Token: token.Signed, ExpiresAt: token.ExpiresAt})
}

// UserHTTPHandler is http handler for users and user types
type UserHTTPHandler struct {
	userSvc service.UserService
}

// NewUserHTTPHandler builds new UserHTTPHandler
func NewUserHTTPHandler(userSvc service.UserService) *UserHTTPHandler {
	return &UserHTTPHandler{userSvc: userSvc}
}

// GetAllTypes gets all user types
// @Summary     Get all user types
// @Tags        users
// @Security    ApiKeyAuth
// @Produce     json
// @Success     200 {array}  model.UserType
// @Failure     401 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/user-types [get]
func (h *UserHTTPHandler) GetAllTypes(c echo.Context) error {
	types, err := h.userSvc.FindAllTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// PostType creates user type
// @Summary     New user type
// @Tags        users
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       userType body     newUserType true "User type"
// @Success     201      {object} model.UserType
// @Failure     400      {object} errorMessage
// @Failure     500      {object} errorMessage
// @Router      /api/v1/user-types [post]
func (h *UserHTTPHandler) PostType(c echo.Context) error {
	var nt newUserType
	if err := c.Bind(&nt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nt); err != nil {
		return err
	}

	ut := &model.UserType{Code: nt.Code, Description: nt.Description}
	if err := h.userSvc.CreateType(c.Request().Context(), ut); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ut)
}

// GetAll gets all users
// @Summary     Get all users
// @Tags        users
// @Security    ApiKeyAuth
// @Produce     json
// @Success     200 {array}  model.User
// @Failure     401 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/users [get]
func (h *UserHTTPHandler) GetAll(c echo.Context) error {
	users, err := h.userSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get gets user
// @Summary     Get single user by id
// @Tags        users
// @Security    ApiKeyAuth
// @Produce     json
// @Param       id  path     int true "User id"
// @Success     200 {object} model.User
// @Failure     400 {object} errorMessage
// @Failure     404 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/users/{id} [get]
func (h *UserHTTPHandler) Get(c echo.Context) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}

	u, err := h.userSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Post creates user
// @Summary     New user
// @Description Creates user, password is stored as bcrypt hash
// @Tags        users
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       user body     newUser true "User data"
// @Success     201  {object} model.User
// @Failure     400  {object} errorMessage
// @Failure     500  {object} errorMessage
// @Router      /api/v1/users [post]
func (h *UserHTTPHandler) Post(c echo.Context) error {
	var nu newUser
	if err := c.Bind(&nu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nu); err != nil {
		return err
	}

	u, err := h.userSvc.Create(c.Request().Context(), service.NewUser{
		User: &model.User{
			ID:       nu.ID,
			UserType: nu.UserType,
			Username: nu.Username,
			Email:    nu.Email,
		},
		Password: nu.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// CustomerHTTPHandler is http handler for customers and their addresses and contacts
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// PostAddress creates address
// @Summary     New address
// @Tags        customers
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       address body     newAddress true "Address data"
// @Success     201     {object} model.Address
// @Failure     400     {object} errorMessage
// @Failure     500     {object} errorMessage
// @Router      /api/v1/addresses [post]
func (h *CustomerHTTPHandler) PostAddress(c echo.Context) error {
	var na newAddress
	if err := c.Bind(&na); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&na); err != nil {
		return err
	}

	a := &model.Address{
		CountryCode:     na.CountryCode,
		City:            na.City,
		ZipCode:         na.ZipCode,
		StreetName:      na.StreetName,
		StreetNumber:    na.StreetNumber,
		ApartmentNumber: na.ApartmentNumber,
	}
	if err := h.customerSvc.CreateAddress(c.Request().Context(), a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// PostContact creates contact
// @Summary     New contact
// @Tags        customers
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       contact body     newContact true "Contact data"
// @Success     201     {object} model.Contact
// @Failure     400     {object} errorMessage
// @Failure     500     {object} errorMessage
// @Router      /api/v1/contacts [post]
func (h *CustomerHTTPHandler) PostContact(c echo.Context) error {
	var nc newContact
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	contact := &model.Contact{Email: nc.Email, PhoneNumber: nc.PhoneNumber}
	if err := h.customerSvc.CreateContact(c.Request().Context(), contact); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

// GetAll gets all customers
// @Summary     Get all customers
// @Tags        customers
// @Security    ApiKeyAuth
// @Produce     json
// @Success     200 {array}  model.Customer
// @Failure     401 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Get gets customer
// @Summary     Get single customer by id
// @Tags        customers
// @Security    ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     200 {object} model.Customer
// @Failure     404 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	customer, err := h.customerSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// GetDetails gets customer with linked rows
// @Summary     Get customer details
// @Description Returns customer together with address, contact, user and accounts
// @Tags        customers
// @Security    ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     200 {object} model.CustomerDetails
// @Failure     404 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/customers/{id}/details [get]
func (h *CustomerHTTPHandler) GetDetails(c echo.Context) error {
	details, err := h.customerSvc.FindDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Post creates customer
// @Summary     New customer
// @Tags        customers
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       customer body     newCustomer true "Customer data"
// @Success     201      {object} model.Customer
// @Failure     400      {object} errorMessage
// @Failure     500      {object} errorMessage
// @Router      /api/v1/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	birthDate, err := time.Parse(dateLayout, nc.BirthDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer := &model.Customer{
		ID:         nc.ID,
		FirstName:  nc.FirstName,
		MiddleName: nc.MiddleName,
		LastName:   nc.LastName,
		Gender:     nc.Gender,
		BirthDate:  birthDate,
		AddressID:  nc.AddressID,
		ContactID:  nc.ContactID,
		UserID:     nc.UserID,
	}
	if err := h.customerSvc.Create(c.Request().Context(), customer); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer applying configured delete policy
// @Tags        customers
// @Security    ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     204 "Successful status code"
// @Failure     404 {object} errorMessage
// @Failure     409 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.customerSvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AccountHTTPHandler is http handler for accounts and account types
type AccountHTTPHandler struct {
	accountSvc service.AccountService
}

// NewAccountHTTPHandler builds new AccountHTTPHandler
func NewAccountHTTPHandler(accountSvc service.AccountService) *AccountHTTPHandler {
	return &AccountHTTPHandler{accountSvc: accountSvc}
}

// GetAllTypes gets all account types
// @Summary     Get all account types
// @Tags        accounts
// @Security    ApiKeyAuth
// @Produce     json
// @Success     200 {array}  model.AccountType
// @Failure     401 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/account-types [get]
func (h *AccountHTTPHandler) GetAllTypes(c echo.Context) error {
	types, err := h.accountSvc.FindAllTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// PostType creates account type
// @Summary     New account type
// @Tags        accounts
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       accountType body     newAccountType true "Account type"
// @Success     201         {object} model.AccountType
// @Failure     400         {object} errorMessage
// @Failure     500         {object} errorMessage
// @Router      /api/v1/account-types [post]
func (h *AccountHTTPHandler) PostType(c echo.Context) error {
	var nt newAccountType
	if err := c.Bind(&nt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nt); err != nil {
		return err
	}

	at := &model.AccountType{Code: nt.Code, Description: nt.Description, MonthlyFee: nt.MonthlyFee}
	if nt.InterestRate != nil {
		at.InterestRate = decimal.NewNullDecimal(*nt.InterestRate)
	}

	if err := h.accountSvc.CreateType(c.Request().Context(), at); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, at)
}

// GetByCustomer gets customer accounts
// @Summary     Get customer accounts
// @Tags        accounts
// @Security    ApiKeyAuth
// @Produce     json
// @Param       id  path     string true "Customer id"
// @Success     200 {array}  model.Account
// @Failure     404 {object} errorMessage
// @Failure     500 {object} errorMessage
// @Router      /api/v1/customers/{id}/accounts [get]
func (h *AccountHTTPHandler) GetByCustomer(c echo.Context) error {
	accounts, err := h.accountSvc.FindByCustomerID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Post opens account for customer
// @Summary     New account
// @Tags        accounts
// @Security    ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       id      path     string     true "Customer id"
// @Param       account body     newAccount true "Account data"
// @Success     201     {object} model.Account
// @Failure     400     {object} errorMessage
// @Failure     500     {object} errorMessage
// @Router      /api/v1/customers/{id}/accounts [post]
func (h *AccountHTTPHandler) Post(c echo.Context) error {
	var na newAccount
	if err := c.Bind(&na); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&na); err != nil {
		return err
	}

	a := &model.Account{
		CustomerID:    na.CustomerID,
		AccountType:   na.AccountType,
		AccountNumber: na.AccountNumber,
		Balance:       na.Balance,
	}

	if na.OpenedDate != nil {
		opened, err := time.Parse(dateLayout, *na.OpenedDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		a.OpenedDate = &opened
	}

	if err := h.accountSvc.Create(c.Request().Context(), a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Pinger checks store availability
type Pinger interface {
	PingContext(context.Context) error
}

// HealthHTTPHandler reports service health
type HealthHTTPHandler struct {
	db Pinger
}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler(db Pinger) *HealthHTTPHandler {
	return &HealthHTTPHandler{db: db}
}

// Health pings database
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} healthStatus
// @Failure     503 {object} healthStatus
// @Router      /health [get]
func (h *HealthHTTPHandler) Health(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, &healthStatus{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, &healthStatus{Status: "ok"})
}

func int64Param(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be integer")
	}
	return id, nil
}
