package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/bankadmin/internal/database"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/validation"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

const (
	testTimeout       = 10 * time.Second
	connectionTimeout = 3 * time.Second
)

const (
	pgTestUser     = "test"
	pgTestPassword = "test"
	pgTestDB       = "bank"
)

var (
	pgAdmin     *sqlx.DB
	pgHost      string
	pgPort      int
	pgDatabases atomic.Int64
)

func TestMain(m *testing.M) {
	purge, err := startPostgres()
	if err != nil {
		logrus.Warnf("postgres cases will be skipped - %v", err)
	}

	code := m.Run()

	if purge != nil {
		if err := purge(); err != nil {
			logrus.Errorf("failed to purge postgresql - %v", err)
		}
	}

	os.Exit(code)
}

// startPostgres runs postgres container and connects to it, returned func stops the container
func startPostgres() (func() error, error) {
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("failed to create pool - %w", err)
	}

	if err := dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to docker - %w", err)
	}

	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14-alpine",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgresql - %w", err)
	}

	purge := func() error {
		if pgAdmin != nil {
			_ = pgAdmin.Close()
		}
		return dockerPool.Purge(postgres)
	}

	pgHost = "localhost"
	pgPort, err = strconv.Atoi(postgres.GetPort("5432/tcp"))
	if err != nil {
		_ = purge()
		return nil, fmt.Errorf("failed to resolve postgresql port - %w", err)
	}

	dsn := database.PostgresDSN(pgTestUser, pgTestPassword, pgHost, pgPort, pgTestDB, "disable")
	dockerPool.MaxWait = time.Minute
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return err
		}
		pgAdmin = db
		return nil
	})
	if err != nil {
		_ = purge()
		return nil, fmt.Errorf("failed to establish connection to postgresql - %w", err)
	}

	return purge, nil
}

// newPostgresDatabase creates empty database dropped on test cleanup and returns its dsn
func newPostgresDatabase(ctx context.Context, t *testing.T) string {
	t.Helper()

	name := fmt.Sprintf("bank_test_%d", pgDatabases.Add(1))
	_, err := pgAdmin.ExecContext(ctx, "CREATE DATABASE "+name)
	require.NoError(t, err, "failed to create postgres database")

	t.Cleanup(func() {
		_, _ = pgAdmin.Exec("DROP DATABASE IF EXISTS " + name + " WITH (FORCE)")
	})

	return database.PostgresDSN(pgTestUser, pgTestPassword, pgHost, pgPort, name, "disable")
}

type repositories struct {
	dialect      database.Dialect
	db           *sqlx.DB
	trx          transactor.SqlxTransactor
	userTypes    UserTypeRepository
	users        UserRepository
	addresses    AddressRepository
	contacts     ContactRepository
	customers    CustomerRepository
	accountTypes AccountTypeRepository
	accounts     AccountRepository
}

// newRepositories opens fresh database of the dialect with schema and seeds applied
func newRepositories(t *testing.T, dialect database.Dialect) *repositories {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dsn := database.SQLiteDSN(":memory:")
	if dialect == database.Postgres {
		dsn = newPostgresDatabase(ctx, t)
	}

	db, err := database.Open(ctx, database.Options{
		Dialect:      dialect,
		DSN:          dsn,
		MaxOpenConns: 4,
	})
	require.NoError(t, err, "failed to open %s database", dialect)
	t.Cleanup(func() { _ = db.Close() })

	v, err := validation.NewEntityValidator()
	require.NoError(t, err, "failed to build entity validator")

	s := Store{
		Executor:  transactor.NewSqlxWithinTransactionExecutor(db),
		Dialect:   dialect,
		Validator: v,
	}

	return &repositories{
		dialect:      dialect,
		db:           db,
		trx:          transactor.NewSqlxTransactor(db),
		userTypes:    NewSQLUserTypeRepository(s),
		users:        NewSQLUserRepository(s),
		addresses:    NewSQLAddressRepository(s),
		contacts:     NewSQLContactRepository(s),
		customers:    NewSQLCustomerRepository(s),
		accountTypes: NewSQLAccountTypeRepository(s),
		accounts:     NewSQLAccountRepository(s),
	}
}

// forEachDialect runs cases on fresh sqlite database and on fresh postgres database when docker is reachable
func forEachDialect(t *testing.T, cases func(*testing.T, *repositories)) {
	for _, dialect := range []database.Dialect{database.SQLite, database.Postgres} {
		t.Run(string(dialect), func(t *testing.T) {
			if dialect == database.Postgres && pgAdmin == nil {
				t.Skip("postgresql container is not running")
			}
			cases(t, newRepositories(t, dialect))
		})
	}
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}

func newCustomer(id string) *model.Customer {
	return &model.Customer{
		ID:        id,
		FirstName: "John",
		LastName:  "Smith",
		Gender:    "M",
		BirthDate: time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func requireConstraintViolation(t *testing.T, err error, field, rule string) {
	t.Helper()

	var cv *bankErrors.ConstraintViolation
	require.True(t, errors.As(err, &cv), "constraint violation expected, got %v", err)
	require.Equal(t, field, cv.Field, "constraint violation reported for wrong field")
	require.Equal(t, rule, cv.Rule, "constraint violation reported for wrong rule")
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()

	var notFoundErr *bankErrors.EntryNotFoundErr
	require.True(t, errors.As(err, &notFoundErr), "not found error expected, got %v", err)
}

func TestDictionariesAreSeeded(t *testing.T) {
	forEachDialect(t, testDictionariesAreSeeded)
}

func testDictionariesAreSeeded(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	t.Log("user types contain administrator and customer")
	{
		types, err := rps.userTypes.FindAll(ctx)
		require.NoError(t, err, "failed to read user types")
		require.Len(t, types, 2, "two user types must be seeded")
		require.Equal(t, model.UserTypeAdmin, types[0].Code)
		require.Equal(t, model.UserTypeCustomer, types[1].Code)
	}

	t.Log("standard account type is present")
	{
		at, err := rps.accountTypes.FindByCode(ctx, model.AccountTypeStandard)
		require.NoError(t, err, "failed to read standard account type")
		require.True(t, at.MonthlyFee.IsZero(), "standard account type has no monthly fee")
		require.False(t, at.InterestRate.Valid, "standard account type has no interest rate")
	}

	t.Log("duplicate user type is rejected")
	{
		err := rps.userTypes.Create(ctx, &model.UserType{Code: model.UserTypeAdmin, Description: "Admin"})
		requireConstraintViolation(t, err, "code", bankErrors.RuleUnique)
	}

	t.Log("user type code longer than 3 symbols is rejected")
	{
		err := rps.userTypes.Create(ctx, &model.UserType{Code: "SUPER", Description: "Super user"})
		requireConstraintViolation(t, err, "code", bankErrors.RuleMax)
	}

	t.Log("new account type is created")
	{
		at := &model.AccountType{
			Code:         "SAV",
			Description:  "Savings",
			InterestRate: decimal.NewNullDecimal(decimal.RequireFromString("0.0125")),
			MonthlyFee:   decimal.RequireFromString("2.50"),
		}
		require.NoError(t, rps.accountTypes.Create(ctx, at), "failed to create account type")

		dbType, err := rps.accountTypes.FindByCode(ctx, "SAV")
		require.NoError(t, err, "failed to read account type")
		require.True(t, at.InterestRate.Decimal.Equal(dbType.InterestRate.Decimal), "interest rate differs")
		require.True(t, at.MonthlyFee.Equal(dbType.MonthlyFee), "monthly fee differs")
	}
}

func TestUserRps(t *testing.T) {
	forEachDialect(t, testUserRps)
}

func testUserRps(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	registered := time.Date(2022, 1, 10, 9, 30, 0, 0, time.UTC)
	u := &model.User{
		UserType:         model.UserTypeAdmin,
		Username:         "admin",
		Email:            strPtr("admin@bank.com"),
		PasswordHash:     strPtr("$2a$10$2b2cU8CPhOTaGMs1tqHm.uGlGXlkDEOhqvwI0S5VDi5gZtU9nyIQy"),
		RegistrationDate: &registered,
	}

	t.Log("no users initially")
	{
		users, err := rps.users.FindAll(ctx)
		require.NoError(t, err, "failed to read users")
		require.NotNil(t, users, "empty list expected instead of nil")
		require.Empty(t, users, "no users were created")
	}

	t.Log("create user")
	{
		err := rps.users.Create(ctx, u)
		require.NoError(t, err, "failed to create user")
		require.NotZero(t, u.ID, "identifier must be generated")
	}

	t.Log("find user by id")
	{
		dbUser, err := rps.users.FindByID(ctx, u.ID)
		require.NoError(t, err, "failed to read user by id")
		require.Equal(t, u.Username, dbUser.Username)
		require.Equal(t, *u.Email, *dbUser.Email)
		require.True(t, registered.Equal(*dbUser.RegistrationDate), "registration date differs")
		require.Nil(t, dbUser.LastLogin, "user never logged in")
	}

	t.Log("find user by username")
	{
		dbUser, err := rps.users.FindByUsername(ctx, u.Username)
		require.NoError(t, err, "failed to read user by username")
		require.Equal(t, u.ID, dbUser.ID)
	}

	t.Log("update last login")
	{
		at := time.Date(2022, 2, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, rps.users.UpdateLastLogin(ctx, u.ID, at), "failed to update last login")

		dbUser, err := rps.users.FindByID(ctx, u.ID)
		require.NoError(t, err, "failed to read user by id")
		require.NotNil(t, dbUser.LastLogin, "last login must be set")
		require.True(t, at.Equal(*dbUser.LastLogin), "last login differs")
	}

	t.Log("create user duplicate")
	{
		err := rps.users.Create(ctx, &model.User{UserType: model.UserTypeCustomer, Username: u.Username})
		requireConstraintViolation(t, err, "username", bankErrors.RuleUnique)
	}

	t.Log("create user with unknown type")
	{
		err := rps.users.Create(ctx, &model.User{UserType: "XXX", Username: "ghost"})
		requireConstraintViolation(t, err, "user_type", bankErrors.RuleForeignKey)
	}

	t.Log("create user without username")
	{
		err := rps.users.Create(ctx, &model.User{UserType: model.UserTypeCustomer})
		requireConstraintViolation(t, err, "username", bankErrors.RuleRequired)
	}

	t.Log("missing user is not found")
	{
		_, err := rps.users.FindByID(ctx, 999)
		requireNotFound(t, err)

		requireNotFound(t, rps.users.UpdateLastLogin(ctx, 999, time.Now()))
	}
}

func TestCustomerRpsCreate(t *testing.T) {
	forEachDialect(t, testCustomerRpsCreate)
}

func testCustomerRpsCreate(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	addr := &model.Address{
		CountryCode:  "USA",
		City:         "Boston",
		ZipCode:      "02108",
		StreetName:   "Beacon St",
		StreetNumber: "24",
	}
	contact := &model.Contact{Email: strPtr("john@mail.com"), PhoneNumber: strPtr("+16175550100")}
	u := &model.User{UserType: model.UserTypeCustomer, Username: "jsmith"}

	t.Log("linked rows must be added")
	{
		require.NoError(t, rps.addresses.Create(ctx, addr), "failed to create address")
		require.NoError(t, rps.contacts.Create(ctx, contact), "failed to create contact")
		require.NoError(t, rps.users.Create(ctx, u), "failed to create user")
	}

	c := newCustomer("C000000000001")
	c.MiddleName = strPtr("Paul")
	c.AddressID = int64Ptr(addr.ID)
	c.ContactID = int64Ptr(contact.ID)
	c.UserID = int64Ptr(u.ID)

	t.Log("create customer")
	{
		require.NoError(t, rps.customers.Create(ctx, c), "failed to create customer")
	}

	t.Log("customer is found by id and by user")
	{
		dbCustomer, err := rps.customers.FindByID(ctx, c.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.Equal(t, "John Paul Smith", dbCustomer.FullName())
		require.True(t, c.BirthDate.Equal(dbCustomer.BirthDate), "birth date differs")
		require.Equal(t, addr.ID, *dbCustomer.AddressID)

		byUser, err := rps.customers.FindByUserID(ctx, u.ID)
		require.NoError(t, err, "failed to read customer by user")
		require.Equal(t, c.ID, byUser.ID)
	}

	t.Log("duplicate customer id is rejected")
	{
		err := rps.customers.Create(ctx, newCustomer(c.ID))
		requireConstraintViolation(t, err, "customer_id", bankErrors.RuleUnique)
	}

	t.Log("address can't be shared between customers")
	{
		other := newCustomer("C000000000002")
		other.AddressID = int64Ptr(addr.ID)
		err := rps.customers.Create(ctx, other)
		requireConstraintViolation(t, err, "address_id", bankErrors.RuleUnique)
	}

	t.Log("missing contact reference is rejected")
	{
		other := newCustomer("C000000000003")
		other.ContactID = int64Ptr(404)
		err := rps.customers.Create(ctx, other)
		requireConstraintViolation(t, err, "contact_id", bankErrors.RuleForeignKey)
	}

	t.Log("too long identifier is rejected")
	{
		err := rps.customers.Create(ctx, newCustomer("C0000000000000001"))
		requireConstraintViolation(t, err, "customer_id", bankErrors.RuleMax)
	}

	t.Log("gender must be single symbol")
	{
		other := newCustomer("C000000000004")
		other.Gender = "MALE"
		err := rps.customers.Create(ctx, other)
		requireConstraintViolation(t, err, "gender", bankErrors.RuleLen)
	}

	t.Log("rejected writes leave store unchanged")
	{
		customers, err := rps.customers.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, customers, 1, "only one customer was created successfully")
	}
}

func TestCustomerRpsFindAll(t *testing.T) {
	forEachDialect(t, testCustomerRpsFindAll)
}

func testCustomerRpsFindAll(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	t.Log("empty store gives empty list")
	{
		customers, err := rps.customers.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		require.NotNil(t, customers, "empty list expected instead of nil")
		require.Empty(t, customers)
	}

	ids := []string{"C3", "C1", "C2"}

	t.Logf("create %d customers", len(ids))
	{
		for _, id := range ids {
			require.NoError(t, rps.customers.Create(ctx, newCustomer(id)), "failed to create customer %s", id)
		}
	}

	t.Log("all customers are listed ordered by id")
	{
		customers, err := rps.customers.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, customers, len(ids))
		require.Equal(t, "C1", customers[0].ID)
		require.Equal(t, "C2", customers[1].ID)
		require.Equal(t, "C3", customers[2].ID)
	}

	t.Log("missing customer is not found")
	{
		_, err := rps.customers.FindByID(ctx, "C404")
		requireNotFound(t, err)
	}
}

func TestAccountRps(t *testing.T) {
	forEachDialect(t, testAccountRps)
}

func testAccountRps(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	c := newCustomer("C1")
	require.NoError(t, rps.customers.Create(ctx, c), "failed to create customer")

	opened := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	acc := &model.Account{
		CustomerID:    c.ID,
		AccountType:   model.AccountTypeStandard,
		AccountNumber: "US00BANK0000000001",
		Balance:       decimal.RequireFromString("1520.75"),
		OpenedDate:    &opened,
	}

	t.Log("create account")
	{
		require.NoError(t, rps.accounts.Create(ctx, acc), "failed to create account")
		require.NotZero(t, acc.ID, "identifier must be generated")
	}

	t.Log("find account by id")
	{
		dbAcc, err := rps.accounts.FindByID(ctx, acc.ID)
		require.NoError(t, err, "failed to read account")
		require.True(t, acc.Balance.Equal(dbAcc.Balance), "balance differs, got %s", dbAcc.Balance)
		require.True(t, opened.Equal(*dbAcc.OpenedDate), "opened date differs")
	}

	t.Log("balance keeps every digit")
	{
		rich := &model.Account{
			CustomerID:    c.ID,
			AccountType:   model.AccountTypeStandard,
			AccountNumber: "US00BANK0000000002",
			Balance:       decimal.RequireFromString("1234567890123456.78"),
		}
		require.NoError(t, rps.accounts.Create(ctx, rich), "failed to create account")

		dbAcc, err := rps.accounts.FindByID(ctx, rich.ID)
		require.NoError(t, err, "failed to read account")
		require.Equal(t, "1234567890123456.78", dbAcc.Balance.String(), "balance lost precision")
	}

	t.Log("find accounts of customer")
	{
		accounts, err := rps.accounts.FindByCustomerID(ctx, c.ID)
		require.NoError(t, err, "failed to read accounts")
		require.Len(t, accounts, 2)

		accounts, err = rps.accounts.FindByCustomerID(ctx, "C404")
		require.NoError(t, err, "failed to read accounts")
		require.NotNil(t, accounts, "empty list expected instead of nil")
		require.Empty(t, accounts)
	}

	t.Log("account of missing customer is rejected")
	{
		err := rps.accounts.Create(ctx, &model.Account{CustomerID: "C404", AccountType: model.AccountTypeStandard, AccountNumber: "N2"})
		requireConstraintViolation(t, err, "customer_id", bankErrors.RuleForeignKey)
	}

	t.Log("account of missing type is rejected")
	{
		err := rps.accounts.Create(ctx, &model.Account{CustomerID: c.ID, AccountType: "XXX", AccountNumber: "N3"})
		requireConstraintViolation(t, err, "account_type", bankErrors.RuleForeignKey)
	}

	t.Log("duplicate account number is rejected")
	{
		err := rps.accounts.Create(ctx, &model.Account{CustomerID: c.ID, AccountType: model.AccountTypeStandard, AccountNumber: acc.AccountNumber})
		requireConstraintViolation(t, err, "account_number", bankErrors.RuleUnique)
	}
}

// seedCustomerWithAccounts creates customer linked to address, contact, user and given number of accounts
func seedCustomerWithAccounts(ctx context.Context, t *testing.T, rps *repositories, id string, accounts int) *model.Customer {
	t.Helper()

	addr := &model.Address{CountryCode: "GBR", City: "London", ZipCode: "SW1A1AA", StreetName: "Downing St", StreetNumber: "10"}
	require.NoError(t, rps.addresses.Create(ctx, addr), "failed to create address")

	contact := &model.Contact{Email: strPtr(id + "@mail.com")}
	require.NoError(t, rps.contacts.Create(ctx, contact), "failed to create contact")

	u := &model.User{UserType: model.UserTypeCustomer, Username: "user" + id}
	require.NoError(t, rps.users.Create(ctx, u), "failed to create user")

	c := newCustomer(id)
	c.AddressID = int64Ptr(addr.ID)
	c.ContactID = int64Ptr(contact.ID)
	c.UserID = int64Ptr(u.ID)
	require.NoError(t, rps.customers.Create(ctx, c), "failed to create customer")

	for i := 0; i < accounts; i++ {
		acc := &model.Account{
			CustomerID:    id,
			AccountType:   model.AccountTypeStandard,
			AccountNumber: id + "-" + string(rune('A'+i)),
		}
		require.NoError(t, rps.accounts.Create(ctx, acc), "failed to create account")
	}
	return c
}

func TestCustomerRpsDeleteRejectPolicy(t *testing.T) {
	forEachDialect(t, testCustomerRpsDeleteRejectPolicy)
}

func testCustomerRpsDeleteRejectPolicy(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	referenced := seedCustomerWithAccounts(ctx, t, rps, "C1", 2)
	free := seedCustomerWithAccounts(ctx, t, rps, "C2", 0)

	t.Log("customer referenced by accounts is not deleted")
	{
		err := rps.trx.WithinTransaction(ctx, func(ctx context.Context) error {
			return rps.customers.DeleteByID(ctx, referenced.ID, model.DeletePolicyReject)
		})

		var riv *bankErrors.ReferentialIntegrityViolation
		require.True(t, errors.As(err, &riv), "referential integrity violation expected, got %v", err)
		require.Equal(t, referenced.ID, riv.ID)
		require.Equal(t, 2, riv.References)
	}

	t.Log("referenced customer and its accounts are still present")
	{
		_, err := rps.customers.FindByID(ctx, referenced.ID)
		require.NoError(t, err, "customer must survive rejected delete")

		accounts, err := rps.accounts.FindByCustomerID(ctx, referenced.ID)
		require.NoError(t, err, "failed to read accounts")
		require.Len(t, accounts, 2, "accounts must survive rejected delete")
	}

	t.Log("customer without accounts is deleted")
	{
		err := rps.trx.WithinTransaction(ctx, func(ctx context.Context) error {
			return rps.customers.DeleteByID(ctx, free.ID, model.DeletePolicyReject)
		})
		require.NoError(t, err, "failed to delete customer")

		_, err = rps.customers.FindByID(ctx, free.ID)
		requireNotFound(t, err)

		customers, err := rps.customers.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, customers, 1, "only deleted customer must disappear")
	}

	t.Log("deleting missing customer gives not found")
	{
		requireNotFound(t, rps.customers.DeleteByID(ctx, free.ID, model.DeletePolicyReject))
	}
}

func TestCustomerRpsDeleteCascadePolicy(t *testing.T) {
	forEachDialect(t, testCustomerRpsDeleteCascadePolicy)
}

func testCustomerRpsDeleteCascadePolicy(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	c := seedCustomerWithAccounts(ctx, t, rps, "C1", 3)
	other := seedCustomerWithAccounts(ctx, t, rps, "C2", 1)

	t.Log("customer is deleted together with dependent rows")
	{
		err := rps.trx.WithinTransaction(ctx, func(ctx context.Context) error {
			return rps.customers.DeleteByID(ctx, c.ID, model.DeletePolicyCascade)
		})
		require.NoError(t, err, "failed to delete customer")
	}

	t.Log("customer, accounts, address and contact are gone")
	{
		_, err := rps.customers.FindByID(ctx, c.ID)
		requireNotFound(t, err)

		accounts, err := rps.accounts.FindByCustomerID(ctx, c.ID)
		require.NoError(t, err, "failed to read accounts")
		require.Empty(t, accounts, "accounts must be deleted with customer")

		_, err = rps.addresses.FindByID(ctx, *c.AddressID)
		requireNotFound(t, err)

		_, err = rps.contacts.FindByID(ctx, *c.ContactID)
		requireNotFound(t, err)
	}

	t.Log("user of deleted customer is kept")
	{
		_, err := rps.users.FindByID(ctx, *c.UserID)
		require.NoError(t, err, "user must survive customer delete")
	}

	t.Log("other customer is untouched")
	{
		_, err := rps.customers.FindByID(ctx, other.ID)
		require.NoError(t, err, "other customer must survive")

		accounts, err := rps.accounts.FindByCustomerID(ctx, other.ID)
		require.NoError(t, err, "failed to read accounts")
		require.Len(t, accounts, 1)
	}
}

func TestCustomerRpsDeleteRollback(t *testing.T) {
	forEachDialect(t, testCustomerRpsDeleteRollback)
}

func testCustomerRpsDeleteRollback(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	c := seedCustomerWithAccounts(ctx, t, rps, "C1", 1)

	t.Log("failure after cascade delete rolls everything back")
	{
		errAbort := errors.New("abort")
		err := rps.trx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := rps.customers.DeleteByID(ctx, c.ID, model.DeletePolicyCascade); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)
	}

	t.Log("customer and account are still present")
	{
		_, err := rps.customers.FindByID(ctx, c.ID)
		require.NoError(t, err, "customer must be restored by rollback")

		accounts, err := rps.accounts.FindByCustomerID(ctx, c.ID)
		require.NoError(t, err, "failed to read accounts")
		require.Len(t, accounts, 1, "account must be restored by rollback")
	}
}

func TestGeneratedIDAfterExplicitID(t *testing.T) {
	forEachDialect(t, testGeneratedIDAfterExplicitID)
}

func testGeneratedIDAfterExplicitID(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	t.Log("user created with explicit id")
	{
		u := &model.User{ID: 1, UserType: model.UserTypeAdmin, Username: "root"}
		require.NoError(t, rps.users.Create(ctx, u), "failed to create user")
		require.Equal(t, int64(1), u.ID, "explicit id must be kept")
	}

	t.Log("next user gets id after explicit one")
	{
		u := &model.User{UserType: model.UserTypeCustomer, Username: "jdoe"}
		require.NoError(t, rps.users.Create(ctx, u), "generated id must not collide with explicit one")
		require.Equal(t, int64(2), u.ID)
	}

	t.Log("explicit id ahead of generated ones moves generation past it")
	{
		addr := &model.Address{ID: 10, CountryCode: "USA", City: "Boston", ZipCode: "02108", StreetName: "Beacon St", StreetNumber: "24"}
		require.NoError(t, rps.addresses.Create(ctx, addr), "failed to create address")

		next := &model.Address{CountryCode: "USA", City: "Boston", ZipCode: "02108", StreetName: "Beacon St", StreetNumber: "26"}
		require.NoError(t, rps.addresses.Create(ctx, next), "failed to create address")
		require.Equal(t, int64(11), next.ID)
	}

	t.Log("explicit id below generated ones keeps generation going forward")
	{
		first := &model.Contact{Email: strPtr("first@mail.com")}
		require.NoError(t, rps.contacts.Create(ctx, first), "failed to create contact")
		second := &model.Contact{Email: strPtr("second@mail.com")}
		require.NoError(t, rps.contacts.Create(ctx, second), "failed to create contact")

		_, err := rps.db.ExecContext(ctx, "DELETE FROM contacts WHERE contact_id = "+strconv.FormatInt(first.ID, 10))
		require.NoError(t, err, "failed to delete contact")

		restored := &model.Contact{ID: first.ID, Email: strPtr("restored@mail.com")}
		require.NoError(t, rps.contacts.Create(ctx, restored), "failed to create contact")

		next := &model.Contact{Email: strPtr("next@mail.com")}
		require.NoError(t, rps.contacts.Create(ctx, next), "failed to create contact")
		require.Equal(t, second.ID+1, next.ID)
	}

	t.Log("account created with explicit id")
	{
		c := newCustomer("C1")
		require.NoError(t, rps.customers.Create(ctx, c), "failed to create customer")

		explicit := &model.Account{ID: 5, CustomerID: c.ID, AccountType: model.AccountTypeStandard, AccountNumber: "N1"}
		require.NoError(t, rps.accounts.Create(ctx, explicit), "failed to create account")

		generated := &model.Account{CustomerID: c.ID, AccountType: model.AccountTypeStandard, AccountNumber: "N2"}
		require.NoError(t, rps.accounts.Create(ctx, generated), "failed to create account")
		require.Equal(t, int64(6), generated.ID)
	}

	t.Log("taken explicit id is rejected")
	{
		err := rps.users.Create(ctx, &model.User{ID: 2, UserType: model.UserTypeCustomer, Username: "clone"})
		requireConstraintViolation(t, err, "user_id", bankErrors.RuleUnique)
	}
}

func TestWriteErr(t *testing.T) {
	forEachDialect(t, testWriteErr)
}

func testWriteErr(t *testing.T, rps *repositories) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_, err := rps.db.ExecContext(ctx, "INSERT INTO users(user_type, username) VALUES ('CUS', 'taken')")
	require.NoError(t, err, "failed to insert user")

	t.Log("unique violation is reported for violated column")
	{
		_, err := rps.db.ExecContext(ctx, "INSERT INTO users(user_type, username) VALUES ('CUS', 'taken')")
		require.Error(t, err, "duplicate username must be rejected by database")
		requireConstraintViolation(t, writeErr(userEntity, "user_id", err), "username", bankErrors.RuleUnique)
	}

	t.Log("primary key violation is reported for key column")
	{
		_, err := rps.db.ExecContext(ctx, "INSERT INTO user_types(code, description) VALUES ('ADM', 'Admin')")
		require.Error(t, err, "duplicate code must be rejected by database")
		requireConstraintViolation(t, writeErr(userTypeEntity, "code", err), "code", bankErrors.RuleUnique)
	}

	t.Log("foreign key violation")
	{
		_, err := rps.db.ExecContext(ctx, "INSERT INTO users(user_type, username) VALUES ('XXX', 'ghost')")
		require.Error(t, err, "unknown user type must be rejected by database")

		// sqlite doesn't name the column of violated foreign key
		field := "user_id"
		if rps.dialect == database.Postgres {
			field = "user_type"
		}
		requireConstraintViolation(t, writeErr(userEntity, "user_id", err), field, bankErrors.RuleForeignKey)
	}

	t.Log("other errors are passed through")
	{
		errDriver := errors.New("connection reset")
		require.ErrorIs(t, writeErr(userEntity, "user_id", errDriver), errDriver)
		require.NoError(t, writeErr(userEntity, "user_id", nil))
	}
}
