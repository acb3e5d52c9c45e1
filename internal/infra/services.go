package infra

import (
	"github.com/go-redis/redis/v9"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/bankadmin/internal/auth"
	"github.com/umalmyha/bankadmin/internal/cache"
	"github.com/umalmyha/bankadmin/internal/config"
	"github.com/umalmyha/bankadmin/internal/repository"
	"github.com/umalmyha/bankadmin/internal/service"
	"github.com/umalmyha/bankadmin/internal/validation"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

// Services is application layer shared by router and startup tasks
type Services struct {
	Customer service.CustomerService
	User     service.UserService
	Account  service.AccountService
	Auth     service.AuthService
}

// NewServices wires repositories, session cache and jwt handling into services
func NewServices(cfg config.Config, db *sqlx.DB, redisClient redis.Cmdable, logger logrus.FieldLogger) (*Services, error) {
	// Transactors
	trx := transactor.NewSqlxTransactor(db)

	entityValidator, err := validation.NewEntityValidator()
	if err != nil {
		return nil, err
	}

	store := repository.Store{
		Executor:  transactor.NewSqlxWithinTransactionExecutor(db),
		Dialect:   cfg.DatabaseCfg.Driver,
		Validator: entityValidator,
	}

	// Extra functionality
	jwtCfg := cfg.AuthCfg.JwtCfg
	jwtIssuer := auth.NewJwtIssuer(jwtCfg.Issuer, jwtCfg.SigningMethod, jwtCfg.TimeToLive, jwtCfg.PrivateKey)
	jwtValidator := auth.NewJwtValidator(jwtCfg.SigningMethod, jwtCfg.PublicKey)
	sessionCache := cache.NewRedisSessionCache(redisClient)

	// Repositories
	customerRepo := repository.NewSQLCustomerRepository(store)
	addressRepo := repository.NewSQLAddressRepository(store)
	contactRepo := repository.NewSQLContactRepository(store)
	userRepo := repository.NewSQLUserRepository(store)
	userTypeRepo := repository.NewSQLUserTypeRepository(store)
	accountRepo := repository.NewSQLAccountRepository(store)
	accountTypeRepo := repository.NewSQLAccountTypeRepository(store)

	customerRps := service.CustomerRepositories{
		Customers:    customerRepo,
		Addresses:    addressRepo,
		Contacts:     contactRepo,
		Users:        userRepo,
		Accounts:     accountRepo,
		AccountTypes: accountTypeRepo,
	}

	return &Services{
		Customer: service.NewCustomerService(trx, customerRps, cfg.AdminCfg.DeletePolicy, logger),
		User:     service.NewUserService(trx, userRepo, userTypeRepo),
		Account:  service.NewAccountService(trx, accountRepo, accountTypeRepo, customerRepo),
		Auth:     service.NewAuthService(trx, userRepo, sessionCache, jwtIssuer, jwtValidator, logger),
	}, nil
}
