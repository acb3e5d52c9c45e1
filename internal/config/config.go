package config

import (
	"crypto"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/bankadmin/internal/auth"
	"github.com/umalmyha/bankadmin/internal/database"
	"github.com/umalmyha/bankadmin/internal/model"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

type HTTPCfg struct {
	Port            int           `env:"HTTP_PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SecureCookie    bool          `env:"HTTP_SECURE_COOKIE" envDefault:"false"`
}

type DatabaseCfg struct {
	Driver         database.Dialect `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	ConnectTimeout time.Duration    `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`
	MaxOpenConns   int              `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
}

type PostgresCfg struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:""`
	Database string `env:"POSTGRES_DB" envDefault:"bank"`
	SslMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

type SqliteCfg struct {
	Path string `env:"SQLITE_PATH" envDefault:"bank.db"`
}

type RedisCfg struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JwtCfg struct {
	Issuer         string        `env:"AUTH_JWT_ISSUER" envDefault:"bank-admin"`
	TimeToLive     time.Duration `env:"AUTH_JWT_TIME_TO_LIVE" envDefault:"30m"`
	PrivateKeyFile string        `env:"AUTH_JWT_PRIVATE_KEY_FILE"`
	PublicKeyFile  string        `env:"AUTH_JWT_PUBLIC_KEY_FILE"`
	SigningMethod  jwt.SigningMethod
	PrivateKey     crypto.PrivateKey
	PublicKey      crypto.PublicKey
}

type AuthCfg struct {
	JwtCfg JwtCfg
}

type AdminCfg struct {
	AppName           string             `env:"ADMIN_APP_NAME" envDefault:"Bank Admin"`
	DeletePolicy      model.DeletePolicy `env:"ADMIN_CUSTOMER_DELETE_POLICY" envDefault:"reject"`
	BootstrapUsername string             `env:"ADMIN_BOOTSTRAP_USERNAME" envDefault:""`
	BootstrapPassword string             `env:"ADMIN_BOOTSTRAP_PASSWORD" envDefault:""`
}

type LogCfg struct {
	Level  logrus.Level `env:"LOG_LEVEL" envDefault:"info"`
	Format string       `env:"LOG_FORMAT" envDefault:"json"`
}

type TelemetryCfg struct {
	ServiceName   string `env:"OTEL_SERVICE_NAME" envDefault:"bank-admin"`
	StdoutEnabled bool   `env:"OTEL_STDOUT_ENABLED" envDefault:"false"`
}

type Config struct {
	HTTPCfg      HTTPCfg
	DatabaseCfg  DatabaseCfg
	PostgresCfg  PostgresCfg
	SqliteCfg    SqliteCfg
	RedisCfg     RedisCfg
	AuthCfg      AuthCfg
	AdminCfg     AdminCfg
	LogCfg       LogCfg
	TelemetryCfg TelemetryCfg
}

// DSN returns connection string of configured database driver
func (c Config) DSN() string {
	if c.DatabaseCfg.Driver == database.Postgres {
		pg := c.PostgresCfg
		return database.PostgresDSN(pg.User, pg.Password, pg.Host, pg.Port, pg.Database, pg.SslMode)
	}
	return database.SQLiteDSN(c.SqliteCfg.Path)
}

var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(database.Dialect("")): func(v string) (interface{}, error) {
		return database.ParseDialect(v)
	},
	reflect.TypeOf(model.DeletePolicy("")): func(v string) (interface{}, error) {
		return model.ParseDeletePolicy(v)
	},
	reflect.TypeOf(logrus.Level(0)): func(v string) (interface{}, error) {
		return logrus.ParseLevel(v)
	},
}

func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithFuncs(&cfg, parsers, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	if cfg.AdminCfg.BootstrapUsername != "" && cfg.AdminCfg.BootstrapPassword == "" {
		return cfg, fmt.Errorf("ADMIN_BOOTSTRAP_PASSWORD must be set together with ADMIN_BOOTSTRAP_USERNAME")
	}

	jwtCfg := &cfg.AuthCfg.JwtCfg

	signingMethod, err := auth.SigningMethod(jwtSigningAlgorithmEd25519)
	if err != nil {
		return cfg, err
	}
	jwtCfg.SigningMethod = signingMethod

	jwtPrivateKeyBytes, err := os.ReadFile(jwtCfg.PrivateKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read private key file for jwt - %w", err)
	}

	jwtPrivateKey, err := jwt.ParseEdPrivateKeyFromPEM(jwtPrivateKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse private key for jwt - %w", err)
	}
	jwtCfg.PrivateKey = jwtPrivateKey

	jwtPublicKeyBytes, err := os.ReadFile(jwtCfg.PublicKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	jwtPublicKey, err := jwt.ParseEdPublicKeyFromPEM(jwtPublicKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	jwtCfg.PublicKey = jwtPublicKey

	return cfg, nil
}
