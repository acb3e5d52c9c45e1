package infra

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/umalmyha/bankadmin/docs" // swagger document
	"github.com/umalmyha/bankadmin/internal/config"
	"github.com/umalmyha/bankadmin/internal/handlers"
	"github.com/umalmyha/bankadmin/internal/middleware"
	"github.com/umalmyha/bankadmin/internal/validation"
)

const csrfFormField = "_csrf"

func Router(cfg config.Config, svc *Services, db handlers.Pinger, logger *logrus.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := handlers.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	v := validator.New()
	translator, err := validation.Translator(v)
	if err != nil {
		return nil, err
	}
	e.Validator = validation.Echo(v, translator)

	ctxProvider := handlers.NewContextProvider(cfg.AdminCfg.AppName)
	e.HTTPErrorHandler = handlers.ErrorHandler(ctxProvider, logger)

	e.Use(echoMiddleware.Recover())
	e.Use(requestLogger(logger))

	// Middleware
	adminOnlyMw := middleware.AdminOnly(svc.Auth)
	csrfMw := echoMiddleware.CSRFWithConfig(echoMiddleware.CSRFConfig{
		TokenLookup:    "form:" + csrfFormField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.HTTPCfg.SecureCookie,
		CookieSameSite: http.SameSiteStrictMode,
	})

	// Handlers
	adminHandler := handlers.NewAdminHTMLHandler(svc.Customer, svc.User, ctxProvider, logger)
	loginHandler := handlers.NewLoginHTMLHandler(svc.Auth, ctxProvider, cfg.HTTPCfg.SecureCookie)
	authHandler := handlers.NewAuthHTTPHandler(svc.Auth)
	userHandler := handlers.NewUserHTTPHandler(svc.User)
	custHandler := handlers.NewCustomerHTTPHandler(svc.Customer)
	accountHandler := handlers.NewAccountHTTPHandler(svc.Account)
	healthHandler := handlers.NewHealthHTTPHandler(db)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, handlers.CustomersPath)
	})
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// browser session
	e.GET(handlers.LoginPath, loginHandler.LoginPage, csrfMw)
	e.POST(handlers.LoginPath, loginHandler.Login, csrfMw)
	e.POST("/logout", loginHandler.Logout, csrfMw)

	// admin pages
	admin := e.Group("/admin", adminOnlyMw, csrfMw)
	admin.GET("/customers", adminHandler.AllCustomers)
	admin.GET("/users", adminHandler.AllUsers)
	admin.POST("/customers/delete/:id", adminHandler.DeleteCustomerByID)

	// API routes
	e.POST("/api/v1/auth/token", authHandler.Token)

	api := e.Group("/api/v1", adminOnlyMw)

	api.GET("/user-types", userHandler.GetAllTypes)
	api.POST("/user-types", userHandler.PostType)
	api.GET("/users", userHandler.GetAll)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users", userHandler.Post)

	api.GET("/account-types", accountHandler.GetAllTypes)
	api.POST("/account-types", accountHandler.PostType)

	api.POST("/addresses", custHandler.PostAddress)
	api.POST("/contacts", custHandler.PostContact)

	api.GET("/customers", custHandler.GetAll)
	api.POST("/customers", custHandler.Post)
	api.GET("/customers/:id", custHandler.Get)
	api.DELETE("/customers/:id", custHandler.DeleteByID)
	api.GET("/customers/:id/details", custHandler.GetDetails)
	api.GET("/customers/:id/accounts", accountHandler.GetByCustomer)
	api.POST("/customers/:id/accounts", accountHandler.Post)

	return e, nil
}

func requestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Info("request")
			return nil
		},
	})
}
