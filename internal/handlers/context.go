package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/umalmyha/bankadmin/internal/middleware"
)

// ContextProvider supplies values every page gets under "context" key
type ContextProvider interface {
	DefaultContext(echo.Context) map[string]any
}

type defaultContextProvider struct {
	appName string
}

func NewContextProvider(appName string) ContextProvider {
	return &defaultContextProvider{appName: appName}
}

func (p *defaultContextProvider) DefaultContext(c echo.Context) map[string]any {
	ctx := map[string]any{
		"appName": p.appName,
		"path":    c.Request().URL.Path,
		"year":    time.Now().Year(),
	}

	if token, ok := c.Get(echoMiddleware.DefaultCSRFConfig.ContextKey).(string); ok {
		ctx["csrf"] = token
	}

	if principal := middleware.Principal(c); principal != nil {
		ctx["principal"] = principal
	}
	return ctx
}

// page builds template data with default context
func page(p ContextProvider, c echo.Context, data map[string]any) map[string]any {
	if data == nil {
		data = make(map[string]any)
	}
	data["context"] = p.DefaultContext(c)
	return data
}
