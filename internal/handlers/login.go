package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/middleware"
	"github.com/umalmyha/bankadmin/internal/service"
)

// LoginPath is page with login form
const LoginPath = "/login"

type credentials struct {
	Username string `form:"username" json:"username" validate:"required,max=25"`
	Password string `form:"password" json:"password" validate:"required"`
}

type accessToken struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginHTMLHandler serves login form and browser sessions
type LoginHTMLHandler struct {
	authSvc      service.AuthService
	ctxProvider  ContextProvider
	secureCookie bool
}

// NewLoginHTMLHandler builds new LoginHTMLHandler
func NewLoginHTMLHandler(authSvc service.AuthService, ctxProvider ContextProvider, secureCookie bool) *LoginHTMLHandler {
	return &LoginHTMLHandler{authSvc: authSvc, ctxProvider: ctxProvider, secureCookie: secureCookie}
}

// LoginPage renders login form
func (h *LoginHTMLHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", page(h.ctxProvider, c, map[string]any{"title": "Sign in"}))
}

// Login verifies credentials, stores access token in cookie and redirects to customers page
func (h *LoginHTMLHandler) Login(c echo.Context) error {
	var cred credentials
	if err := c.Bind(&cred); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authSvc.Login(c.Request().Context(), cred.Username, cred.Password, time.Now().UTC())
	if err != nil {
		var authErr *bankErrors.AuthorizationFailure
		if errors.As(err, &authErr) {
			return c.Render(http.StatusUnauthorized, "login.html", page(h.ctxProvider, c, map[string]any{
				"title":    "Sign in",
				"error":    authErr.Error(),
				"username": cred.Username,
			}))
		}
		return err
	}

	c.SetCookie(h.accessTokenCookie(token.Signed, token.ExpiresAt))
	return c.Redirect(http.StatusSeeOther, CustomersPath)
}

// Logout terminates session and drops access token cookie
func (h *LoginHTMLHandler) Logout(c echo.Context) error {
	if rawToken := middleware.AccessToken(c); rawToken != "" {
		if err := h.authSvc.Logout(c.Request().Context(), rawToken); err != nil {
			return err
		}
	}

	cookie := h.accessTokenCookie("", time.Time{})
	cookie.MaxAge = -1
	c.SetCookie(cookie)

	return c.Redirect(http.StatusSeeOther, LoginPath)
}

func (h *LoginHTMLHandler) accessTokenCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
