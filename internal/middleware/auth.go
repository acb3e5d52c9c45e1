package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
)

// AccessTokenCookie is name of the cookie holding access token of browser sessions
const AccessTokenCookie = "access-token"

const principalKey = "principal"

// Authenticator resolves session of access token owner
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*model.Session, error)
}

// AdminOnly lets request through only if caller has live administrator session.
// Token is taken from Authorization header first and access token cookie otherwise.
func AdminOnly(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, err := accessToken(c)
			if err != nil {
				return err
			}

			session, err := authenticator.Authenticate(c.Request().Context(), rawToken)
			if err != nil {
				return err
			}

			if !session.IsAdmin() {
				return bankErrors.NewForbiddenErr("administrator privileges are required")
			}

			c.Set(principalKey, session)
			return next(c)
		}
	}
}

// Principal returns session of authorized caller, nil for anonymous requests
func Principal(c echo.Context) *model.Session {
	if s, ok := c.Get(principalKey).(*model.Session); ok {
		return s
	}
	return nil
}

// AccessToken extracts raw access token from request
func AccessToken(c echo.Context) string {
	token, _ := accessToken(c)
	return token
}

func accessToken(c echo.Context) (string, error) {
	if authHdr := c.Request().Header.Get(echo.HeaderAuthorization); authHdr != "" {
		hdrSplit := strings.Split(authHdr, " ")
		if len(hdrSplit) != 2 || !strings.EqualFold(hdrSplit[0], "Bearer") {
			return "", bankErrors.NewUnauthenticatedErr("invalid Authorization header format")
		}
		return hdrSplit[1], nil
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", bankErrors.NewUnauthenticatedErr("access token is missing")
	}
	return cookie.Value, nil
}
