package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
)

type staticAuthenticator map[string]*model.Session

func (a staticAuthenticator) Authenticate(_ context.Context, rawToken string) (*model.Session, error) {
	if s, ok := a[rawToken]; ok {
		return s, nil
	}
	return nil, bankErrors.NewUnauthenticatedErr("invalid access token")
}

func TestAdminOnly(t *testing.T) {
	authenticator := staticAuthenticator{
		"admin-token":    {ID: "1", Username: "alice", UserType: model.UserTypeAdmin},
		"customer-token": {ID: "2", Username: "bob", UserType: model.UserTypeCustomer},
	}

	var principal *model.Session
	next := func(c echo.Context) error {
		principal = Principal(c)
		return c.NoContent(http.StatusOK)
	}
	h := AdminOnly(authenticator)(next)

	e := echo.New()
	serve := func(setup func(r *http.Request)) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/admin/customers", nil)
		setup(req)
		rec := httptest.NewRecorder()
		return rec, h(e.NewContext(req, rec))
	}

	requireAuthFailure := func(err error, authenticated bool) {
		var authErr *bankErrors.AuthorizationFailure
		require.True(t, errors.As(err, &authErr), "authorization failure expected, got %v", err)
		require.Equal(t, authenticated, authErr.Authenticated)
	}

	t.Log("request without token is unauthenticated")
	{
		principal = nil
		_, err := serve(func(r *http.Request) {})
		requireAuthFailure(err, false)
		require.Nil(t, principal, "handler must not be reached")
	}

	t.Log("malformed Authorization header is unauthenticated")
	{
		_, err := serve(func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "admin-token") })
		requireAuthFailure(err, false)
	}

	t.Log("customer session is forbidden")
	{
		_, err := serve(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "customer-token"}) })
		requireAuthFailure(err, true)
		require.Nil(t, principal, "handler must not be reached")
	}

	t.Log("administrator with cookie passes")
	{
		rec, err := serve(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "admin-token"}) })
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, principal, "principal must be set")
		require.Equal(t, "alice", principal.Username)
	}

	t.Log("administrator with bearer token passes")
	{
		principal = nil
		rec, err := serve(func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer admin-token") })
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, principal, "principal must be set")
	}
}
