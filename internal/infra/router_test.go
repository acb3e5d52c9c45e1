package infra

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/bankadmin/internal/config"
	"github.com/umalmyha/bankadmin/internal/database"
	"github.com/umalmyha/bankadmin/internal/handlers"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/service"
)

const csrfCookie = "_csrf"

// memoryRedis serves only commands used by session cache
type memoryRedis struct {
	redis.Cmdable
	values map[string]string
}

func (m *memoryRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *memoryRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.values[key] = string(value.([]byte))
	cmd := redis.NewStatusCmd(ctx, "set", key)
	cmd.SetVal("OK")
	return cmd
}

func (m *memoryRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd := redis.NewIntCmd(ctx, "del")
	cmd.SetVal(int64(len(keys)))
	return cmd
}

type routerTestSuite struct {
	suite.Suite
	e   *echo.Echo
	svc *Services
}

func (s *routerTestSuite) SetupTest() {
	t := s.T()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)

	var cfg config.Config
	cfg.DatabaseCfg.Driver = database.SQLite
	cfg.AdminCfg.AppName = "Bank Admin"
	cfg.AdminCfg.DeletePolicy = model.DeletePolicyReject
	cfg.AuthCfg.JwtCfg = config.JwtCfg{
		Issuer:        "bank-admin-test",
		TimeToLive:    15 * time.Minute,
		SigningMethod: jwt.SigningMethodEdDSA,
		PrivateKey:    priv,
		PublicKey:     pub,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, database.Options{
		Dialect:      database.SQLite,
		DSN:          database.SQLiteDSN(":memory:"),
		MaxOpenConns: 1,
	})
	s.Require().NoError(err, "failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	logger, _ := logrusTest.NewNullLogger()

	s.svc, err = NewServices(cfg, db, &memoryRedis{values: make(map[string]string)}, logger)
	s.Require().NoError(err, "failed to build services")

	s.e, err = Router(cfg, s.svc, db, logger)
	s.Require().NoError(err, "failed to build router")
}

func (s *routerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *routerTestSuite) login(username, password string) string {
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := s.serve(req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"accessToken"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &token))
	s.Require().NotEmpty(token.AccessToken)
	return token.AccessToken
}

func (s *routerTestSuite) TestPublicRoutes() {
	s.T().Log("health is reported")
	{
		rec := s.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
		s.Assert().Equal(http.StatusOK, rec.Code)
	}

	s.T().Log("root redirects to customers page")
	{
		rec := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))
		s.Assert().Equal(http.StatusSeeOther, rec.Code)
		s.Assert().Equal(handlers.CustomersPath, rec.Header().Get(echo.HeaderLocation))
	}

	s.T().Log("login page carries csrf token")
	{
		rec := s.serve(httptest.NewRequest(http.MethodGet, handlers.LoginPath, nil))
		s.Assert().Equal(http.StatusOK, rec.Code)
		s.Assert().Contains(rec.Header().Get(echo.HeaderSetCookie), csrfCookie)
	}

	s.T().Log("swagger document is served")
	{
		rec := s.serve(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		s.Assert().Equal(http.StatusOK, rec.Code)
		s.Assert().Contains(rec.Body.String(), "/api/v1/customers")
	}
}

func (s *routerTestSuite) TestAdminGate() {
	s.T().Log("anonymous browser gets unauthorized page")
	{
		req := httptest.NewRequest(http.MethodGet, handlers.CustomersPath, nil)
		req.Header.Set(echo.HeaderAccept, echo.MIMETextHTML)

		rec := s.serve(req)
		s.Assert().Equal(http.StatusUnauthorized, rec.Code)
		s.Assert().Contains(rec.Body.String(), `href="/login"`)
	}

	s.T().Log("anonymous api call is unauthorized")
	{
		rec := s.serve(httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))
		s.Assert().Equal(http.StatusUnauthorized, rec.Code)
	}

	s.T().Log("non administrator is forbidden")
	{
		_, err := s.svc.User.Create(context.Background(), service.NewUser{
			User:     &model.User{UserType: model.UserTypeCustomer, Username: "bob"},
			Password: "secret",
		})
		s.Require().NoError(err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.login("bob", "secret"))

		rec := s.serve(req)
		s.Assert().Equal(http.StatusForbidden, rec.Code)
	}
}

func (s *routerTestSuite) TestAdminFlow() {
	ctx := context.Background()

	alice, created, err := s.svc.User.EnsureAdmin(ctx, "alice", "secret")
	s.Require().NoError(err, "failed to create administrator")
	s.Require().True(created)
	s.Require().Equal(int64(1), alice.ID)

	bearer := "Bearer " + s.login("alice", "secret")

	s.T().Log("users page lists exactly alice")
	{
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer)

		rec := s.serve(req)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Assert().Equal(1, strings.Count(rec.Body.String(), "<td>alice</td>"))
	}

	s.T().Log("customer is created through api")
	{
		body := `{"customerId":"C0000000001","firstName":"John","lastName":"Smith","gender":"M","birthDate":"1990-05-17"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
		req.Header.Set(echo.HeaderAuthorization, bearer)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		rec := s.serve(req)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	}

	var csrfToken string
	s.T().Log("customers page lists customer and issues csrf token")
	{
		req := httptest.NewRequest(http.MethodGet, handlers.CustomersPath, nil)
		req.Header.Set(echo.HeaderAuthorization, bearer)

		rec := s.serve(req)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Assert().Contains(rec.Body.String(), "C0000000001")

		for _, c := range rec.Result().Cookies() {
			if c.Name == csrfCookie {
				csrfToken = c.Value
			}
		}
		s.Require().NotEmpty(csrfToken, "csrf cookie must be set")
	}

	s.T().Log("delete without csrf token is rejected")
	{
		req := httptest.NewRequest(http.MethodPost, "/admin/customers/delete/C0000000001", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer)

		rec := s.serve(req)
		s.Assert().Equal(http.StatusBadRequest, rec.Code)
	}

	s.T().Log("deleting customer redirects to customers page")
	{
		form := url.Values{"_csrf": {csrfToken}}
		req := httptest.NewRequest(http.MethodPost, "/admin/customers/delete/C0000000001", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderAuthorization, bearer)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(&http.Cookie{Name: csrfCookie, Value: csrfToken})

		rec := s.serve(req)
		s.Require().Equal(http.StatusSeeOther, rec.Code)
		s.Assert().Equal(handlers.CustomersPath, rec.Header().Get(echo.HeaderLocation))
	}

	s.T().Log("deleted customer is gone")
	{
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/C0000000001", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer)

		rec := s.serve(req)
		s.Assert().Equal(http.StatusNotFound, rec.Code)
	}
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(routerTestSuite))
}
