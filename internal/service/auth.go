package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/bankadmin/internal/auth"
	"github.com/umalmyha/bankadmin/internal/cache"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/model"
	"github.com/umalmyha/bankadmin/internal/repository"
	"github.com/umalmyha/bankadmin/pkg/db/transactor"
)

const invalidCredentialsMsg = "invalid username or password"

type AuthService interface {
	Login(ctx context.Context, username, password string, at time.Time) (*auth.Jwt, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*model.Session, error)
}

type authService struct {
	trx          transactor.Transactor
	userRepo     repository.UserRepository
	sessionCache cache.SessionCache
	jwtIssuer    *auth.JwtIssuer
	jwtValidator *auth.JwtValidator
	logger       logrus.FieldLogger
}

func NewAuthService(
	trx transactor.Transactor,
	userRepo repository.UserRepository,
	sessionCache cache.SessionCache,
	jwtIssuer *auth.JwtIssuer,
	jwtValidator *auth.JwtValidator,
	logger logrus.FieldLogger,
) AuthService {
	return &authService{
		trx:          trx,
		userRepo:     userRepo,
		sessionCache: sessionCache,
		jwtIssuer:    jwtIssuer,
		jwtValidator: jwtValidator,
		logger:       logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string, at time.Time) (*auth.Jwt, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		var notFoundErr *bankErrors.EntryNotFoundErr
		if errors.As(err, &notFoundErr) {
			return nil, bankErrors.NewUnauthenticatedErr(invalidCredentialsMsg)
		}
		return nil, err
	}

	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		s.logger.WithField("username", username).Warn("login attempt with wrong password")
		return nil, bankErrors.NewUnauthenticatedErr(invalidCredentialsMsg)
	}

	token, err := s.jwtIssuer.Sign(u, at)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        token.ID,
		UserID:    u.ID,
		Username:  u.Username,
		UserType:  u.UserType,
		CreatedAt: at,
		ExpiresAt: token.ExpiresAt,
	}

	if err := s.sessionCache.Save(ctx, session); err != nil {
		return nil, err
	}

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.UpdateLastLogin(ctx, u.ID, at)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"username": u.Username, "userType": u.UserType}).Info("user logged in")
	return token, nil
}

// Logout terminates session bound to token, invalid tokens are ignored
func (s *authService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.jwtValidator.Verify(rawToken)
	if err != nil {
		return nil
	}
	return s.sessionCache.DeleteByID(ctx, claims.ID)
}

// Authenticate resolves live session of token owner
func (s *authService) Authenticate(ctx context.Context, rawToken string) (*model.Session, error) {
	claims, err := s.jwtValidator.Verify(rawToken)
	if err != nil {
		return nil, bankErrors.NewUnauthenticatedErr("invalid access token")
	}

	session, err := s.sessionCache.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, bankErrors.NewUnauthenticatedErr("session is expired or terminated")
	}
	return session, nil
}
