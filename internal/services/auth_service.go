package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/config"
	"invoicedash/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	ProviderCredentials = "credentials"

	MsgInvalidCredentials = "Invalid Credentials"
	MsgSomethingWentWrong = "Something Went Wrong"
)

// AuthErrorType discriminates sign-in failures
type AuthErrorType string

const (
	CredentialsSignin  AuthErrorType = "CredentialsSignin"
	CallbackRouteError AuthErrorType = "CallbackRouteError"
	AccessDenied       AuthErrorType = "AccessDenied"
	InvalidProvider    AuthErrorType = "InvalidProvider"
)

// AuthError is a classified failure raised by a sign-in provider
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// SignInProvider is the sign-in capability the auth service delegates to
type SignInProvider interface {
	SignIn(ctx context.Context, providerID string, form models.LoginForm) (*models.Session, error)
}

// SignInResult is either a started session with a place to go, or a message for the form
type SignInResult struct {
	Session    *models.Session
	RedirectTo string
	Message    string
}

// AuthService signs users in and out
type AuthService interface {
	Authenticate(ctx context.Context, prev *string, form models.LoginForm) (SignInResult, error)
	SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type authService struct {
	provider SignInProvider
	cacheSvc caching.CacheService
	logger   *logrus.Logger
}

func NewAuthService(provider SignInProvider, cacheSvc caching.CacheService) AuthService {
	return &authService{
		provider: provider,
		cacheSvc: cacheSvc,
		logger:   config.GetLogger(),
	}
}

// Authenticate attempts a credentials sign-in. Classified auth failures become one of two
// messages; every other error is returned untouched.
func (s *authService) Authenticate(ctx context.Context, _ *string, form models.LoginForm) (SignInResult, error) {
	session, err := s.provider.SignIn(ctx, ProviderCredentials, form)
	if err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			return SignInResult{}, err
		}

		s.logger.WithFields(logrus.Fields{
			"module":   "services",
			"funcName": "Authenticate",
			"type":     authErr.Type,
		}).Warn(err.Error())

		switch authErr.Type {
		case CredentialsSignin:
			return SignInResult{Message: MsgInvalidCredentials}, nil
		default:
			return SignInResult{Message: MsgSomethingWentWrong}, nil
		}
	}

	return SignInResult{Session: session, RedirectTo: safeRedirect(form.Redirect)}, nil
}

// SignOut revokes the session token for the rest of its lifetime
func (s *authService) SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	return s.cacheSvc.RevokeSession(ctx, tokenID, time.Until(expiresAt))
}

// safeRedirect only follows local dashboard paths
func safeRedirect(target string) string {
	rest, ok := strings.CutPrefix(target, DashboardPath)
	if ok && (rest == "" || rest[0] == '/' || rest[0] == '?') && !strings.HasPrefix(rest, "//") {
		return target
	}
	return DashboardPath
}
