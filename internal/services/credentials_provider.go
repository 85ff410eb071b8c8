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
	"invoicedash/internal/repositories"
	"invoicedash/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const sessionIssuer = "invoicedash"

// SessionClaims are the claims carried by the session cookie
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type CredentialsProviderConfig struct {
	JWTSecret   string
	SessionTTL  time.Duration
	MaxAttempts int
	Window      time.Duration
}

type credentialsProvider struct {
	userRepo repositories.UserRepository
	cacheSvc caching.CacheService
	cfg      CredentialsProviderConfig
	now      func() time.Time
	logger   *logrus.Logger
}

// NewCredentialsProvider checks email and password against stored bcrypt hashes
// and issues HS256 session tokens.
func NewCredentialsProvider(userRepo repositories.UserRepository, cacheSvc caching.CacheService, cfg CredentialsProviderConfig) SignInProvider {
	return &credentialsProvider{
		userRepo: userRepo,
		cacheSvc: cacheSvc,
		cfg:      cfg,
		now:      time.Now,
		logger:   config.GetLogger(),
	}
}

func (p *credentialsProvider) SignIn(ctx context.Context, providerID string, form models.LoginForm) (*models.Session, error) {
	if providerID != ProviderCredentials {
		return nil, &AuthError{Type: InvalidProvider, Err: fmt.Errorf("unknown provider %q", providerID)}
	}

	creds, err := validation.ValidateCredentials(form.Email, form.Password)
	if err != nil {
		return nil, &AuthError{Type: CredentialsSignin, Err: err}
	}

	limitKey := "login:" + strings.ToLower(creds.Email)
	if p.cfg.MaxAttempts > 0 {
		limited, err := p.cacheSvc.IsRateLimited(ctx, limitKey, p.cfg.MaxAttempts, p.cfg.Window)
		if err != nil {
			// Fail open: a cache outage must not lock everyone out
			p.logger.WithField("module", "services").Warnf("login rate limit check failed: %v", err)
		} else if limited {
			return nil, &AuthError{Type: AccessDenied, Err: errors.New("too many sign-in attempts")}
		}
	}

	user, err := p.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, &AuthError{Type: CredentialsSignin, Err: err}
		}
		return nil, &AuthError{Type: CallbackRouteError, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, &AuthError{Type: CredentialsSignin, Err: err}
		}
		return nil, &AuthError{Type: CallbackRouteError, Err: err}
	}

	session, err := p.issue(user)
	if err != nil {
		return nil, err
	}

	if p.cfg.MaxAttempts > 0 {
		if err := p.cacheSvc.ResetRateLimit(ctx, limitKey); err != nil {
			p.logger.WithField("module", "services").Warnf("failed to reset login rate limit: %v", err)
		}
	}
	return session, nil
}

func (p *credentialsProvider) issue(user *models.User) (*models.Session, error) {
	now := p.now()
	tokenID := uuid.NewString()
	expiresAt := now.Add(p.cfg.SessionTTL)

	claims := SessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &models.Session{
		Token:     token,
		TokenID:   tokenID,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
		IssuedAt:  now,
	}, nil
}
