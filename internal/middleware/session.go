package middleware

import (
	"context"
	"net/http"
	"net/url"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/services"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie   = "session"
	tokenContextKey = "user"
)

// SessionConfig builds the echo-jwt config for the session cookie. Requests without a
// valid session are sent to the login page with their target preserved.
func SessionConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return redirectToLogin(c)
		},
	}
}

// RequireSession guards the dashboard: a valid, unrevoked session cookie is required
func RequireSession(jwtSecret string, cacheSvc caching.CacheService) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(SessionConfig(jwtSecret)),
		activeSession(cacheSvc),
	}
}

// activeSession rejects revoked tokens and exposes the session identity on the request context
func activeSession(cacheSvc caching.CacheService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return redirectToLogin(c)
			}
			claims, ok := token.Claims.(*services.SessionClaims)
			if !ok || claims.Subject == "" {
				return redirectToLogin(c)
			}

			ctx := c.Request().Context()
			revoked, err := cacheSvc.IsSessionRevoked(ctx, claims.ID)
			if err != nil {
				config.GetLogger().WithField("module", "middleware").Warnf("session revocation check failed: %v", err)
			} else if revoked {
				return redirectToLogin(c)
			}

			ctx = context.WithValue(ctx, common.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, common.TokenIDKey, claims.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GuestOnly sends signed-in users straight to the dashboard. A revoked session cookie
// is cleared and the guest page is served.
func GuestOnly(jwtSecret string, cacheSvc caching.CacheService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			claims, err := ParseSession(cookie.Value, jwtSecret)
			if err != nil {
				return next(c)
			}

			revoked, err := cacheSvc.IsSessionRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				config.GetLogger().WithField("module", "middleware").Warnf("session revocation check failed: %v", err)
			} else if revoked {
				c.SetCookie(&http.Cookie{Name: SessionCookie, Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
				return next(c)
			}
			return c.Redirect(http.StatusSeeOther, services.DashboardPath)
		}
	}
}

// ParseSession validates a session token and returns its claims
func ParseSession(tokenString, jwtSecret string) (*services.SessionClaims, error) {
	claims := &services.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func redirectToLogin(c echo.Context) error {
	target := services.LoginPath
	if c.Request().Method == http.MethodGet {
		target += "?redirectTo=" + url.QueryEscape(c.Request().URL.RequestURI())
	}
	return c.Redirect(http.StatusSeeOther, target)
}
