package handlers

import (
	"net/http"
	"time"

	"invoicedash/internal/config"
	"invoicedash/internal/middleware"
	"invoicedash/internal/models"
	"invoicedash/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService  services.AuthService
	jwtSecret    string
	cookieSecure bool
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, jwtSecret string, cookieSecure bool) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		jwtSecret:    jwtSecret,
		cookieSecure: cookieSecure,
	}
}

// LoginPage handles GET /login for signed-out visitors
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"redirectTo": c.QueryParam("redirectTo")})
}

// Login handles POST /login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var form models.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.authService.Authenticate(c.Request().Context(), nil, form)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "Login", "", nil, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	if result.Session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": result.Message})
	}

	c.SetCookie(h.sessionCookie(result.Session.Token, result.Session.ExpiresAt))
	return c.Redirect(http.StatusSeeOther, result.RedirectTo)
}

// Logout handles POST /logout. Always clears the cookie; revokes the token when it is still valid.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if claims, err := middleware.ParseSession(cookie.Value, h.jwtSecret); err == nil && claims.ExpiresAt != nil {
			if err := h.authService.SignOut(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				config.LogError(config.GetLogger(), "handlers", "Logout", "", map[string]string{"token_id": claims.ID}, err)
			}
		}
	}

	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.Redirect(http.StatusSeeOther, services.LoginPath)
}

func (h *AuthHandlers) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
