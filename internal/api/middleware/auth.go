package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

// SessionKey is the echo.Context key holding the caller's *domain.Session.
const SessionKey = "session"

// Auth verifies the HS256 bearer token and stores the caller's session in
// the context under SessionKey. Role checks are left to RBAC.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	key := []byte(jwtSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return key, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(SessionKey, sessionFromClaims(claims))
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Auth, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}

// sessionFromClaims maps token claims to a session. An unknown role is kept
// empty so the route guards treat it as not loaded.
func sessionFromClaims(claims jwt.MapClaims) *domain.Session {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	role, err := domain.ParseRole(str("role"))
	if err != nil {
		role = ""
	}
	superAdmin, _ := claims["super_admin"].(bool)

	return &domain.Session{
		UserID:     str("sub"),
		Email:      str("email"),
		Role:       role,
		SuperAdmin: superAdmin,
		TenantID:   str("tenant_id"),
		ClientID:   str("client_id"),
	}
}
