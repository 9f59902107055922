package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/api/middleware"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - a session must exist and be bound to a tenant (super admins excepted).
//   - CLIENT sessions require a client_id; without it the token is
//     structurally valid but cannot be scoped, so reject with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil || (s.TenantID == "" && !s.SuperAdmin) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if s.Role == domain.RoleClient && s.ClientID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing client identity")
	}
	return s, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
