package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/api/metrics"
	"github.com/servicedesk/backoffice/internal/core/access"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

type forbiddenResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// RBAC enforces role-based access control through an access.Guard.
// A request whose role is not known yet gets 401; a known role outside
// allowedRoles gets 403 plus the route the client should fall back to.
// An empty allowedRoles admits every authenticated role.
func RBAC(authz access.Authorizer, fallback string, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	guard := access.NewGuard(authz, fallback, allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			verdict := guard.Evaluate(access.SubjectOf(SessionFrom(c)))
			metrics.AccessDecisionsTotal.WithLabelValues(c.Path(), verdict.State.String()).Inc()

			switch verdict.State {
			case access.Granted:
				return next(c)
			case access.Denied:
				return c.JSON(http.StatusForbidden, forbiddenResponse{Error: "forbidden", Redirect: verdict.Redirect})
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "role not loaded")
			}
		}
	}
}
