package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorMapping binds a sentinel to its status. An empty message means the
// wrapped error text is safe to show and is returned as is.
type errorMapping struct {
	target  error
	status  int
	message string
}

// Checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	{domain.ErrOrderNotFound, http.StatusNotFound, "order not found"},
	{domain.ErrClientNotFound, http.StatusNotFound, "client not found"},
	{domain.ErrFunctionalityNotFound, http.StatusNotFound, "functionality not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},

	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},

	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrDuplicateClient, http.StatusConflict, "client already registered"},
	{domain.ErrOrderClosed, http.StatusConflict, "order is closed"},
	{domain.ErrOrderInProgress, http.StatusConflict, "order with this idempotency key is still being created"},
	{domain.ErrDuplicateIdempotencyKey, http.StatusConflict, "idempotency key already used"},

	{domain.ErrInvalidOrder, http.StatusBadRequest, ""},
	{domain.ErrInvalidClient, http.StatusBadRequest, ""},
	{domain.ErrInvalidFunctionality, http.StatusBadRequest, ""},
	{domain.ErrInvalidRole, http.StatusBadRequest, ""},

	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, ""},
	{domain.ErrFunctionalityInactive, http.StatusUnprocessableEntity, ""},
	{billing.ErrInvalidInstallmentCount, http.StatusUnprocessableEntity, ""},
	{billing.ErrNegativeAmount, http.StatusUnprocessableEntity, ""},
	{billing.ErrInstallmentIndex, http.StatusUnprocessableEntity, ""},
	{billing.ErrInstallmentExceedsTotal, http.StatusUnprocessableEntity, ""},
	{billing.ErrScheduleMismatch, http.StatusUnprocessableEntity, ""},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Unknown errors
// are logged with the request and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message, known := statusFor(err)
		if !known {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Error: message})
	}
}

func statusFor(err error) (int, string, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message), true
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.message == "" {
			return m.status, err.Error(), true
		}
		return m.status, m.message, true
	}
	return http.StatusInternalServerError, "internal server error", false
}
