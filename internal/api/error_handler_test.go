package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"client not found", domain.ErrClientNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"duplicate user", domain.ErrUserExists, http.StatusConflict},
		{"closed order", domain.ErrOrderClosed, http.StatusConflict},
		{"order in progress", domain.ErrOrderInProgress, http.StatusConflict},
		{"invalid order", fmt.Errorf("%w: client required", domain.ErrInvalidOrder), http.StatusBadRequest},
		{"invalid transition", fmt.Errorf("change status: %w", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"schedule mismatch", fmt.Errorf("%w: sum 1.00, total 2.00", billing.ErrScheduleMismatch), http.StatusUnprocessableEntity},
		{"installment index", fmt.Errorf("edit installment 9: %w", billing.ErrInstallmentIndex), http.StatusUnprocessableEntity},
		{"unexpected", errors.New("mongo: socket closed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Fatalf("expected error envelope, got %q", rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: auth failed for user root"), c)

	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "internal server error" {
		t.Fatalf("internal error leaked: %q", body.Error)
	}
}

func TestStatusFor_Messages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrOrderNotFound, "order not found"},
		{fmt.Errorf("%w: document must be a CPF (11 digits) or CNPJ (14 digits)", domain.ErrInvalidClient),
			"invalid client: document must be a CPF (11 digits) or CNPJ (14 digits)"},
		{echo.NewHTTPError(http.StatusUnauthorized, "role not loaded"), "role not loaded"},
	}
	for _, tc := range cases {
		if _, got, _ := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) message = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrOrderNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 404, got %d %q", rec.Code, rec.Body.String())
	}
}
