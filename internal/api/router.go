package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/servicedesk/backoffice/docs"
	"github.com/servicedesk/backoffice/internal/api/handler"
	"github.com/servicedesk/backoffice/internal/api/middleware"
	"github.com/servicedesk/backoffice/internal/core/access"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
	"github.com/servicedesk/backoffice/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Logger        zerolog.Logger
	JWTSecret     string
	Authz         access.Authorizer
	FallbackRoute string

	Auth    ports.AuthService
	Orders  ports.OrderService
	Catalog ports.CatalogService
	Menu    ports.MenuService

	// ReadinessChecks back GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handlers.Check

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

var (
	staff        = domain.StaffRoles
	managers     = []domain.Role{domain.RoleAdmin, domain.RoleManagerReviewers}
	admins       = []domain.Role{domain.RoleAdmin}
	orderReaders = append(append([]domain.Role(nil), domain.StaffRoles...), domain.RoleClient)
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(d.Registry)))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealth(d.ReadinessChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer(d.Registry)}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Menu)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	guard := func(roles ...domain.Role) echo.MiddlewareFunc {
		return middleware.RBAC(d.Authz, d.FallbackRoute, roles...)
	}

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	// guard() with no roles admits any loaded role.
	menuHandler := handler.NewMenuHandler(d.Menu)
	v1.GET("/me", authHandler.Me, guard())
	v1.GET("/menu", menuHandler.Menu, guard())
	v1.POST("/users", authHandler.CreateUser, guard(admins...))

	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	v1.POST("/clients", catalogHandler.CreateClient, guard(staff...))
	v1.GET("/clients", catalogHandler.ListClients, guard(staff...))
	v1.GET("/clients/:id", catalogHandler.GetClient, guard(staff...))
	v1.POST("/functionalities", catalogHandler.CreateFunctionality, guard(managers...))
	v1.GET("/functionalities", catalogHandler.ListFunctionalities, guard(staff...))

	orderHandler := handler.NewOrderHandler(d.Orders)
	v1.POST("/installments/preview", orderHandler.Preview, guard(staff...))
	v1.POST("/orders", orderHandler.Create, guard(staff...))
	v1.GET("/orders", orderHandler.List, guard(orderReaders...))
	v1.GET("/orders/:number", orderHandler.Get, guard(orderReaders...))
	v1.PUT("/orders/:number/installments/:sequence", orderHandler.EditInstallment, guard(managers...))
	v1.PATCH("/orders/:number/status", orderHandler.ChangeStatus, guard(managers...))

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	conf := echoprometheus.MiddlewareConfig{Subsystem: "backoffice"}
	if reg != nil {
		conf.Registerer = reg
	}
	return conf
}

func gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	if reg == nil {
		return prometheus.DefaultGatherer
	}
	return reg
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
