package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/core/ports"
)

// CatalogHandler serves clients and the functionality catalog.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateClient handles POST /v1/clients.
//
// @Summary      Register a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *CatalogHandler) CreateClient(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.CreateClient(c.Request().Context(), ports.CreateClientInput{
		Session:  session,
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Search by name or document"
// @Success      200  {array}   domain.Client
// @Router       /v1/clients [get]
func (h *CatalogHandler) ListClients(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	clients, err := h.service.ListClients(c.Request().Context(), session, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *CatalogHandler) GetClient(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	client, err := h.service.GetClient(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// CreateFunctionality handles POST /v1/functionalities.
//
// @Summary      Add a billable functionality
// @Tags         functionalities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createFunctionalityRequest  true  "Functionality details"
// @Success      201   {object}  domain.Functionality
// @Failure      400   {object}  errorResponse
// @Router       /v1/functionalities [post]
func (h *CatalogHandler) CreateFunctionality(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createFunctionalityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	f, err := h.service.CreateFunctionality(c.Request().Context(), ports.CreateFunctionalityInput{
		Session:     session,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFunctionalities handles GET /v1/functionalities.
//
// @Summary      List functionalities
// @Tags         functionalities
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active entries"
// @Success      200     {array}   domain.Functionality
// @Router       /v1/functionalities [get]
func (h *CatalogHandler) ListFunctionalities(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	items, err := h.service.ListFunctionalities(c.Request().Context(), session, activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
