package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

// OrderHandler handles HTTP requests for service orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /v1/orders.
//
// @Summary      Create a service order
// @Description  Prices the items from the catalog and splits the total into installments. When installments are supplied they must sum to the order total.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse  "Replay of an earlier request with the same Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in, err := toCreateOrderInput(req, session, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}

	result, err := h.service.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toOrderResponse(result.Order))
}

// Get handles GET /v1/orders/:number.
//
// @Summary      Get an order by number
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Order number (e.g. OS-7A8B9C2D)"
// @Success      200     {object}  orderResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/orders/{number} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), session, c.Param("number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /v1/orders.
//
// @Summary      List orders
// @Description  CLIENT users only ever see their own orders.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "open, paid or cancelled"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        from       query     string  false  "Contract date lower bound (YYYY-MM-DD)"
// @Param        to         query     string  false  "Contract date upper bound (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listOrdersResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		Session:  session,
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		DateFrom: from,
		DateTo:   to,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	items := make([]orderResponse, len(result.Items))
	for i, o := range result.Items {
		items[i] = toOrderResponse(o)
	}
	return c.JSON(http.StatusOK, listOrdersResponse{
		Items:      items,
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Preview handles POST /v1/installments/preview.
//
// @Summary      Preview an installment schedule
// @Description  Splits a total into N installments without storing anything. The last installment absorbs the rounding residue.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      previewRequest  true  "Total and installment count"
// @Success      200   {object}  previewResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/installments/preview [post]
func (h *OrderHandler) Preview(c echo.Context) error {
	var req previewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in, err := toPreviewInput(req)
	if err != nil {
		return err
	}

	installments, err := h.service.PreviewInstallments(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, previewResponse{
		Total:        req.Total,
		Installments: toInstallmentResponses(installments),
	})
}

// EditInstallment handles PUT /v1/orders/:number/installments/:sequence.
//
// @Summary      Edit one installment
// @Description  Sets the installment amount and spreads the remainder of the order total over the other installments.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number    path      string                  true  "Order number"
// @Param        sequence  path      int                     true  "Installment sequence (1-based)"
// @Param        body      body      editInstallmentRequest  true  "New amount"
// @Success      200       {object}  orderResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/orders/{number}/installments/{sequence} [put]
func (h *OrderHandler) EditInstallment(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	sequence, err := strconv.Atoi(c.Param("sequence"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "sequence must be a number")
	}

	var req editInstallmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.EditInstallment(c.Request().Context(), ports.EditInstallmentInput{
		Session:     session,
		OrderNumber: c.Param("number"),
		Sequence:    sequence,
		Amount:      req.Amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ChangeStatus handles PATCH /v1/orders/:number/status.
//
// @Summary      Change the order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string               true  "Order number"
// @Param        body    body      changeStatusRequest  true  "Target status"
// @Success      200     {object}  orderResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/orders/{number}/status [patch]
func (h *OrderHandler) ChangeStatus(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.ChangeStatus(c.Request().Context(), ports.ChangeStatusInput{
		Session:     session,
		OrderNumber: c.Param("number"),
		Status:      domain.OrderStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
