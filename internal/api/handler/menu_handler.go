package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// Menu returns the navigation tree filtered for the caller's role.
//
// @Summary      Navigation menu
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MenuItem
// @Failure      401  {object}  errorResponse
// @Router       /v1/menu [get]
func (h *MenuHandler) Menu(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	items := h.service.Menu(session)
	if items == nil {
		items = []domain.MenuItem{}
	}
	return c.JSON(http.StatusOK, items)
}
