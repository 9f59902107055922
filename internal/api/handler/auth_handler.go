package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	menu        ports.MenuService
}

func NewAuthHandler(authService ports.AuthService, menu ports.MenuService) *AuthHandler {
	return &AuthHandler{authService: authService, menu: menu}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// Unknown e-mail and wrong password look the same to the caller.
			return domain.ErrInvalidCredentials
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// CreateUser registers a back-office account. Only super admins may create
// super admins or users of another tenant.
//
// @Summary      Create a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tenantID := req.TenantID
	if !session.SuperAdmin {
		if req.SuperAdmin || (tenantID != "" && tenantID != session.TenantID) {
			return domain.ErrForbidden
		}
		tenantID = session.TenantID
	}
	if tenantID == "" {
		tenantID = session.TenantID
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		SuperAdmin: req.SuperAdmin,
		TenantID:   tenantID,
		ClientID:   req.ClientID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Me returns the identity carried by the caller's token and the navigation
// entries it may see.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	menu := []domain.MenuItem{}
	if h.menu != nil {
		if items := h.menu.Menu(session); items != nil {
			menu = items
		}
	}
	return c.JSON(http.StatusOK, meResponse{
		UserID:     session.UserID,
		Email:      session.Email,
		Role:       string(session.Role),
		SuperAdmin: session.SuperAdmin,
		TenantID:   session.TenantID,
		ClientID:   session.ClientID,
		Menu:       menu,
	})
}
