package handler

import (
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

const dateLayout = "2006-01-02"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name       string `json:"name"        validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8"`
	Role       string `json:"role"        validate:"required"`
	SuperAdmin bool   `json:"super_admin"`
	TenantID   string `json:"tenant_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	SuperAdmin bool      `json:"super_admin"`
	TenantID   string    `json:"tenant_id"`
	ClientID   string    `json:"client_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type meResponse struct {
	UserID     string            `json:"user_id"`
	Email      string            `json:"email"`
	Role       string            `json:"role"`
	SuperAdmin bool              `json:"super_admin"`
	TenantID   string            `json:"tenant_id"`
	ClientID   string            `json:"client_id,omitempty"`
	Menu       []domain.MenuItem `json:"menu"`
}

// --- Catalog ---

type createClientRequest struct {
	Name     string `json:"name"     validate:"required"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

type createFunctionalityRequest struct {
	Name        string         `json:"name"        validate:"required"`
	Description string         `json:"description"`
	Price       billing.Amount `json:"price"       validate:"gte=0"`
}

// --- Orders ---

type orderItemRequest struct {
	FunctionalityID string `json:"functionality_id" validate:"required"`
	Quantity        int    `json:"quantity"         validate:"required,min=1,max=100000"`
}

type installmentRequest struct {
	Amount  billing.Amount `json:"amount"             validate:"gte=0"`
	DueDate string         `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type createOrderRequest struct {
	ClientID         string               `json:"client_id"                 validate:"required"`
	Items            []orderItemRequest   `json:"items"                     validate:"required,min=1,dive"`
	ContractDate     string               `json:"contract_date,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	InstallmentCount int                  `json:"installment_count,omitempty" validate:"omitempty,min=1,max=120"`
	IntervalDays     int                  `json:"interval_days,omitempty"   validate:"omitempty,min=1,max=365"`
	Installments     []installmentRequest `json:"installments,omitempty"    validate:"omitempty,max=120,dive"`
	Notes            string               `json:"notes,omitempty"           validate:"max=2000"`
}

type previewRequest struct {
	Total            billing.Amount `json:"total"                   validate:"gte=0"`
	InstallmentCount int            `json:"installment_count"       validate:"required,min=1,max=120"`
	ContractDate     string         `json:"contract_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IntervalDays     int            `json:"interval_days,omitempty" validate:"omitempty,min=1,max=365"`
}

type editInstallmentRequest struct {
	Amount billing.Amount `json:"amount"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid cancelled"`
}

type orderLinks struct {
	Self string `json:"self"`
}

type orderItemResponse struct {
	FunctionalityID string         `json:"functionality_id"`
	Name            string         `json:"name"`
	Quantity        int            `json:"quantity"`
	UnitPrice       billing.Amount `json:"unit_price"`
	Subtotal        billing.Amount `json:"subtotal"`
}

type installmentResponse struct {
	Sequence int            `json:"sequence"`
	Amount   billing.Amount `json:"amount"`
	DueDate  string         `json:"due_date"`
}

type orderResponse struct {
	Number       string                `json:"number"`
	ClientID     string                `json:"client_id"`
	Status       string                `json:"status"`
	Total        billing.Amount        `json:"total"`
	ContractDate string                `json:"contract_date"`
	Items        []orderItemResponse   `json:"items"`
	Installments []installmentResponse `json:"installments"`
	Notes        string                `json:"notes,omitempty"`
	CreatedBy    string                `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Links        orderLinks            `json:"_links"`
}

type listOrdersResponse struct {
	Items      []orderResponse `json:"items"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

type previewResponse struct {
	Total        billing.Amount        `json:"total"`
	Installments []installmentResponse `json:"installments"`
}
