package ports

import (
	"context"
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

// OrderItemInput references a catalog functionality and a quantity.
type OrderItemInput struct {
	FunctionalityID string
	Quantity        int
}

// InstallmentInput is a caller-edited schedule line.
type InstallmentInput struct {
	Amount  billing.Amount
	DueDate time.Time
}

// CreateOrderInput carries all data needed to create a service order.
// When Installments is empty the schedule is allocated from
// InstallmentCount and IntervalDays.
type CreateOrderInput struct {
	Session          *domain.Session
	ClientID         string
	Items            []OrderItemInput
	ContractDate     time.Time
	InstallmentCount int
	IntervalDays     int
	Installments     []InstallmentInput
	Notes            string
	IdempotencyKey   string
}

// OrderResult is returned after creating an order.
type OrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// PreviewInput describes a schedule to compute without persisting it.
type PreviewInput struct {
	Total            billing.Amount
	InstallmentCount int
	ContractDate     time.Time
	IntervalDays     int
}

// EditInstallmentInput sets one installment and rebalances the rest.
type EditInstallmentInput struct {
	Session     *domain.Session
	OrderNumber string
	Sequence    int
	Amount      billing.Amount
}

// ChangeStatusInput moves an order through its lifecycle.
type ChangeStatusInput struct {
	Session     *domain.Session
	OrderNumber string
	Status      domain.OrderStatus
}

// ListOrdersInput carries all parameters for the list endpoint.
type ListOrdersInput struct {
	Session  *domain.Session
	Status   string
	ClientID string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines use-case operations for service orders.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error)
	GetOrder(ctx context.Context, session *domain.Session, number string) (*domain.Order, error)
	ListOrders(ctx context.Context, in ListOrdersInput) (*ListOrdersResult, error)
	PreviewInstallments(in PreviewInput) ([]billing.Installment, error)
	EditInstallment(ctx context.Context, in EditInstallmentInput) (*domain.Order, error)
	ChangeStatus(ctx context.Context, in ChangeStatusInput) (*domain.Order, error)
}
