package ports

import (
	"context"
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
)

// OrderScope restricts order queries. Empty fields disable that filter.
type OrderScope struct {
	TenantID string
	ClientID string
}

// ListOrdersFilter carries all query parameters for listing orders.
type ListOrdersFilter struct {
	Scope    OrderScope
	Status   string    // optional
	ClientID string    // optional, staff-side filter
	DateFrom time.Time // optional: contract_date >= DateFrom
	DateTo   time.Time // optional: contract_date <= DateTo
	Page     int       // 1-based
	Limit    int       // capped at 100 by the service
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create reports domain.ErrDuplicateIdempotencyKey when the tenant
	// already has an order with o.IdempotencyKey.
	Create(ctx context.Context, o *domain.Order) error
	FindByNumber(ctx context.Context, number string, scope OrderScope) (*domain.Order, error)
	// FindByIdempotencyKey returns domain.ErrOrderNotFound when the tenant has
	// no order for key.
	FindByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// UpdateInstallments replaces the schedule of an open order.
	UpdateInstallments(ctx context.Context, number string, installments []billing.Installment, at time.Time) error
	UpdateStatus(ctx context.Context, number string, status domain.OrderStatus, at time.Time) error
}

// IdempotencyStore remembers which order a client-supplied key produced.
//
// Reserve claims a free key before the order exists. When the key is taken
// it returns reserved=false with the stored order number, or an empty number
// while the first request is still creating its order. Complete points a
// reserved key at the new order; Release frees it after a failed create.
type IdempotencyStore interface {
	Reserve(ctx context.Context, tenantID, key string) (reserved bool, orderNumber string, err error)
	Complete(ctx context.Context, tenantID, key, orderNumber string) error
	Release(ctx context.Context, tenantID, key string) error
}
