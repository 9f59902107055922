package domain

import (
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
)

// OrderStatus represents the lifecycle state of a service order.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderOpen: {OrderPaid, OrderCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is one billed functionality on an order, priced from the catalog.
type OrderItem struct {
	FunctionalityID string         `json:"functionality_id" bson:"functionality_id"`
	Name            string         `json:"name" bson:"name"`
	Quantity        int            `json:"quantity" bson:"quantity"`
	UnitPrice       billing.Amount `json:"unit_price" bson:"unit_price"`
	Subtotal        billing.Amount `json:"subtotal" bson:"subtotal"`
}

// Order is the service-order aggregate: billed items plus the installment
// schedule. Installments always sum to Total.
type Order struct {
	ID             string                `json:"id" bson:"_id"`
	Number         string                `json:"number" bson:"number"`
	TenantID       string                `json:"tenant_id" bson:"tenant_id"`
	ClientID       string                `json:"client_id" bson:"client_id"`
	Items          []OrderItem           `json:"items" bson:"items"`
	Total          billing.Amount        `json:"total" bson:"total"`
	ContractDate   time.Time             `json:"contract_date" bson:"contract_date"`
	Installments   []billing.Installment `json:"installments" bson:"installments"`
	Status         OrderStatus           `json:"status" bson:"status"`
	Notes          string                `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy      string                `json:"created_by" bson:"created_by"`
	IdempotencyKey string                `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" bson:"updated_at"`
}
