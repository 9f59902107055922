package domain

import "time"

// OrderEventKind names what happened to an order.
type OrderEventKind string

const (
	EventOrderCreated      OrderEventKind = "order_created"
	EventInstallmentEdited OrderEventKind = "installment_edited"
	EventStatusChanged     OrderEventKind = "status_changed"
)

// OrderEvent is an audit record of a change made to an order.
type OrderEvent struct {
	OrderNumber string
	TenantID    string
	Kind        OrderEventKind
	Actor       string
	Timestamp   time.Time
	Notes       string
}
