package ports

import (
	"context"

	"github.com/servicedesk/backoffice/internal/core/domain"
)

// EventRepository persists the order audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}

// AuditService records order events.
type AuditService interface {
	Record(ctx context.Context, event domain.OrderEvent) error
}

// EventPublisher hands order events to the asynchronous audit pipeline.
type EventPublisher interface {
	Publish(event domain.OrderEvent)
}
