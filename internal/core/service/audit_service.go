package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/api/metrics"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

type auditService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.EventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single order event.
func (s *auditService) Record(ctx context.Context, event domain.OrderEvent) error {
	if event.OrderNumber == "" || event.Kind == "" {
		return fmt.Errorf("record event: incomplete event for order %q", event.OrderNumber)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		return fmt.Errorf("record event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Kind)).Inc()
	s.log.Debug().
		Str("order", event.OrderNumber).
		Str("kind", string(event.Kind)).
		Str("actor", event.Actor).
		Msg("audit event recorded")

	return nil
}
