package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servicedesk/backoffice/internal/api/metrics"
	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type OrderService struct {
	orders       ports.OrderRepository
	clients      ports.ClientRepository
	catalog      ports.FunctionalityRepository
	idempotency  ports.IdempotencyStore
	events       ports.EventPublisher
	intervalDays int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewOrderService wires the order use cases. intervalDays is the default
// spacing between installments when a request does not choose one.
func NewOrderService(
	orders ports.OrderRepository,
	clients ports.ClientRepository,
	catalog ports.FunctionalityRepository,
	idempotency ports.IdempotencyStore,
	events ports.EventPublisher,
	intervalDays int,
	logger zerolog.Logger,
) *OrderService {
	if intervalDays <= 0 {
		intervalDays = 30
	}
	return &OrderService{
		orders:       orders,
		clients:      clients,
		catalog:      catalog,
		idempotency:  idempotency,
		events:       events,
		intervalDays: intervalDays,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder prices the items from the catalog, builds the installment
// schedule and stores the order. An idempotency key is reserved before the
// order is built, so a retry that arrives while the first request is still
// running gets ErrOrderInProgress and a later one gets the stored order.
func (s *OrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (_ *ports.OrderResult, err error) {
	if in.Session == nil || in.Session.TenantID == "" {
		return nil, domain.ErrForbidden
	}
	tenantID := in.Session.TenantID
	key := in.IdempotencyKey

	if key != "" {
		reserved, existing, claimErr := s.claim(ctx, tenantID, key)
		if claimErr != nil {
			return nil, claimErr
		}
		if existing != nil {
			s.logger.Info().Str("idempotency_key", key).Str("order", existing.Number).Msg("idempotent replay")
			return &ports.OrderResult{Order: existing, AlreadyExisted: true}, nil
		}
		if reserved {
			defer func() {
				if err == nil {
					return
				}
				if rerr := s.idempotency.Release(context.WithoutCancel(ctx), tenantID, key); rerr != nil {
					s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
				}
			}()
		}
	}

	order, schedule, err := s.buildOrder(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			if existing, ferr := s.orders.FindByIdempotencyKey(ctx, tenantID, key); ferr == nil {
				s.remember(ctx, tenantID, key, existing.Number)
				s.logger.Info().Str("idempotency_key", key).Str("order", existing.Number).Msg("idempotent replay")
				return &ports.OrderResult{Order: existing, AlreadyExisted: true}, nil
			}
		}
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}
	if key != "" {
		s.remember(ctx, tenantID, key, order.Number)
	}

	metrics.OrdersCreatedTotal.WithLabelValues(schedule).Inc()
	metrics.OrderInstallments.Observe(float64(len(order.Installments)))
	s.publish(order, domain.EventOrderCreated, in.Session.UserID, fmt.Sprintf("total %s in %d installments", order.Total, len(order.Installments)))

	s.logger.Info().
		Str("order", order.Number).
		Str("tenant_id", tenantID).
		Str("total", order.Total.String()).
		Int("installments", len(order.Installments)).
		Msg("order created")

	return &ports.OrderResult{Order: order}, nil
}

// claim reserves key for a new order or returns the order it already
// produced. When the store is unavailable the orders collection is searched
// instead and its unique index guards the insert.
func (s *OrderService) claim(ctx context.Context, tenantID, key string) (bool, *domain.Order, error) {
	reserved, number, err := s.idempotency.Reserve(ctx, tenantID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency store unavailable, checking stored orders")
		existing, err := s.findByKey(ctx, tenantID, key)
		return false, existing, err
	}
	if reserved {
		return true, nil, nil
	}
	if number == "" {
		return false, nil, domain.ErrOrderInProgress
	}
	existing, err := s.orders.FindByNumber(ctx, number, ports.OrderScope{TenantID: tenantID})
	if err == nil {
		return false, existing, nil
	}
	s.logger.Warn().Err(err).Str("idempotency_key", key).Str("order", number).Msg("idempotent order not found")
	existing, err = s.findByKey(ctx, tenantID, key)
	return false, existing, err
}

// findByKey returns nil without error when no order carries key.
func (s *OrderService) findByKey(ctx context.Context, tenantID, key string) (*domain.Order, error) {
	existing, err := s.orders.FindByIdempotencyKey(ctx, tenantID, key)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	return existing, err
}

func (s *OrderService) remember(ctx context.Context, tenantID, key, number string) {
	if err := s.idempotency.Complete(ctx, tenantID, key, number); err != nil {
		s.logger.Warn().Err(err).Str("order", number).Msg("failed to store idempotency key")
	}
}

// buildOrder validates the request and returns the priced order together
// with the schedule origin ("allocated" or "custom").
func (s *OrderService) buildOrder(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, string, error) {
	tenantID := in.Session.TenantID
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, "", fmt.Errorf("%w: client and at least one item are required", domain.ErrInvalidOrder)
	}
	if in.InstallmentCount > billing.MaxInstallments || len(in.Installments) > billing.MaxInstallments {
		return nil, "", fmt.Errorf("%w: at most %d installments", domain.ErrInvalidOrder, billing.MaxInstallments)
	}
	if _, err := s.clients.FindByID(ctx, in.ClientID, tenantID); err != nil {
		return nil, "", err
	}

	items, total, err := s.priceItems(ctx, tenantID, in.Items)
	if err != nil {
		return nil, "", err
	}

	contractDate := in.ContractDate
	if contractDate.IsZero() {
		contractDate = s.now()
	}
	contractDate = truncateDay(contractDate)

	schedule := "allocated"
	var installments []billing.Installment
	if len(in.Installments) > 0 {
		schedule = "custom"
		installments = make([]billing.Installment, len(in.Installments))
		for i, line := range in.Installments {
			due := line.DueDate
			if due.IsZero() {
				due = contractDate.AddDate(0, 0, s.intervalDays*i)
			}
			installments[i] = billing.Installment{Sequence: i + 1, Amount: line.Amount, DueDate: truncateDay(due)}
		}
		if err := billing.Validate(installments, total); err != nil {
			return nil, "", err
		}
	} else {
		count := in.InstallmentCount
		if count == 0 {
			count = 1
		}
		installments, err = billing.Allocate(total, count, contractDate, s.schedule(in.IntervalDays))
		if err != nil {
			return nil, "", err
		}
	}

	now := s.now()
	return &domain.Order{
		ID:             uuid.NewString(),
		Number:         generateOrderNumber(),
		TenantID:       tenantID,
		ClientID:       in.ClientID,
		Items:          items,
		Total:          total,
		ContractDate:   contractDate,
		Installments:   installments,
		Status:         domain.OrderOpen,
		Notes:          in.Notes,
		CreatedBy:      in.Session.UserID,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, schedule, nil
}

func (s *OrderService) priceItems(ctx context.Context, tenantID string, in []ports.OrderItemInput) ([]domain.OrderItem, billing.Amount, error) {
	items := make([]domain.OrderItem, 0, len(in))
	var total billing.Amount
	for _, line := range in {
		if line.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidOrder)
		}
		f, err := s.catalog.FindByID(ctx, line.FunctionalityID, tenantID)
		if err != nil {
			return nil, 0, err
		}
		if !f.Active {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrFunctionalityInactive, f.Name)
		}
		subtotal, ok := f.Price.Times(line.Quantity)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s x %d is out of range", domain.ErrInvalidOrder, f.Name, line.Quantity)
		}
		items = append(items, domain.OrderItem{
			FunctionalityID: f.ID,
			Name:            f.Name,
			Quantity:        line.Quantity,
			UnitPrice:       f.Price,
			Subtotal:        subtotal,
		})
		if total, ok = total.Plus(subtotal); !ok {
			return nil, 0, fmt.Errorf("%w: order total is out of range", domain.ErrInvalidOrder)
		}
	}
	return items, total, nil
}

// GetOrder retrieves an order visible to the session.
func (s *OrderService) GetOrder(ctx context.Context, session *domain.Session, number string) (*domain.Order, error) {
	if session == nil {
		return nil, domain.ErrForbidden
	}
	return s.orders.FindByNumber(ctx, number, scopeOf(session))
}

// ListOrders returns a page of orders visible to the session. CLIENT
// sessions are always pinned to their own client.
func (s *OrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	if in.Session == nil {
		return nil, domain.ErrForbidden
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.orders.List(ctx, ports.ListOrdersFilter{
		Scope:    scopeOf(in.Session),
		Status:   in.Status,
		ClientID: in.ClientID,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// PreviewInstallments computes a schedule without touching storage.
func (s *OrderService) PreviewInstallments(in ports.PreviewInput) ([]billing.Installment, error) {
	if in.InstallmentCount > billing.MaxInstallments {
		return nil, fmt.Errorf("%w: at most %d installments", domain.ErrInvalidOrder, billing.MaxInstallments)
	}
	contractDate := in.ContractDate
	if contractDate.IsZero() {
		contractDate = s.now()
	}
	return billing.Allocate(in.Total, in.InstallmentCount, truncateDay(contractDate), s.schedule(in.IntervalDays))
}

// EditInstallment sets one installment of an open order and rebalances the
// others so the schedule still sums to the order total.
func (s *OrderService) EditInstallment(ctx context.Context, in ports.EditInstallmentInput) (*domain.Order, error) {
	if in.Session == nil {
		return nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByNumber(ctx, in.OrderNumber, scopeOf(in.Session))
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderOpen {
		return nil, domain.ErrOrderClosed
	}

	installments, err := billing.Redistribute(order.Installments, in.Sequence-1, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("edit installment %d: %w", in.Sequence, err)
	}
	if len(installments) == 1 && installments[0].Amount != order.Total {
		return nil, fmt.Errorf("edit installment %d: %w", in.Sequence, billing.ErrScheduleMismatch)
	}

	now := s.now()
	if err := s.orders.UpdateInstallments(ctx, order.Number, installments, now); err != nil {
		return nil, fmt.Errorf("edit installment: %w", err)
	}
	order.Installments = installments
	order.UpdatedAt = now

	metrics.InstallmentsRedistributedTotal.Inc()
	s.publish(order, domain.EventInstallmentEdited, in.Session.UserID, fmt.Sprintf("installment %d set to %s", in.Sequence, in.Amount))

	s.logger.Info().
		Str("order", order.Number).
		Int("sequence", in.Sequence).
		Str("amount", in.Amount.String()).
		Msg("installment edited")

	return order, nil
}

// ChangeStatus moves an order along its lifecycle.
func (s *OrderService) ChangeStatus(ctx context.Context, in ports.ChangeStatusInput) (*domain.Order, error) {
	if in.Session == nil {
		return nil, domain.ErrForbidden
	}
	order, err := s.orders.FindByNumber(ctx, in.OrderNumber, scopeOf(in.Session))
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("change status: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, in.Status)
	}

	now := s.now()
	if err := s.orders.UpdateStatus(ctx, order.Number, in.Status, now); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}
	previous := order.Status
	order.Status = in.Status
	order.UpdatedAt = now

	metrics.OrderStatusChangesTotal.WithLabelValues(string(in.Status)).Inc()
	s.publish(order, domain.EventStatusChanged, in.Session.UserID, fmt.Sprintf("%s -> %s", previous, in.Status))

	return order, nil
}

func (s *OrderService) publish(o *domain.Order, kind domain.OrderEventKind, actor, notes string) {
	s.events.Publish(domain.OrderEvent{
		OrderNumber: o.Number,
		TenantID:    o.TenantID,
		Kind:        kind,
		Actor:       actor,
		Timestamp:   s.now(),
		Notes:       notes,
	})
}

func (s *OrderService) schedule(intervalDays int) billing.Schedule {
	if intervalDays <= 0 {
		intervalDays = s.intervalDays
	}
	return billing.EveryDays(intervalDays)
}

func scopeOf(session *domain.Session) ports.OrderScope {
	return ports.OrderScope{
		TenantID: session.TenantScope(),
		ClientID: session.ClientScope(),
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// generateOrderNumber returns a unique order number in the format OS-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("OS-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("OS-%08X", b)
}
