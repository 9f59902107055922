package handler

import (
	"fmt"
	"time"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

// --- Request → Service input ---

func toCreateOrderInput(req createOrderRequest, session *domain.Session, idempotencyKey string) (ports.CreateOrderInput, error) {
	contractDate, err := parseDate(req.ContractDate)
	if err != nil {
		return ports.CreateOrderInput{}, err
	}

	items := make([]ports.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = ports.OrderItemInput{FunctionalityID: it.FunctionalityID, Quantity: it.Quantity}
	}

	var installments []ports.InstallmentInput
	for _, in := range req.Installments {
		due, err := parseDate(in.DueDate)
		if err != nil {
			return ports.CreateOrderInput{}, err
		}
		installments = append(installments, ports.InstallmentInput{Amount: in.Amount, DueDate: due})
	}

	return ports.CreateOrderInput{
		Session:          session,
		ClientID:         req.ClientID,
		Items:            items,
		ContractDate:     contractDate,
		InstallmentCount: req.InstallmentCount,
		IntervalDays:     req.IntervalDays,
		Installments:     installments,
		Notes:            req.Notes,
		IdempotencyKey:   idempotencyKey,
	}, nil
}

func toPreviewInput(req previewRequest) (ports.PreviewInput, error) {
	contractDate, err := parseDate(req.ContractDate)
	if err != nil {
		return ports.PreviewInput{}, err
	}
	return ports.PreviewInput{
		Total:            req.Total,
		InstallmentCount: req.InstallmentCount,
		ContractDate:     contractDate,
		IntervalDays:     req.IntervalDays,
	}, nil
}

// parseDate accepts YYYY-MM-DD; empty input yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidOrder, s)
	}
	return t, nil
}

// --- Domain → Response ---

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			FunctionalityID: it.FunctionalityID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Subtotal:        it.Subtotal,
		}
	}

	return orderResponse{
		Number:       o.Number,
		ClientID:     o.ClientID,
		Status:       string(o.Status),
		Total:        o.Total,
		ContractDate: o.ContractDate.UTC().Format(dateLayout),
		Items:        items,
		Installments: toInstallmentResponses(o.Installments),
		Notes:        o.Notes,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Links:        orderLinks{Self: "/v1/orders/" + o.Number},
	}
}

func toInstallmentResponses(installments []billing.Installment) []installmentResponse {
	out := make([]installmentResponse, len(installments))
	for i, in := range installments {
		out[i] = installmentResponse{
			Sequence: in.Sequence,
			Amount:   in.Amount,
			DueDate:  in.DueDate.UTC().Format(dateLayout),
		}
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		SuperAdmin: u.SuperAdmin,
		TenantID:   u.TenantID,
		ClientID:   u.ClientID,
		CreatedAt:  u.CreatedAt,
	}
}
