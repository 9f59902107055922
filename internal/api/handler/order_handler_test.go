package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

type stubOrderService struct {
	createFn  func(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error)
	getFn     func(ctx context.Context, session *domain.Session, number string) (*domain.Order, error)
	listFn    func(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error)
	previewFn func(in ports.PreviewInput) ([]billing.Installment, error)
	editFn    func(ctx context.Context, in ports.EditInstallmentInput) (*domain.Order, error)
	statusFn  func(ctx context.Context, in ports.ChangeStatusInput) (*domain.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) GetOrder(ctx context.Context, session *domain.Session, number string) (*domain.Order, error) {
	return s.getFn(ctx, session, number)
}

func (s *stubOrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubOrderService) PreviewInstallments(in ports.PreviewInput) ([]billing.Installment, error) {
	return s.previewFn(in)
}

func (s *stubOrderService) EditInstallment(ctx context.Context, in ports.EditInstallmentInput) (*domain.Order, error) {
	return s.editFn(ctx, in)
}

func (s *stubOrderService) ChangeStatus(ctx context.Context, in ports.ChangeStatusInput) (*domain.Order, error) {
	return s.statusFn(ctx, in)
}

var reviewer = &domain.Session{UserID: "u1", Role: domain.RoleManagerReviewers, TenantID: "tenant_1"}

func sampleOrder() *domain.Order {
	contract := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &domain.Order{
		Number:       "OS-7A8B9C2D",
		TenantID:     "tenant_1",
		ClientID:     "client_1",
		Status:       domain.OrderOpen,
		Total:        10000,
		ContractDate: contract,
		Items: []domain.OrderItem{
			{FunctionalityID: "f_review", Name: "Review", Quantity: 1, UnitPrice: 10000, Subtotal: 10000},
		},
		Installments: []billing.Installment{
			{Sequence: 1, Amount: 3333, DueDate: contract},
			{Sequence: 2, Amount: 3333, DueDate: contract.AddDate(0, 0, 30)},
			{Sequence: 3, Amount: 3334, DueDate: contract.AddDate(0, 0, 60)},
		},
	}
}

func TestOrderHandler_Create(t *testing.T) {
	var got ports.CreateOrderInput
	stub := &stubOrderService{
		createFn: func(_ context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error) {
			got = in
			return &ports.OrderResult{Order: sampleOrder()}, nil
		},
	}
	handler := NewOrderHandler(stub)

	body := `{"client_id":"client_1","items":[{"functionality_id":"f_review","quantity":1}],"contract_date":"2026-01-10","installment_count":3}`
	c, rec := newTestContext(http.MethodPost, "/v1/orders", body, reviewer)
	c.Request().Header.Set("Idempotency-Key", "key-1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.IdempotencyKey != "key-1" || got.InstallmentCount != 3 || got.Session != reviewer {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.ContractDate.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("contract date not parsed: %v", got.ContractDate)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != 100.0 {
		t.Errorf("expected total 100, got %v", resp["total"])
	}
	installments := resp["installments"].([]any)
	last := installments[2].(map[string]any)
	if last["amount"] != 33.34 || last["due_date"] != "2026-03-11" {
		t.Errorf("unexpected last installment: %v", last)
	}
	links := resp["_links"].(map[string]any)
	if links["self"] != "/v1/orders/OS-7A8B9C2D" {
		t.Errorf("unexpected self link: %v", links["self"])
	}
}

func TestOrderHandler_Create_Replay(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(context.Context, ports.CreateOrderInput) (*ports.OrderResult, error) {
			return &ports.OrderResult{Order: sampleOrder(), AlreadyExisted: true}, nil
		},
	}
	handler := NewOrderHandler(stub)

	body := `{"client_id":"client_1","items":[{"functionality_id":"f_review","quantity":1}]}`
	c, rec := newTestContext(http.MethodPost, "/v1/orders", body, reviewer)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}
}

func TestOrderHandler_Create_CustomInstallments(t *testing.T) {
	var got ports.CreateOrderInput
	stub := &stubOrderService{
		createFn: func(_ context.Context, in ports.CreateOrderInput) (*ports.OrderResult, error) {
			got = in
			return &ports.OrderResult{Order: sampleOrder()}, nil
		},
	}
	handler := NewOrderHandler(stub)

	body := `{"client_id":"client_1","items":[{"functionality_id":"f_review","quantity":1}],
		"installments":[{"amount":50,"due_date":"2026-02-01"},{"amount":50.00}]}`
	c, _ := newTestContext(http.MethodPost, "/v1/orders", body, reviewer)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := []ports.InstallmentInput{
		{Amount: 5000, DueDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 5000},
	}
	if diff := cmp.Diff(want, got.Installments); diff != "" {
		t.Errorf("installments mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderHandler_Create_Validation(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(context.Context, ports.CreateOrderInput) (*ports.OrderResult, error) {
			t.Fatal("CreateOrder must not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	cases := map[string]string{
		"missing client":    `{"items":[{"functionality_id":"f","quantity":1}]}`,
		"no items":          `{"client_id":"c","items":[]}`,
		"zero quantity":     `{"client_id":"c","items":[{"functionality_id":"f","quantity":0}]}`,
		"bad contract date": `{"client_id":"c","items":[{"functionality_id":"f","quantity":1}],"contract_date":"10/01/2026"}`,
		"too many parts":    `{"client_id":"c","items":[{"functionality_id":"f","quantity":1}],"installment_count":121}`,
		"huge quantity":     `{"client_id":"c","items":[{"functionality_id":"f","quantity":100001}]}`,
	}
	for name, body := range cases {
		c, _ := newTestContext(http.MethodPost, "/v1/orders", body, reviewer)
		if code := httpStatus(t, handler.Create(c)); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, code)
		}
	}
}

func TestOrderHandler_Preview(t *testing.T) {
	stub := &stubOrderService{
		previewFn: func(in ports.PreviewInput) ([]billing.Installment, error) {
			return billing.Allocate(in.Total, in.InstallmentCount, in.ContractDate, billing.EveryDays(30))
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/installments/preview", `{"total":100,"installment_count":3,"contract_date":"2026-01-10"}`, reviewer)
	if err := handler.Preview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Total        float64 `json:"total"`
		Installments []struct {
			Sequence int     `json:"sequence"`
			Amount   float64 `json:"amount"`
		} `json:"installments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	var amounts []float64
	for _, in := range resp.Installments {
		amounts = append(amounts, in.Amount)
	}
	if diff := cmp.Diff([]float64{33.33, 33.33, 33.34}, amounts); diff != "" {
		t.Errorf("amounts mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderHandler_Preview_ServiceError(t *testing.T) {
	stub := &stubOrderService{
		previewFn: func(ports.PreviewInput) ([]billing.Installment, error) {
			return nil, billing.ErrNegativeAmount
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/v1/installments/preview", `{"total":0,"installment_count":2}`, reviewer)
	if err := handler.Preview(c); !errors.Is(err, billing.ErrNegativeAmount) {
		t.Fatalf("expected service error to pass through, got %v", err)
	}
}

func TestOrderHandler_List_QueryParsing(t *testing.T) {
	var got ports.ListOrdersInput
	stub := &stubOrderService{
		listFn: func(_ context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
			got = in
			return &ports.ListOrdersResult{Items: []*domain.Order{sampleOrder()}, Total: 21, Page: 2, Limit: 10, TotalPages: 3}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/v1/orders?status=open&client_id=client_1&from=2026-01-01&to=2026-01-31&page=2&limit=10", "", reviewer)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := ports.ListOrdersInput{
		Session:  reviewer,
		Status:   "open",
		ClientID: "client_1",
		DateFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Page:     2,
		Limit:    10,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("list input mismatch (-want +got):\n%s", diff)
	}

	var resp listOrdersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 21 || resp.TotalPages != 3 || len(resp.Items) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestOrderHandler_List_BadDate(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{})

	c, _ := newTestContext(http.MethodGet, "/v1/orders?from=yesterday", "", reviewer)
	if err := handler.List(c); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestOrderHandler_EditInstallment(t *testing.T) {
	var got ports.EditInstallmentInput
	stub := &stubOrderService{
		editFn: func(_ context.Context, in ports.EditInstallmentInput) (*domain.Order, error) {
			got = in
			return sampleOrder(), nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/", `{"amount":40}`, reviewer)
	c.SetParamNames("number", "sequence")
	c.SetParamValues("OS-7A8B9C2D", "2")

	if err := handler.EditInstallment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.OrderNumber != "OS-7A8B9C2D" || got.Sequence != 2 || got.Amount != 4000 {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestOrderHandler_EditInstallment_BadSequence(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{})

	c, _ := newTestContext(http.MethodPut, "/", `{"amount":40}`, reviewer)
	c.SetParamNames("number", "sequence")
	c.SetParamValues("OS-7A8B9C2D", "second")

	if code := httpStatus(t, handler.EditInstallment(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestOrderHandler_ChangeStatus(t *testing.T) {
	var got ports.ChangeStatusInput
	stub := &stubOrderService{
		statusFn: func(_ context.Context, in ports.ChangeStatusInput) (*domain.Order, error) {
			got = in
			o := sampleOrder()
			o.Status = in.Status
			return o, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPatch, "/", `{"status":"paid"}`, reviewer)
	c.SetParamNames("number")
	c.SetParamValues("OS-7A8B9C2D")
	if err := handler.ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status != domain.OrderPaid || rec.Code != http.StatusOK {
		t.Fatalf("unexpected result: input %+v, status %d", got, rec.Code)
	}

	c, _ = newTestContext(http.MethodPatch, "/", `{"status":"open"}`, reviewer)
	c.SetParamNames("number")
	c.SetParamValues("OS-7A8B9C2D")
	if code := httpStatus(t, handler.ChangeStatus(c)); code != http.StatusBadRequest {
		t.Fatalf("reopen: expected 400, got %d", code)
	}
}

func TestOrderHandler_Get_PassesNotFound(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(context.Context, *domain.Session, string) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(http.MethodGet, "/", "", reviewer)
	c.SetParamNames("number")
	c.SetParamValues("OS-MISSING")
	if err := handler.Get(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
