package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	paymentsvc "github.com/angelmondragon/storefront-backend/internal/payment"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubPaymentService struct {
	receipt  *paymentsvc.Receipt
	status   *paymentsvc.StatusView
	err      error
	lastCard string
}

func (s *stubPaymentService) Submit(ctx context.Context, accountID, orderID uuid.UUID, cardNumber string) (*paymentsvc.Receipt, error) {
	s.lastCard = cardNumber
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func (s *stubPaymentService) Settle(ctx context.Context, orderID uuid.UUID, cardNumber string) error {
	return s.err
}

func (s *stubPaymentService) Status(ctx context.Context, accountID, orderID uuid.UUID) (*paymentsvc.StatusView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.status, nil
}

func withOrderParam(req *http.Request, orderID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPaymentSubmitAccepted(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentService{receipt: &paymentsvc.Receipt{OrderID: orderID, Status: "confirming", StatusCode: 3}}
	handler := PaymentSubmit(svc, nil)

	req := memberRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment",
		`{"card_number":"1234"}`, uuid.New())
	req = withOrderParam(req, orderID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d", resp.Code)
	}
	if svc.lastCard != "1234" {
		t.Fatalf("card forwarded as %q", svc.lastCard)
	}

	var envelope struct {
		Data paymentsvc.Receipt `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "confirming" {
		t.Fatalf("receipt status %s", envelope.Data.Status)
	}
}

func TestPaymentSubmitConflict(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentService{err: pkgerrors.New(pkgerrors.CodeConflict, "order is not awaiting payment")}
	handler := PaymentSubmit(svc, nil)

	req := memberRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment",
		`{"card_number":"1234"}`, uuid.New())
	req = withOrderParam(req, orderID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestPaymentStatusReportsOutcome(t *testing.T) {
	orderID := uuid.New()
	reason := "Card expired"
	svc := &stubPaymentService{status: &paymentsvc.StatusView{
		OrderID:      orderID,
		Status:       "unpaid",
		StatusCode:   2,
		PaymentError: &reason,
	}}
	handler := PaymentStatus(svc, nil)

	req := memberRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/payment", "", uuid.New())
	req = withOrderParam(req, orderID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data paymentsvc.StatusView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.StatusCode != 2 || envelope.Data.PaymentError == nil {
		t.Fatalf("status view %+v", envelope.Data)
	}
}

func TestPaymentSubmitInvalidOrderID(t *testing.T) {
	handler := PaymentSubmit(&stubPaymentService{}, nil)

	req := memberRequest(http.MethodPost, "/api/v1/orders/not-a-uuid/payment",
		`{"card_number":"1234"}`, uuid.New())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
