package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubCartService struct {
	view     *cartsvc.View
	summary  *cartsvc.Summary
	err      error
	lastAdd  uuid.UUID
	lastQty  int
	merged   bool
	lastFrom string
}

func (s *stubCartService) Add(ctx context.Context, owner cartsvc.Owner, productID uuid.UUID, quantity int) error {
	s.lastAdd = productID
	s.lastQty = quantity
	return s.err
}

func (s *stubCartService) Remove(ctx context.Context, owner cartsvc.Owner, productID uuid.UUID) error {
	return s.err
}

func (s *stubCartService) Adjust(ctx context.Context, owner cartsvc.Owner, productID uuid.UUID, delta int) error {
	return s.err
}

func (s *stubCartService) List(ctx context.Context, owner cartsvc.Owner) (*cartsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func (s *stubCartService) Summary(ctx context.Context, owner cartsvc.Owner) (*cartsvc.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubCartService) MergeOnLogin(ctx context.Context, sessionToken string, accountID uuid.UUID) error {
	s.merged = true
	s.lastFrom = sessionToken
	return s.err
}

func (s *stubCartService) Clear(ctx context.Context, owner cartsvc.Owner) error {
	return s.err
}

func guestRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionToken(req.Context(), "sess-1"))
}

func TestCartFetchAsGuest(t *testing.T) {
	view := &cartsvc.View{
		Lines: []cartsvc.Line{{ProductID: uuid.New(), Title: "widget", UnitPrice: 900, Quantity: 2, LineTotal: 1800}},
		Total: 1800,
	}
	handler := CartFetch(&stubCartService{view: view}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 1800 || len(envelope.Data.Lines) != 1 {
		t.Fatalf("unexpected view: %+v", envelope.Data)
	}
}

func TestCartFetchWithoutIdentity(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddCreatesLine(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartAdd(svc, nil)

	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastAdd != productID || svc.lastQty != 2 {
		t.Fatalf("service called with %s qty %d", svc.lastAdd, svc.lastQty)
	}
}

func TestCartAddRejectsUnknownFields(t *testing.T) {
	handler := CartAdd(&stubCartService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", `{"product":"nope"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAdd(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartMergeRequiresSessionHeader(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartMerge(svc, nil)

	accountID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil)
	req = req.WithContext(middleware.WithAccountID(req.Context(), accountID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil)
	req.Header.Set("X-Session-Token", "sess-1")
	req = req.WithContext(middleware.WithAccountID(req.Context(), accountID.String()))

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.merged || svc.lastFrom != "sess-1" {
		t.Fatalf("merge called with %q (merged=%v)", svc.lastFrom, svc.merged)
	}
}
