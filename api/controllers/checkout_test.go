package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	checkoutsvc "github.com/meridianpress/meridian-backend/internal/checkout"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
)

type testCheckoutService struct {
	handoffFn func(ctx context.Context, visitorID, deliveryEmail string) (*checkoutsvc.Confirmation, error)
}

func (s *testCheckoutService) Handoff(ctx context.Context, visitorID, deliveryEmail string) (*checkoutsvc.Confirmation, error) {
	return s.handoffFn(ctx, visitorID, deliveryEmail)
}

func TestCheckoutHandoffSuccess(t *testing.T) {
	svc := &testCheckoutService{
		handoffFn: func(_ context.Context, visitorID, deliveryEmail string) (*checkoutsvc.Confirmation, error) {
			if visitorID != "v1" {
				t.Fatalf("unexpected visitor %s", visitorID)
			}
			return &checkoutsvc.Confirmation{
				CheckoutURL:   "https://shop.example.com/checkout/mag-1",
				Total:         decimal.RequireFromString("27.50"),
				DeliveryEmail: deliveryEmail,
				ItemCount:     2,
			}, nil
		},
	}

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"delivery_email":"reader@example.com"}`)), "v1")
	resp := httptest.NewRecorder()
	CheckoutHandoff(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			CheckoutURL string `json:"checkout_url"`
			Total       string `json:"total"`
			ItemCount   int    `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.CheckoutURL != "https://shop.example.com/checkout/mag-1" || envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCheckoutHandoffEmptyCart(t *testing.T) {
	svc := &testCheckoutService{
		handoffFn: func(context.Context, string, string) (*checkoutsvc.Confirmation, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		},
	}

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"delivery_email":"reader@example.com"}`)), "v1")
	resp := httptest.NewRecorder()
	CheckoutHandoff(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCheckoutHandoffValidatesEmail(t *testing.T) {
	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"delivery_email":"nope"}`)), "v1")
	resp := httptest.NewRecorder()
	CheckoutHandoff(&testCheckoutService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
