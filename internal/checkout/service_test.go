package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/meridianpress/meridian-backend/internal/cart"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type stubCarts struct {
	state    *cart.State
	loadErr  error
	clearErr error
	cleared  int
}

func (s *stubCarts) Load(context.Context, string) (*cart.State, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.state, nil
}

func (s *stubCarts) Clear(context.Context, string) (*cart.State, error) {
	s.cleared++
	if s.clearErr != nil {
		return nil, s.clearErr
	}
	s.state = &cart.State{Items: []cart.Item{}}
	return s.state, nil
}

func newTestService(t *testing.T, carts *stubCarts) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(carts, "https://shop.example.com/checkout", logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func price(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestHandoffUsesFirstItemDestination(t *testing.T) {
	carts := &stubCarts{state: &cart.State{Items: []cart.Item{
		{ID: "mag-1", Price: price("18.00"), CheckoutURL: "https://shop.example.com/checkout/mag-1"},
		{ID: "mag-2", Price: price("9.50"), CheckoutURL: "https://shop.example.com/checkout/mag-2"},
	}}}
	svc := newTestService(t, carts)

	conf, err := svc.Handoff(context.Background(), "v1", "Reader@Example.com")
	if err != nil {
		t.Fatalf("Handoff: %v", err)
	}
	if conf.CheckoutURL != "https://shop.example.com/checkout/mag-1" {
		t.Fatalf("destination = %q, want first item's url", conf.CheckoutURL)
	}
	if !conf.Total.Equal(price("27.50")) {
		t.Fatalf("total = %s, want 27.50", conf.Total)
	}
	if conf.DeliveryEmail != "reader@example.com" {
		t.Fatalf("delivery email = %q", conf.DeliveryEmail)
	}
	if conf.ItemCount != 2 {
		t.Fatalf("item count = %d", conf.ItemCount)
	}
	if carts.cleared != 1 {
		t.Fatalf("cart cleared %d times, want 1", carts.cleared)
	}
}

func TestHandoffFallsBackToConfiguredURL(t *testing.T) {
	carts := &stubCarts{state: &cart.State{Items: []cart.Item{
		{ID: "mag-3", Price: price("12.00")},
	}}}
	svc := newTestService(t, carts)

	conf, err := svc.Handoff(context.Background(), "v1", "reader@example.com")
	if err != nil {
		t.Fatalf("Handoff: %v", err)
	}
	if conf.CheckoutURL != "https://shop.example.com/checkout" {
		t.Fatalf("destination = %q, want configured fallback", conf.CheckoutURL)
	}
}

func TestHandoffEmptyCartRejected(t *testing.T) {
	carts := &stubCarts{state: &cart.State{Items: []cart.Item{}}}
	svc := newTestService(t, carts)

	_, err := svc.Handoff(context.Background(), "v1", "reader@example.com")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if carts.cleared != 0 {
		t.Fatal("empty-cart handoff must not clear anything")
	}
}

func TestHandoffRequiresDeliveryEmail(t *testing.T) {
	carts := &stubCarts{state: &cart.State{Items: []cart.Item{{ID: "mag-1", Price: price("5.00")}}}}
	svc := newTestService(t, carts)

	_, err := svc.Handoff(context.Background(), "v1", "  ")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandoffSurvivesClearFailure(t *testing.T) {
	carts := &stubCarts{
		state:    &cart.State{Items: []cart.Item{{ID: "mag-1", Price: price("5.00")}}},
		clearErr: fmt.Errorf("redis down"),
	}
	svc := newTestService(t, carts)

	conf, err := svc.Handoff(context.Background(), "v1", "reader@example.com")
	if err != nil {
		t.Fatalf("Handoff must succeed even when the clear fails: %v", err)
	}
	if conf == nil || conf.ItemCount != 1 {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
}
