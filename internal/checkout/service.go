package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridianpress/meridian-backend/internal/cart"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

// Confirmation is everything the storefront needs to hand the visitor to the
// external checkout: where to send them, what they owe, and where the issues
// will be delivered.
type Confirmation struct {
	CheckoutURL   string          `json:"checkout_url"`
	Total         decimal.Decimal `json:"total"`
	DeliveryEmail string          `json:"delivery_email"`
	ItemCount     int             `json:"item_count"`
}

type cartAccess interface {
	Load(ctx context.Context, visitorID string) (*cart.State, error)
	Clear(ctx context.Context, visitorID string) (*cart.State, error)
}

// Service performs the checkout handoff.
type Service interface {
	Handoff(ctx context.Context, visitorID, deliveryEmail string) (*Confirmation, error)
}

type service struct {
	carts       cartAccess
	fallbackURL string
	logg        *logger.Logger
}

// NewService builds a checkout service. fallbackURL is used when no item in
// the cart carries its own checkout destination.
func NewService(carts cartAccess, fallbackURL string, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if fallbackURL == "" {
		return nil, fmt.Errorf("fallback checkout url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carts: carts, fallbackURL: fallbackURL, logg: logg}, nil
}

// Handoff resolves the checkout destination for the visitor's cart and clears
// the cart once the confirmation is built. The destination is the first
// item's checkout URL; the whole cart is always handed to that one
// destination even when items name different URLs. Items without a URL fall
// back to the configured storefront checkout.
func (s *service) Handoff(ctx context.Context, visitorID, deliveryEmail string) (*Confirmation, error) {
	deliveryEmail = strings.TrimSpace(strings.ToLower(deliveryEmail))
	if deliveryEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery email is required")
	}
	state, err := s.carts.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if len(state.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	destination := state.Items[0].CheckoutURL
	if destination == "" {
		destination = s.fallbackURL
	}

	confirmation := &Confirmation{
		CheckoutURL:   destination,
		Total:         state.Total(),
		DeliveryEmail: deliveryEmail,
		ItemCount:     len(state.Items),
	}

	if _, err := s.carts.Clear(ctx, visitorID); err != nil {
		// The visitor is already on their way to checkout; a stale cart is
		// recoverable, a failed handoff is not.
		s.logg.Error(ctx, "cart clear after handoff failed", err)
	}
	return confirmation, nil
}
