package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
	"github.com/meridianpress/meridian-backend/pkg/redis"
)

// Item is a single magazine issue held in a visitor's cart. Items are keyed
// by ID; adding an issue that is already present leaves the cart unchanged.
type Item struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	CoverImage  string          `json:"cover_image,omitempty"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
}

// State is the full persisted cart snapshot for one visitor, including the
// drawer visibility flag so the cart reopens the way the visitor left it.
type State struct {
	Items []Item `json:"items"`
	Open  bool   `json:"open"`
}

// Total sums the item prices.
func (s *State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Price)
	}
	return total
}

func (s *State) contains(itemID string) bool {
	for _, item := range s.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	VisitorCartKey(visitorID string) string
}

// Service exposes per-visitor cart operations.
type Service interface {
	Load(ctx context.Context, visitorID string) (*State, error)
	Add(ctx context.Context, visitorID string, item Item) (*State, error)
	Remove(ctx context.Context, visitorID, itemID string) (*State, error)
	Clear(ctx context.Context, visitorID string) (*State, error)
	SetOpen(ctx context.Context, visitorID string, open bool) (*State, error)
}

type service struct {
	store stateStore
	logg  *logger.Logger
}

// NewService builds a cart service backed by the provided visitor state store.
func NewService(store stateStore, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, logg: logg}, nil
}

// Load returns the visitor's persisted cart. A missing key yields an empty
// cart; so do storage failures and unreadable snapshots, because a broken
// cart must never block browsing.
func (s *service) Load(ctx context.Context, visitorID string) (*State, error) {
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	raw, err := s.store.Get(ctx, s.store.VisitorCartKey(visitorID))
	if err != nil {
		if !redis.IsNotFound(err) {
			s.logg.Warn(ctx, "cart load failed, serving empty cart")
		}
		return emptyState(), nil
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logg.Warn(ctx, "cart snapshot unreadable, serving empty cart")
		return emptyState(), nil
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	return &state, nil
}

// Add puts an issue in the cart and opens the drawer. Adding an issue that
// is already present only opens the drawer.
func (s *service) Add(ctx context.Context, visitorID string, item Item) (*State, error) {
	if item.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if item.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must be non-negative")
	}
	state, err := s.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if !state.contains(item.ID) {
		state.Items = append(state.Items, item)
	}
	state.Open = true
	if err := s.persist(ctx, visitorID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Remove drops an issue from the cart. Removing an absent issue is a no-op.
func (s *service) Remove(ctx context.Context, visitorID, itemID string) (*State, error) {
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	state, err := s.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	kept := state.Items[:0]
	for _, item := range state.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	state.Items = kept
	if err := s.persist(ctx, visitorID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Clear drops the persisted cart entirely, typically after a completed
// checkout handoff.
func (s *service) Clear(ctx context.Context, visitorID string) (*State, error) {
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	if err := s.store.Del(ctx, s.store.VisitorCartKey(visitorID)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return emptyState(), nil
}

// SetOpen persists the drawer visibility flag.
func (s *service) SetOpen(ctx context.Context, visitorID string, open bool) (*State, error) {
	state, err := s.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	state.Open = open
	if err := s.persist(ctx, visitorID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) persist(ctx context.Context, visitorID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.VisitorCartKey(visitorID), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func emptyState() *State {
	return &State{Items: []Item{}}
}
