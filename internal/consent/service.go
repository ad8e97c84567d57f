package consent

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
	"github.com/meridianpress/meridian-backend/pkg/redis"
)

// Decision is a visitor's cookie-consent choice. Undecided means the banner
// is still showing; anything unreadable in storage also resolves to
// Undecided so the banner simply reappears.
type Decision string

const (
	Undecided Decision = ""
	Accepted  Decision = "accepted"
	Declined  Decision = "declined"
)

// Valid reports whether the decision is one a visitor can actually make.
func (d Decision) Valid() bool {
	return d == Accepted || d == Declined
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	VisitorConsentKey(visitorID string) string
}

// Service persists cookie-consent decisions per visitor.
type Service interface {
	Get(ctx context.Context, visitorID string) (Decision, error)
	Set(ctx context.Context, visitorID string, decision Decision) error
}

type service struct {
	store stateStore
	logg  *logger.Logger
}

// NewService builds a consent service.
func NewService(store stateStore, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, logg: logg}, nil
}

// Get returns the visitor's recorded decision, or Undecided when nothing
// usable is stored.
func (s *service) Get(ctx context.Context, visitorID string) (Decision, error) {
	if visitorID == "" {
		return Undecided, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	raw, err := s.store.Get(ctx, s.store.VisitorConsentKey(visitorID))
	if err != nil {
		if !redis.IsNotFound(err) {
			s.logg.Warn(ctx, "consent load failed, treating visitor as undecided")
		}
		return Undecided, nil
	}
	decision := Decision(raw)
	if !decision.Valid() {
		return Undecided, nil
	}
	return decision, nil
}

// Set records the decision. Only accepted and declined are storable; there
// is no way back to undecided.
func (s *service) Set(ctx context.Context, visitorID string, decision Decision) error {
	if visitorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	if !decision.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "decision must be accepted or declined")
	}
	if err := s.store.Set(ctx, s.store.VisitorConsentKey(visitorID), string(decision), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist consent")
	}
	return nil
}
