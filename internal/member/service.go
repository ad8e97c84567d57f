package member

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/meridianpress/meridian-backend/internal/content"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
	"github.com/meridianpress/meridian-backend/pkg/redis"
)

// State is the persisted membership snapshot for one visitor. Anonymous
// visitors have no snapshot at all; a zero State means signed out.
type State struct {
	SignedIn       bool   `json:"signed_in"`
	Email          string `json:"email,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	MembershipType string `json:"membership_type,omitempty"`
	Status         string `json:"status,omitempty"`
	ModalOpen      bool   `json:"modal_open"`
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	VisitorMemberKey(visitorID string) string
}

type directory interface {
	LookupMember(ctx context.Context, email string) (*content.MemberRecord, error)
}

// Service exposes the membership gate: sign-in against the member directory,
// sign-out, and the persisted sign-in modal flag.
type Service interface {
	Current(ctx context.Context, visitorID string) (*State, error)
	Login(ctx context.Context, visitorID, email string) (bool, *State, error)
	Logout(ctx context.Context, visitorID string) error
	SetModalOpen(ctx context.Context, visitorID string, open bool) (*State, error)
}

type service struct {
	store     stateStore
	directory directory
	logg      *logger.Logger
}

// NewService builds a membership service.
func NewService(store stateStore, dir directory, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	if dir == nil {
		return nil, fmt.Errorf("member directory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, directory: dir, logg: logg}, nil
}

// Current returns the visitor's membership state. Missing or unreadable
// snapshots and storage failures all resolve to anonymous so a membership
// hiccup never locks anyone out of the public site.
func (s *service) Current(ctx context.Context, visitorID string) (*State, error) {
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	raw, err := s.store.Get(ctx, s.store.VisitorMemberKey(visitorID))
	if err != nil {
		if !redis.IsNotFound(err) {
			s.logg.Warn(ctx, "member state load failed, treating visitor as anonymous")
		}
		return &State{}, nil
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logg.Warn(ctx, "member snapshot unreadable, treating visitor as anonymous")
		return &State{}, nil
	}
	return &state, nil
}

// Login checks the email against the member directory. A match signs the
// visitor in; no match, or a directory outage, reports false and leaves the
// stored state exactly as it was. The sign-in modal flag is untouched either
// way, closing it is the caller's call. The lookup is never retried so a
// slow directory cannot stall the sign-in flow.
func (s *service) Login(ctx context.Context, visitorID, email string) (bool, *State, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return false, nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	current, err := s.Current(ctx, visitorID)
	if err != nil {
		return false, nil, err
	}

	record, err := s.directory.LookupMember(ctx, email)
	if err != nil {
		if content.IsNotFound(err) {
			return false, current, nil
		}
		s.logg.Error(ctx, "member directory lookup failed", err)
		return false, current, nil
	}

	state := &State{
		SignedIn:       true,
		Email:          record.Email,
		FullName:       record.FullName,
		MembershipType: record.MembershipType,
		Status:         record.Status,
		ModalOpen:      current.ModalOpen,
	}
	if state.Email == "" {
		state.Email = email
	}
	if err := s.persist(ctx, visitorID, state); err != nil {
		return false, current, err
	}
	return true, state, nil
}

// Logout drops the persisted membership snapshot. Signing out twice is fine.
func (s *service) Logout(ctx context.Context, visitorID string) error {
	if visitorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	if err := s.store.Del(ctx, s.store.VisitorMemberKey(visitorID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear member state")
	}
	return nil
}

// SetModalOpen persists the sign-in modal visibility flag.
func (s *service) SetModalOpen(ctx context.Context, visitorID string, open bool) (*State, error) {
	state, err := s.Current(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	state.ModalOpen = open
	if err := s.persist(ctx, visitorID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) persist(ctx context.Context, visitorID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode member state")
	}
	if err := s.store.Set(ctx, s.store.VisitorMemberKey(visitorID), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist member state")
	}
	return nil
}
