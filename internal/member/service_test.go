package member

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meridianpress/meridian-backend/internal/content"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type memoryStore struct {
	data   map[string]string
	getErr error
	setErr error
	delErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = fmt.Sprintf("%s", value)
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) VisitorMemberKey(visitorID string) string {
	return "mp:visitor:" + visitorID + ":member"
}

type stubDirectory struct {
	records map[string]*content.MemberRecord
	err     error
	calls   int
}

func (d *stubDirectory) LookupMember(_ context.Context, email string) (*content.MemberRecord, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	record, ok := d.records[email]
	if !ok {
		return nil, content.ErrNotFound
	}
	return record, nil
}

func newTestService(t *testing.T, store *memoryStore, dir *stubDirectory) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(store, dir, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLoginSignsInKnownMember(t *testing.T) {
	store := newMemoryStore()
	dir := &stubDirectory{records: map[string]*content.MemberRecord{
		"reader@example.com": {FullName: "Alex Reader", Email: "reader@example.com", MembershipType: "annual", Status: "active"},
	}}
	svc := newTestService(t, store, dir)
	ctx := context.Background()

	ok, state, err := svc.Login(ctx, "v1", "Reader@Example.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !ok {
		t.Fatal("expected sign-in to succeed")
	}
	if !state.SignedIn || state.Email != "reader@example.com" || state.FullName != "Alex Reader" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Status != "active" {
		t.Fatalf("directory status not carried over: %+v", state)
	}

	current, err := svc.Current(ctx, "v1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !current.SignedIn || current.MembershipType != "annual" || current.Status != "active" {
		t.Fatalf("state did not persist: %+v", current)
	}
}

func TestLoginLeavesModalFlagAlone(t *testing.T) {
	store := newMemoryStore()
	dir := &stubDirectory{records: map[string]*content.MemberRecord{
		"reader@example.com": {Email: "reader@example.com"},
	}}
	svc := newTestService(t, store, dir)
	ctx := context.Background()

	if _, err := svc.SetModalOpen(ctx, "v1", true); err != nil {
		t.Fatalf("SetModalOpen: %v", err)
	}

	ok, state, err := svc.Login(ctx, "v1", "reader@example.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !ok || !state.ModalOpen {
		t.Fatalf("sign-in must not close the modal for the caller: %+v", state)
	}

	current, err := svc.Current(ctx, "v1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !current.ModalOpen {
		t.Fatal("modal flag lost across sign-in")
	}
}

func TestLoginUnknownEmailLeavesStateUntouched(t *testing.T) {
	store := newMemoryStore()
	dir := &stubDirectory{records: map[string]*content.MemberRecord{}}
	svc := newTestService(t, store, dir)
	ctx := context.Background()

	if _, err := svc.SetModalOpen(ctx, "v1", true); err != nil {
		t.Fatalf("SetModalOpen: %v", err)
	}

	ok, state, err := svc.Login(ctx, "v1", "stranger@example.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if ok {
		t.Fatal("unknown email must not sign in")
	}
	if state.SignedIn {
		t.Fatalf("state changed on failed login: %+v", state)
	}
	if !state.ModalOpen {
		t.Fatal("failed login must leave the modal flag as it was")
	}
}

func TestLoginDirectoryOutageReportsFalse(t *testing.T) {
	store := newMemoryStore()
	dir := &stubDirectory{err: fmt.Errorf("directory unavailable")}
	svc := newTestService(t, store, dir)
	ctx := context.Background()

	ok, _, err := svc.Login(ctx, "v1", "reader@example.com")
	if err != nil {
		t.Fatalf("Login must not surface directory outages: %v", err)
	}
	if ok {
		t.Fatal("outage must not sign the visitor in")
	}
	if dir.calls != 1 {
		t.Fatalf("lookup must not be retried, got %d calls", dir.calls)
	}
	if _, stored := store.data[store.VisitorMemberKey("v1")]; stored {
		t.Fatal("failed login must not persist state")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	dir := &stubDirectory{records: map[string]*content.MemberRecord{
		"reader@example.com": {Email: "reader@example.com"},
	}}
	svc := newTestService(t, store, dir)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "v1", "reader@example.com"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, "v1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	state, err := svc.Current(ctx, "v1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if state.SignedIn {
		t.Fatalf("still signed in after logout: %+v", state)
	}
	// Second logout with nothing stored.
	if err := svc.Logout(ctx, "v1"); err != nil {
		t.Fatalf("repeat Logout: %v", err)
	}
}

func TestCurrentFailsOpenToAnonymous(t *testing.T) {
	ctx := context.Background()
	dir := &stubDirectory{}

	t.Run("storage failure", func(t *testing.T) {
		store := newMemoryStore()
		store.getErr = fmt.Errorf("connection refused")
		svc := newTestService(t, store, dir)
		state, err := svc.Current(ctx, "v1")
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if state.SignedIn {
			t.Fatalf("expected anonymous, got %+v", state)
		}
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		store := newMemoryStore()
		store.data[store.VisitorMemberKey("v1")] = "{broken"
		svc := newTestService(t, store, dir)
		state, err := svc.Current(ctx, "v1")
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if state.SignedIn {
			t.Fatalf("expected anonymous, got %+v", state)
		}
	})
}

func TestLoginValidatesEmail(t *testing.T) {
	svc := newTestService(t, newMemoryStore(), &stubDirectory{})
	_, _, err := svc.Login(context.Background(), "v1", "   ")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
