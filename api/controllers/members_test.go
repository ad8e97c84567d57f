package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	membersvc "github.com/meridianpress/meridian-backend/internal/member"
)

type testMemberService struct {
	currentFn  func(ctx context.Context, visitorID string) (*membersvc.State, error)
	loginFn    func(ctx context.Context, visitorID, email string) (bool, *membersvc.State, error)
	logoutFn   func(ctx context.Context, visitorID string) error
	setModalFn func(ctx context.Context, visitorID string, open bool) (*membersvc.State, error)
}

func (s *testMemberService) Current(ctx context.Context, visitorID string) (*membersvc.State, error) {
	if s.currentFn != nil {
		return s.currentFn(ctx, visitorID)
	}
	return &membersvc.State{}, nil
}

func (s *testMemberService) Login(ctx context.Context, visitorID, email string) (bool, *membersvc.State, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, visitorID, email)
	}
	return false, &membersvc.State{}, nil
}

func (s *testMemberService) Logout(ctx context.Context, visitorID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, visitorID)
	}
	return nil
}

func (s *testMemberService) SetModalOpen(ctx context.Context, visitorID string, open bool) (*membersvc.State, error) {
	if s.setModalFn != nil {
		return s.setModalFn(ctx, visitorID, open)
	}
	return &membersvc.State{ModalOpen: open}, nil
}

func TestMemberLoginSuccess(t *testing.T) {
	svc := &testMemberService{
		loginFn: func(_ context.Context, visitorID, email string) (bool, *membersvc.State, error) {
			if visitorID != "v1" || email != "reader@example.com" {
				t.Fatalf("unexpected args %s %s", visitorID, email)
			}
			return true, &membersvc.State{SignedIn: true, Email: email}, nil
		},
	}

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/members/login", strings.NewReader(`{"email":"reader@example.com"}`)), "v1")
	resp := httptest.NewRecorder()
	MemberLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data loginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.SignedIn || envelope.Data.Member.Email != "reader@example.com" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestMemberLoginUnknownEmailIsStillOK(t *testing.T) {
	svc := &testMemberService{
		loginFn: func(context.Context, string, string) (bool, *membersvc.State, error) {
			return false, &membersvc.State{}, nil
		},
	}

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/members/login", strings.NewReader(`{"email":"stranger@example.com"}`)), "v1")
	resp := httptest.NewRecorder()
	MemberLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("failed login is not an HTTP error, got %d", resp.Code)
	}
	var envelope struct {
		Data loginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.SignedIn {
		t.Fatal("expected signed_in=false")
	}
}

func TestMemberLoginValidatesEmail(t *testing.T) {
	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/members/login", strings.NewReader(`{"email":"not-an-email"}`)), "v1")
	resp := httptest.NewRecorder()
	MemberLogin(&testMemberService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestMemberLogout(t *testing.T) {
	called := false
	svc := &testMemberService{
		logoutFn: func(_ context.Context, visitorID string) error {
			called = true
			if visitorID != "v1" {
				t.Fatalf("unexpected visitor %s", visitorID)
			}
			return nil
		},
	}

	req := withVisitor(httptest.NewRequest(http.MethodPost, "/api/v1/members/logout", nil), "v1")
	resp := httptest.NewRecorder()
	MemberLogout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
