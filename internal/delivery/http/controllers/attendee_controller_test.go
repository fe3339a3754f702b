package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"techconnect/internal/delivery/http/helpers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func authedRequest(method, target string, user *domain.User) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.SetUser(req.Context(), user))
}

type mockAttendeeService struct {
	result        *domain.RegistrationResult
	registrations []*domain.EventRegistration
	withEvents    []*domain.EventRegistrationWithEvent
	err           error
}

func (m *mockAttendeeService) RegisterForEvent(ctx context.Context, idOrSlug string, user *domain.User) (*domain.RegistrationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAttendeeService) UnregisterFromEvent(ctx context.Context, idOrSlug string, user *domain.User) (*domain.RegistrationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAttendeeService) ListAttendees(ctx context.Context, idOrSlug, clerkUserID string) ([]*domain.EventRegistration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.registrations, nil
}

func (m *mockAttendeeService) ListMyRegistrations(ctx context.Context, clerkUserID string) ([]*domain.EventRegistrationWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.withEvents, nil
}

func TestAttendeeController_RegisterForEvent_Unauthorized(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{})

	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/register", nil)
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAttendeeController_RegisterForEvent_Created(t *testing.T) {
	svc := &mockAttendeeService{
		result: &domain.RegistrationResult{
			Status:       domain.RegistrationStatusRegistered,
			Registration: &domain.EventRegistration{ID: "reg-1", EventID: "ev-1", ClerkUserID: "user_abc"},
		},
	}
	ctrl := NewAttendeeController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/events/ev-1/register", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestAttendeeController_RegisterForEvent_AlreadyRegisteredIsOK(t *testing.T) {
	svc := &mockAttendeeService{
		result: &domain.RegistrationResult{
			Status:       domain.RegistrationStatusAlreadyRegistered,
			Registration: &domain.EventRegistration{ID: "reg-1"},
		},
	}
	ctrl := NewAttendeeController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/events/ev-1/register", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAttendeeController_RegisterForEvent_External(t *testing.T) {
	svc := &mockAttendeeService{
		result: &domain.RegistrationResult{
			Status:          domain.RegistrationStatusExternal,
			RegistrationURL: "https://tickets.example.com/ev-1",
		},
	}
	ctrl := NewAttendeeController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/events/ev-1/register", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data domain.RegistrationResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.RegistrationURL != "https://tickets.example.com/ev-1" {
		t.Fatalf("expected registration url in response, got %q", resp.Data.RegistrationURL)
	}
}

func TestAttendeeController_RegisterForEvent_NoSpotsLeft(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{err: domain.ErrNoSpotsLeft})

	req := authedRequest(http.MethodPost, "/events/ev-1/register", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAttendeeController_RegisterForEvent_EventNotFound(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{err: domain.ErrNotFound})

	req := authedRequest(http.MethodPost, "/events/missing/register", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "missing")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestAttendeeController_UnregisterFromEvent_NotRegistered(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{err: domain.ErrNotRegistered})

	req := authedRequest(http.MethodPost, "/events/ev-1/unregister", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.UnregisterFromEvent(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAttendeeController_UnregisterFromEvent_Success(t *testing.T) {
	svc := &mockAttendeeService{
		result: &domain.RegistrationResult{Status: domain.RegistrationStatusUnregistered},
	}
	ctrl := NewAttendeeController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/events/ev-1/unregister", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.UnregisterFromEvent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAttendeeController_ListAttendees_Forbidden(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{err: domain.ErrForbidden})

	req := authedRequest(http.MethodGet, "/events/ev-1/attendees", &domain.User{ClerkID: "user_other"})
	req.SetPathValue("idOrSlug", "ev-1")
	w := httptest.NewRecorder()

	ctrl.ListAttendees(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestAttendeeController_ListMyRegistrations_Error(t *testing.T) {
	ctrl := NewAttendeeController(testLogger(), &mockAttendeeService{err: errors.New("service error")})

	req := authedRequest(http.MethodGet, "/me/registrations", &domain.User{ClerkID: "user_abc"})
	w := httptest.NewRecorder()

	ctrl.ListMyRegistrations(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestAttendeeController_ListMyRegistrations_Success(t *testing.T) {
	svc := &mockAttendeeService{
		withEvents: []*domain.EventRegistrationWithEvent{
			{
				Registration: &domain.EventRegistration{ID: "reg-1", EventID: "ev-1"},
				Event:        &domain.Event{ID: "ev-1", Title: "Go Berlin Meetup"},
			},
		},
	}
	ctrl := NewAttendeeController(testLogger(), svc)

	req := authedRequest(http.MethodGet, "/me/registrations", &domain.User{ClerkID: "user_abc"})
	w := httptest.NewRecorder()

	ctrl.ListMyRegistrations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}
