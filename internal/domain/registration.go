package domain

import (
	"context"
	"time"
)

// EventRegistration represents one user's registration to one event. The pair
// (event, clerk user id) is unique: at most one active registration per user
// per event. Email and name are snapshots taken at registration time.
// swagger:model EventRegistration
type EventRegistration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	ClerkUserID  string    `json:"clerk_user_id"`
	UserEmail    string    `json:"user_email"`
	UserName     string    `json:"user_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewEventRegistration creates a new EventRegistration. ID is typically set by the repository on create.
func NewEventRegistration(eventID, clerkUserID, userEmail, userName string, registeredAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:      eventID,
		ClerkUserID:  clerkUserID,
		UserEmail:    userEmail,
		UserName:     userName,
		RegisteredAt: registeredAt,
	}
}

// Registration statuses reported to the caller.
const (
	RegistrationStatusRegistered        = "registered"
	RegistrationStatusAlreadyRegistered = "already_registered"
	RegistrationStatusExternal          = "external_registration"
	RegistrationStatusUnregistered      = "unregistered"
)

// RegistrationResult is the structured outcome of a register call.
// swagger:model RegistrationResult
type RegistrationResult struct {
	Status          string             `json:"status"`
	Registration    *EventRegistration `json:"registration,omitempty"`
	RegistrationURL string             `json:"registration_url,omitempty"`
}

// EventRegistrationRepository defines storage operations for event
// registrations. Register and Unregister run the registration row write and
// the event counter update in a single transaction: a failure at any step
// leaves both untouched.
type EventRegistrationRepository interface {
	// Register inserts the registration row and applies
	// attendees+1/spots_left-1 conditionally on spots_left > 0. Returns
	// ErrNoSpotsLeft when the conditional update matches no row, and
	// ErrAlreadyRegistered on a uniqueness violation.
	Register(ctx context.Context, reg *EventRegistration) error
	// Unregister deletes the registration row and applies
	// attendees-1/spots_left+1. Counters are not clamped. Returns
	// ErrNotRegistered when no row exists.
	Unregister(ctx context.Context, eventID, clerkUserID string) error
	GetByEventAndUser(ctx context.Context, eventID, clerkUserID string) (*EventRegistration, error)
	// ListByEventID returns registrations most recent first.
	ListByEventID(ctx context.Context, eventID string) ([]*EventRegistration, error)
	ListByUserID(ctx context.Context, clerkUserID string) ([]*EventRegistration, error)
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// AttendeeService is the registration ledger: it owns the per-(event,user)
// registration state machine and the event attendance counters.
type AttendeeService interface {
	// RegisterForEvent registers the user for the event resolved from
	// idOrSlug. Soft outcomes (already registered, external registration) are
	// reported through the result; ErrNoSpotsLeft is returned when capacity is
	// exhausted.
	RegisterForEvent(ctx context.Context, idOrSlug string, user *User) (*RegistrationResult, error)
	// UnregisterFromEvent removes the user's registration and restores the
	// counters. Returns ErrNotRegistered when no registration exists.
	UnregisterFromEvent(ctx context.Context, idOrSlug string, user *User) (*RegistrationResult, error)
	// ListAttendees returns the event's registrations, most recent first.
	// Only the event creator may call it; others get ErrForbidden.
	ListAttendees(ctx context.Context, idOrSlug, clerkUserID string) ([]*EventRegistration, error)
	ListMyRegistrations(ctx context.Context, clerkUserID string) ([]*EventRegistrationWithEvent, error)
}
