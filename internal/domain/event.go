package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Event types accepted on create/update.
var EventTypes = []string{"Conference", "Workshop", "Hackathon", "Meetup", "Webinar", "Other"}

// Event represents a community event. Attendees and SpotsLeft are the
// registration counters maintained by the registration ledger; a non-empty
// RegistrationURL means registration happens on an external site and the
// internal ledger is bypassed entirely.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Location        string    `json:"location"`
	IsOnline        bool      `json:"is_online"`
	Type            string    `json:"type"`
	Tags            []string  `json:"tags"`
	Organizer       string    `json:"organizer"`
	OrganizerImage  string    `json:"organizer_image,omitempty"`
	Attendees       int       `json:"attendees"`
	IsFree          bool      `json:"is_free"`
	Price           float64   `json:"price"`
	SpotsLeft       int       `json:"spots_left"`
	RegistrationURL string    `json:"registration_url,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Slugify converts a title into its lower-kebab slug: lowercase, alphanumeric
// runs kept, everything else collapsed into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	prevHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteRune('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ValidEventType reports whether t is one of the accepted event types.
func ValidEventType(t string) bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// EventFilter narrows event listings. Nil pointer fields mean "no filter".
type EventFilter struct {
	Type     string
	IsOnline *bool
	IsFree   *bool
	Search   string
	OrderBy  string // one of: date, price, attendees
}

// EventRepository defines the interface for event storage.
// GetBySlug is an exact-match lookup; the slug-normalization fallback is the
// service's job, as a second explicit call.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListUpcoming(ctx context.Context, limit int) ([]*Event, error)
	ListByCreator(ctx context.Context, clerkUserID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventUpdate carries the mutable event fields for PATCH. Nil means unchanged.
type EventUpdate struct {
	Title           *string
	Description     *string
	Date            *string
	Time            *string
	Location        *string
	IsOnline        *bool
	Type            *string
	Tags            []string
	Organizer       *string
	OrganizerImage  *string
	IsFree          *bool
	Price           *float64
	SpotsLeft       *int
	RegistrationURL *string
}

// EventService defines the business logic for event CRUD and lookups.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent resolves an event by id or slug: exact slug match first, then
	// the lower-kebab normalized form.
	GetEvent(ctx context.Context, idOrSlug string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListUpcomingEvents(ctx context.Context) ([]*Event, error)
	ListMyEvents(ctx context.Context, clerkUserID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, idOrSlug, clerkUserID string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, idOrSlug, clerkUserID string) error
}
