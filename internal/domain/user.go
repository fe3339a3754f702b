package domain

import (
	"context"
	"time"
)

// User is the local identity record bridged from Clerk. ClerkID is the
// external subject claim, unique and immutable after creation; the profile
// fields are refreshed from Clerk on every successful authentication.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	ClerkID   string    `json:"clerk_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(clerkID, email, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		ClerkID:   clerkID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// FullName joins first and last name, falling back to the email when both are empty.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Email
	}
	return name
}

// ExternalIdentity is the identity snapshot taken from a verified token's
// claims or from a follow-up profile fetch. It is never persisted directly;
// it is the source used to populate and refresh the local User.
type ExternalIdentity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// TokenVerifier validates a raw bearer token and returns the external
// identity carried in its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalIdentity, error)
}

// ProfileFetcher retrieves the current profile for an external subject from
// the identity provider.
type ProfileFetcher interface {
	Fetch(ctx context.Context, subject string) (*ExternalIdentity, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
}

// AuthService resolves a bearer token into a local user, creating or
// refreshing the local record as a side effect.
type AuthService interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}
