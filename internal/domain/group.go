package domain

import (
	"context"
	"time"
)

// Group categories accepted on create/update.
var GroupCategories = []string{"TECH", "HEALTH", "EDUCATION", "SOCIAL", "HOBBY", "PROFESSIONAL", "OTHER"}

// Group represents a community group. MemberCount is maintained from the
// membership rows; the owner is always a member.
// swagger:model Group
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Location    string    `json:"location"`
	IsOnline    bool      `json:"is_online"`
	MemberCount int       `json:"member_count"`
	EventCount  int       `json:"event_count"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupMember is one user's membership in a group.
// swagger:model GroupMember
type GroupMember struct {
	GroupID     string    `json:"group_id"`
	ClerkUserID string    `json:"clerk_user_id"`
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ValidGroupCategory reports whether c is one of the accepted categories.
func ValidGroupCategory(c string) bool {
	for _, gc := range GroupCategories {
		if c == gc {
			return true
		}
	}
	return false
}

// GroupRepository defines the interface for group and membership storage.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	List(ctx context.Context, params PaginationParams) ([]*Group, int, error)
	ListByMember(ctx context.Context, clerkUserID string) ([]*Group, error)
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id string) error

	// AddMember inserts the membership row and refreshes member_count in one
	// transaction. Returns ErrAlreadyMember on a uniqueness violation.
	AddMember(ctx context.Context, member *GroupMember) error
	// RemoveMember deletes the membership row and refreshes member_count in
	// one transaction. Returns ErrNotMember when no row exists.
	RemoveMember(ctx context.Context, groupID, clerkUserID string) error
	IsMember(ctx context.Context, groupID, clerkUserID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
}

// GroupUpdate carries the mutable group fields for PATCH. Nil means unchanged.
type GroupUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Tags        []string
	Location    *string
	IsOnline    *bool
}

// GroupService defines the business logic for groups and membership.
type GroupService interface {
	CreateGroup(ctx context.Context, group *Group, owner *User) error
	GetGroup(ctx context.Context, idOrSlug string) (*Group, error)
	ListGroups(ctx context.Context, params PaginationParams) ([]*Group, int, error)
	ListMyGroups(ctx context.Context, clerkUserID string) ([]*Group, error)
	UpdateGroup(ctx context.Context, idOrSlug, clerkUserID string, update GroupUpdate) (*Group, error)
	DeleteGroup(ctx context.Context, idOrSlug, clerkUserID string) error
	JoinGroup(ctx context.Context, idOrSlug string, user *User) error
	LeaveGroup(ctx context.Context, idOrSlug string, user *User) error
	ListMembers(ctx context.Context, idOrSlug string) ([]*GroupMember, error)
}
