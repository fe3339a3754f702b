package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techconnect/internal/domain"
)

type groupService struct {
	groupRepo domain.GroupRepository
}

// NewGroupService creates a GroupService with the given repository.
func NewGroupService(groupRepo domain.GroupRepository) domain.GroupService {
	return &groupService{groupRepo: groupRepo}
}

// resolveGroup looks a group up by id or slug, with the same exact-then-
// normalized fallback the events use.
func (s *groupService) resolveGroup(ctx context.Context, idOrSlug string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, idOrSlug)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get group: %w", err)
	}
	group, err = s.groupRepo.GetBySlug(ctx, idOrSlug)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get group by slug: %w", err)
	}
	normalized := domain.Slugify(idOrSlug)
	if normalized == "" || normalized == idOrSlug {
		return nil, domain.ErrNotFound
	}
	group, err = s.groupRepo.GetBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group by normalized slug: %w", err)
	}
	return group, nil
}

func (s *groupService) CreateGroup(ctx context.Context, group *domain.Group, owner *domain.User) error {
	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("group name is required: %w", domain.ErrInvalidInput)
	}
	if group.Category == "" {
		group.Category = "OTHER"
	}
	if !domain.ValidGroupCategory(group.Category) {
		return fmt.Errorf("invalid group category %q: %w", group.Category, domain.ErrInvalidInput)
	}
	if group.Slug == "" {
		group.Slug = domain.Slugify(group.Name)
	}
	if group.Tags == nil {
		group.Tags = []string{}
	}
	group.OwnerID = owner.ClerkID
	group.MemberCount = 1
	group.CreatedAt = time.Now()

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	// The owner is always a member.
	member := &domain.GroupMember{
		GroupID:     group.ID,
		ClerkUserID: owner.ClerkID,
		UserEmail:   owner.Email,
		UserName:    owner.FullName(),
		JoinedAt:    group.CreatedAt,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil && !errors.Is(err, domain.ErrAlreadyMember) {
		return fmt.Errorf("add owner membership: %w", err)
	}
	return nil
}

func (s *groupService) GetGroup(ctx context.Context, idOrSlug string) (*domain.Group, error) {
	return s.resolveGroup(ctx, idOrSlug)
}

func (s *groupService) ListGroups(ctx context.Context, params domain.PaginationParams) ([]*domain.Group, int, error) {
	groups, total, err := s.groupRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, total, nil
}

func (s *groupService) ListMyGroups(ctx context.Context, clerkUserID string) ([]*domain.Group, error) {
	groups, err := s.groupRepo.ListByMember(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("list groups by member: %w", err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, idOrSlug, clerkUserID string, update domain.GroupUpdate) (*domain.Group, error) {
	group, err := s.resolveGroup(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != clerkUserID {
		return nil, domain.ErrForbidden
	}

	if update.Name != nil {
		group.Name = *update.Name
	}
	if update.Description != nil {
		group.Description = *update.Description
	}
	if update.Category != nil {
		if !domain.ValidGroupCategory(*update.Category) {
			return nil, fmt.Errorf("invalid group category %q: %w", *update.Category, domain.ErrInvalidInput)
		}
		group.Category = *update.Category
	}
	if update.Tags != nil {
		group.Tags = update.Tags
	}
	if update.Location != nil {
		group.Location = *update.Location
	}
	if update.IsOnline != nil {
		group.IsOnline = *update.IsOnline
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, idOrSlug, clerkUserID string) error {
	group, err := s.resolveGroup(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if group.OwnerID != clerkUserID {
		return domain.ErrForbidden
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (s *groupService) JoinGroup(ctx context.Context, idOrSlug string, user *domain.User) error {
	group, err := s.resolveGroup(ctx, idOrSlug)
	if err != nil {
		return err
	}
	member := &domain.GroupMember{
		GroupID:     group.ID,
		ClerkUserID: user.ClerkID,
		UserEmail:   user.Email,
		UserName:    user.FullName(),
		JoinedAt:    time.Now(),
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *groupService) LeaveGroup(ctx context.Context, idOrSlug string, user *domain.User) error {
	group, err := s.resolveGroup(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if group.OwnerID == user.ClerkID {
		return domain.ErrOwnerCannotLeave
	}
	if err := s.groupRepo.RemoveMember(ctx, group.ID, user.ClerkID); err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			return domain.ErrNotMember
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *groupService) ListMembers(ctx context.Context, idOrSlug string) ([]*domain.GroupMember, error) {
	group, err := s.resolveGroup(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []*domain.GroupMember{}
	}
	return members, nil
}
