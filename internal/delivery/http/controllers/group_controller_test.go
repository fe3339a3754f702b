package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

type mockGroupService struct {
	group   *domain.Group
	groups  []*domain.Group
	members []*domain.GroupMember
	total   int
	err     error
}

func (m *mockGroupService) CreateGroup(ctx context.Context, group *domain.Group, owner *domain.User) error {
	if m.err != nil {
		return m.err
	}
	group.ID = "gr-1"
	group.Slug = domain.Slugify(group.Name)
	group.OwnerID = owner.ClerkID
	group.MemberCount = 1
	return nil
}

func (m *mockGroupService) GetGroup(ctx context.Context, idOrSlug string) (*domain.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.group, nil
}

func (m *mockGroupService) ListGroups(ctx context.Context, params domain.PaginationParams) ([]*domain.Group, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.groups, m.total, nil
}

func (m *mockGroupService) ListMyGroups(ctx context.Context, clerkUserID string) ([]*domain.Group, error) {
	return m.groups, m.err
}

func (m *mockGroupService) UpdateGroup(ctx context.Context, idOrSlug, clerkUserID string, update domain.GroupUpdate) (*domain.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.group, nil
}

func (m *mockGroupService) DeleteGroup(ctx context.Context, idOrSlug, clerkUserID string) error {
	return m.err
}

func (m *mockGroupService) JoinGroup(ctx context.Context, idOrSlug string, user *domain.User) error {
	return m.err
}

func (m *mockGroupService) LeaveGroup(ctx context.Context, idOrSlug string, user *domain.User) error {
	return m.err
}

func (m *mockGroupService) ListMembers(ctx context.Context, idOrSlug string) ([]*domain.GroupMember, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

func TestGroupController_CreateGroup_Success(t *testing.T) {
	svc := &mockGroupService{}
	ctrl := NewGroupController(testLogger(), svc)
	user := &domain.User{ClerkID: "user_abc"}

	body := `{"name":"Go Berlin","category":"TECH"}`
	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(body))
	req = req.WithContext(middleware.SetUser(req.Context(), user))
	w := httptest.NewRecorder()

	ctrl.CreateGroup(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (%s)", http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestGroupController_CreateGroup_InvalidCategory(t *testing.T) {
	ctrl := NewGroupController(testLogger(), &mockGroupService{})
	user := &domain.User{ClerkID: "user_abc"}

	body := `{"name":"Go Berlin","category":"SPORTS"}`
	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(body))
	req = req.WithContext(middleware.SetUser(req.Context(), user))
	w := httptest.NewRecorder()

	ctrl.CreateGroup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGroupController_JoinGroup_AlreadyMember(t *testing.T) {
	ctrl := NewGroupController(testLogger(), &mockGroupService{err: domain.ErrAlreadyMember})

	req := authedRequest(http.MethodPost, "/groups/go-berlin/join", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "go-berlin")
	w := httptest.NewRecorder()

	ctrl.JoinGroup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGroupController_LeaveGroup_OwnerCannotLeave(t *testing.T) {
	ctrl := NewGroupController(testLogger(), &mockGroupService{err: domain.ErrOwnerCannotLeave})

	req := authedRequest(http.MethodPost, "/groups/go-berlin/leave", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "go-berlin")
	w := httptest.NewRecorder()

	ctrl.LeaveGroup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGroupController_LeaveGroup_Success(t *testing.T) {
	ctrl := NewGroupController(testLogger(), &mockGroupService{})

	req := authedRequest(http.MethodPost, "/groups/go-berlin/leave", &domain.User{ClerkID: "user_abc"})
	req.SetPathValue("idOrSlug", "go-berlin")
	w := httptest.NewRecorder()

	ctrl.LeaveGroup(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
}

func TestGroupController_GetGroup_NotFound(t *testing.T) {
	ctrl := NewGroupController(testLogger(), &mockGroupService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/groups/missing", nil)
	req.SetPathValue("idOrSlug", "missing")
	w := httptest.NewRecorder()

	ctrl.GetGroup(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGroupController_ListMembers_Success(t *testing.T) {
	svc := &mockGroupService{
		members: []*domain.GroupMember{{GroupID: "gr-1", ClerkUserID: "user_abc"}},
	}
	ctrl := NewGroupController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/groups/go-berlin/members", nil)
	req.SetPathValue("idOrSlug", "go-berlin")
	w := httptest.NewRecorder()

	ctrl.ListMembers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
