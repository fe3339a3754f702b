package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"techconnect/internal/delivery/http/helpers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
}

func NewGroupController(logger *slog.Logger, svc domain.GroupService) *GroupController {
	return &GroupController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	IsOnline    bool     `json:"is_online"`
}

// Validate implements helpers.Validator.
func (req *CreateGroupRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Category != "" && !domain.ValidGroupCategory(req.Category) {
		errs = append(errs, "category must be one of: "+strings.Join(domain.GroupCategories, ", "))
	}
	return errs
}

// CreateGroup godoc
// @Summary Create a group
// @Description Creates a group owned by the authenticated user. The owner becomes the first member.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateGroupRequest true "Group fields"
// @Success 201 {object} domain.Group
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /groups [post]
func (c *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	group := &domain.Group{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Location:    req.Location,
		IsOnline:    req.IsOnline,
	}
	if err := c.Service.CreateGroup(r.Context(), group, user); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, group)
}

// GroupListResponse is the payload for GET /groups.
type GroupListResponse struct {
	Groups     []*domain.Group        `json:"groups"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListGroups godoc
// @Summary List groups
// @Tags groups
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.GroupListResponse
// @Router /groups [get]
func (c *GroupController) ListGroups(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	groups, total, err := c.Service.ListGroups(r.Context(), params)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GroupListResponse{
		Groups:     groups,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetGroup godoc
// @Summary Get a group by id or slug
// @Tags groups
// @Produce json
// @Param idOrSlug path string true "Group ID or slug"
// @Success 200 {object} domain.Group
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug} [get]
func (c *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := c.Service.GetGroup(r.Context(), r.PathValue("idOrSlug"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// UpdateGroupRequest is the request body for PATCH /groups/{idOrSlug}.
// Omitted fields stay unchanged.
type UpdateGroupRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	Location    *string  `json:"location"`
	IsOnline    *bool    `json:"is_online"`
}

// Validate implements helpers.Validator.
func (req *UpdateGroupRequest) Validate() []string {
	var errs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if req.Category != nil && !domain.ValidGroupCategory(*req.Category) {
		errs = append(errs, "category must be one of: "+strings.Join(domain.GroupCategories, ", "))
	}
	return errs
}

// UpdateGroup godoc
// @Summary Update a group
// @Description Updates the group. Only the owner may update it.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Group ID or slug"
// @Param body body controllers.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} domain.Group
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug} [patch]
func (c *GroupController) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req UpdateGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	update := domain.GroupUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Location:    req.Location,
		IsOnline:    req.IsOnline,
	}
	group, err := c.Service.UpdateGroup(r.Context(), r.PathValue("idOrSlug"), user.ClerkID, update)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// DeleteGroup godoc
// @Summary Delete a group
// @Description Deletes the group and its memberships. Only the owner may delete it.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Group ID or slug"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug} [delete]
func (c *GroupController) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteGroup(r.Context(), r.PathValue("idOrSlug"), user.ClerkID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinGroup godoc
// @Summary Join a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Group ID or slug"
// @Success 200 {object} domain.Group
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already a member)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug}/join [post]
func (c *GroupController) JoinGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	idOrSlug := r.PathValue("idOrSlug")
	if err := c.Service.JoinGroup(r.Context(), idOrSlug, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	group, err := c.Service.GetGroup(r.Context(), idOrSlug)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// LeaveGroup godoc
// @Summary Leave a group
// @Description Removes the authenticated user's membership. The owner cannot leave.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Group ID or slug"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not a member, or owner)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug}/leave [post]
func (c *GroupController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.LeaveGroup(r.Context(), r.PathValue("idOrSlug"), user); err != nil {
		if errors.Is(err, domain.ErrNotMember) || errors.Is(err, domain.ErrOwnerCannotLeave) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers godoc
// @Summary List a group's members
// @Tags groups
// @Produce json
// @Param idOrSlug path string true "Group ID or slug"
// @Success 200 {array} domain.GroupMember
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /groups/{idOrSlug}/members [get]
func (c *GroupController) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := c.Service.ListMembers(r.Context(), r.PathValue("idOrSlug"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

// ListMyGroups godoc
// @Summary List the current user's groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Group
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/groups [get]
func (c *GroupController) ListMyGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	groups, err := c.Service.ListMyGroups(r.Context(), user.ClerkID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, groups)
}
