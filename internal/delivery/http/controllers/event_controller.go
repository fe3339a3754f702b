package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"techconnect/internal/delivery/http/helpers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeDomainError maps a service error onto the response envelope. Unknown
// errors are logged and reported as internal_error.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Location        string   `json:"location"`
	IsOnline        bool     `json:"is_online"`
	Type            string   `json:"type"`
	Tags            []string `json:"tags"`
	Organizer       string   `json:"organizer"`
	OrganizerImage  string   `json:"organizer_image"`
	IsFree          bool     `json:"is_free"`
	Price           float64  `json:"price"`
	SpotsLeft       int      `json:"spots_left"`
	RegistrationURL string   `json:"registration_url"`
}

// Validate implements helpers.Validator.
func (req *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if req.Type != "" && !domain.ValidEventType(req.Type) {
		errs = append(errs, "type must be one of: "+strings.Join(domain.EventTypes, ", "))
	}
	if req.SpotsLeft < 0 {
		errs = append(errs, "spots_left must not be negative")
	}
	if req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated user. The slug is derived from the title.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event fields"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	event := &domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		IsOnline:        req.IsOnline,
		Type:            req.Type,
		Tags:            req.Tags,
		Organizer:       req.Organizer,
		OrganizerImage:  req.OrganizerImage,
		IsFree:          req.IsFree,
		Price:           req.Price,
		SpotsLeft:       req.SpotsLeft,
		RegistrationURL: req.RegistrationURL,
		CreatedBy:       user.ClerkID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if event.Organizer == "" {
		event.Organizer = user.FullName()
	}

	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by id or slug
// @Tags events
// @Produce json
// @Param idOrSlug path string true "Event ID or slug"
// @Success 200 {object} domain.Event
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("idOrSlug")
	if idOrSlug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing event id or slug")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), idOrSlug)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// EventListResponse is the payload for GET /events.
type EventListResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// parseBoolParam reads an optional boolean query parameter. Nil when absent
// or unparsable.
func parseBoolParam(r *http.Request, name string) *bool {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

// ListEvents godoc
// @Summary List events
// @Description Lists events with optional filters and pagination.
// @Tags events
// @Produce json
// @Param type query string false "Event type"
// @Param is_online query boolean false "Online events only"
// @Param is_free query boolean false "Free events only"
// @Param search query string false "Search in title, description, location, organizer"
// @Param order_by query string false "Ordering: date, price, attendees"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.EventListResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{
		Type:     r.URL.Query().Get("type"),
		IsOnline: parseBoolParam(r, "is_online"),
		IsFree:   parseBoolParam(r, "is_free"),
		Search:   r.URL.Query().Get("search"),
		OrderBy:  r.URL.Query().Get("order_by"),
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListUpcomingEvents godoc
// @Summary List upcoming events
// @Tags events
// @Produce json
// @Success 200 {array} domain.Event
// @Router /events/upcoming [get]
func (c *EventController) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListUpcomingEvents(r.Context())
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListMyEvents godoc
// @Summary List events created by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Event
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), user.ClerkID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEventRequest is the request body for PATCH /events/{idOrSlug}.
// Omitted fields stay unchanged.
type UpdateEventRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	Location        *string  `json:"location"`
	IsOnline        *bool    `json:"is_online"`
	Type            *string  `json:"type"`
	Tags            []string `json:"tags"`
	Organizer       *string  `json:"organizer"`
	OrganizerImage  *string  `json:"organizer_image"`
	IsFree          *bool    `json:"is_free"`
	Price           *float64 `json:"price"`
	SpotsLeft       *int     `json:"spots_left"`
	RegistrationURL *string  `json:"registration_url"`
}

// Validate implements helpers.Validator.
func (req *UpdateEventRequest) Validate() []string {
	var errs []string
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if req.Type != nil && !domain.ValidEventType(*req.Type) {
		errs = append(errs, "type must be one of: "+strings.Join(domain.EventTypes, ", "))
	}
	if req.SpotsLeft != nil && *req.SpotsLeft < 0 {
		errs = append(errs, "spots_left must not be negative")
	}
	if req.Price != nil && *req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates the event. Only the creator may update it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Event ID or slug"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} domain.Event
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	idOrSlug := r.PathValue("idOrSlug")

	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	update := domain.EventUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		IsOnline:        req.IsOnline,
		Type:            req.Type,
		Tags:            req.Tags,
		Organizer:       req.Organizer,
		OrganizerImage:  req.OrganizerImage,
		IsFree:          req.IsFree,
		Price:           req.Price,
		SpotsLeft:       req.SpotsLeft,
		RegistrationURL: req.RegistrationURL,
	}
	event, err := c.Service.UpdateEvent(r.Context(), idOrSlug, user.ClerkID, update)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event. Only the creator may delete it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Event ID or slug"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("idOrSlug"), user.ClerkID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
