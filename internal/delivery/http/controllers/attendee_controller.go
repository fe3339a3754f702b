package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"techconnect/internal/delivery/http/helpers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterForEvent godoc
// @Summary Register the current user for an event
// @Description Registers the authenticated user for the event. Idempotent: a repeat call reports status already_registered. Events with an external registration URL report status external_registration and touch no local state.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Event ID or slug"
// @Success 200 {object} domain.RegistrationResult "Already registered or external registration"
// @Success 201 {object} domain.RegistrationResult "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (no spots left)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug}/register [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.RegisterForEvent(r.Context(), r.PathValue("idOrSlug"), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoSpotsLeft) || errors.Is(err, domain.ErrAlreadyRegistered) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	if result.Status == domain.RegistrationStatusRegistered {
		helpers.WriteJSONSuccess(w, http.StatusCreated, result)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// UnregisterFromEvent godoc
// @Summary Unregister the current user from an event
// @Description Removes the authenticated user's registration and restores the event's counters.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Event ID or slug"
// @Success 200 {object} domain.RegistrationResult
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not registered)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug}/unregister [post]
func (c *AttendeeController) UnregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.UnregisterFromEvent(r.Context(), r.PathValue("idOrSlug"), user)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListAttendees godoc
// @Summary List an event's registrations
// @Description Lists the event's registrations, most recent first. Only the event creator may call this.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Event ID or slug"
// @Success 200 {array} domain.EventRegistration
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{idOrSlug}/attendees [get]
func (c *AttendeeController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	regs, err := c.Service.ListAttendees(r.Context(), r.PathValue("idOrSlug"), user.ClerkID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListMyRegistrations godoc
// @Summary List the current user's registrations
// @Description Lists the authenticated user's registrations with the related events.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.EventRegistrationWithEvent
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/registrations [get]
func (c *AttendeeController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	regs, err := c.Service.ListMyRegistrations(r.Context(), user.ClerkID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
