package controllers

import (
	"net/http"

	"techconnect/internal/delivery/http/helpers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// VerifyTokenResponse is the payload for POST /auth/verify.
type VerifyTokenResponse struct {
	Valid   bool         `json:"valid"`
	ClerkID string       `json:"clerk_id"`
	User    *domain.User `json:"user"`
}

// VerifyToken godoc
// @Summary Verify the caller's bearer token
// @Description Verifies the Clerk-issued bearer token and returns the bridged local user. The local record is created on first sight and refreshed on every call.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.VerifyTokenResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/verify [post]
func (c *AuthController) VerifyToken(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, VerifyTokenResponse{
		Valid:   true,
		ClerkID: user.ClerkID,
		User:    user,
	})
}

// Me godoc
// @Summary Get the current user
// @Description Returns the authenticated user's local record.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
