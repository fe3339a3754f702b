package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"techconnect/internal/delivery/http/controllers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authService domain.AuthService,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	groupController *controllers.GroupController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(authService)

	// Auth
	mux.HandleFunc("POST /auth/verify", requireAuth(authController.VerifyToken))
	mux.HandleFunc("GET /me", requireAuth(authController.Me))

	// Events
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/upcoming", eventController.ListUpcomingEvents)
	mux.HandleFunc("GET /events/{idOrSlug}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{idOrSlug}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{idOrSlug}", requireAuth(eventController.DeleteEvent))

	// Registration ledger
	mux.HandleFunc("POST /events/{idOrSlug}/register", requireAuth(attendeeController.RegisterForEvent))
	mux.HandleFunc("POST /events/{idOrSlug}/unregister", requireAuth(attendeeController.UnregisterFromEvent))
	mux.HandleFunc("GET /events/{idOrSlug}/attendees", requireAuth(attendeeController.ListAttendees))
	mux.HandleFunc("GET /me/registrations", requireAuth(attendeeController.ListMyRegistrations))
	mux.HandleFunc("GET /me/events", requireAuth(eventController.ListMyEvents))

	// Groups
	mux.HandleFunc("POST /groups", requireAuth(groupController.CreateGroup))
	mux.HandleFunc("GET /groups", groupController.ListGroups)
	mux.HandleFunc("GET /groups/{idOrSlug}", groupController.GetGroup)
	mux.HandleFunc("PATCH /groups/{idOrSlug}", requireAuth(groupController.UpdateGroup))
	mux.HandleFunc("DELETE /groups/{idOrSlug}", requireAuth(groupController.DeleteGroup))
	mux.HandleFunc("POST /groups/{idOrSlug}/join", requireAuth(groupController.JoinGroup))
	mux.HandleFunc("POST /groups/{idOrSlug}/leave", requireAuth(groupController.LeaveGroup))
	mux.HandleFunc("GET /groups/{idOrSlug}/members", groupController.ListMembers)
	mux.HandleFunc("GET /me/groups", requireAuth(groupController.ListMyGroups))

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
