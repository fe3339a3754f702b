// @title TechConnect API
// @version 1.0
// @description Community events and groups backend with Clerk-bridged authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techconnect/config"
	_ "techconnect/docs"
	"techconnect/internal/adapters/clerk"
	"techconnect/internal/adapters/email"
	"techconnect/internal/database"
	deliveryhttp "techconnect/internal/delivery/http"
	"techconnect/internal/delivery/http/controllers"
	"techconnect/internal/delivery/http/middleware"
	"techconnect/internal/domain"
	"techconnect/internal/repository/postgres"
	"techconnect/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(cfg.DBUrl); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewEventRegistrationRepository(db)
	groupRepo := postgres.NewGroupRepository(db)

	// Clerk token bridge. Without a secret key the auth service runs in
	// inline-claims mode and never calls the Clerk API.
	jwks := clerk.NewJWKSClient(cfg.Clerk.JWKSURL)
	verifier := clerk.NewVerifier(jwks, cfg.Clerk.IssuerURL)
	var profiles domain.ProfileFetcher
	if cfg.Clerk.SecretKey != "" {
		profiles = clerk.NewProfileFetcher(cfg.Clerk.APIBase, cfg.Clerk.SecretKey)
	} else {
		logger.Warn("CLERK_SECRET_KEY not set, profile fields come from token claims only")
	}

	// Email
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	// Services
	authService := services.NewAuthService(userRepo, verifier, profiles)
	eventService := services.NewEventService(eventRepo)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo, emailService, logger)
	groupService := services.NewGroupService(groupRepo)

	// Controllers
	authController := controllers.NewAuthController()
	eventController := controllers.NewEventController(logger, eventService)
	attendeeController := controllers.NewAttendeeController(logger, attendeeService)
	groupController := controllers.NewGroupController(logger, groupService)

	mux := deliveryhttp.NewRouter(authService, authController, eventController, attendeeController, groupController)

	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	var handler http.Handler = mux
	handler = rateLimiter.Middleware(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
