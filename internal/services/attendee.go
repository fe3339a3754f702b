package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"techconnect/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	emailService     domain.EmailService
	logger           *slog.Logger
}

// NewAttendeeService creates the registration ledger with the given
// repositories. emailService may be nil, in which case no confirmation
// mail is sent.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

// resolveEvent looks an event up by id or slug: exact slug match first, then
// the lower-kebab normalized form.
func resolveEvent(ctx context.Context, repo domain.EventRepository, idOrSlug string) (*domain.Event, error) {
	event, err := repo.GetByID(ctx, idOrSlug)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}
	event, err = repo.GetBySlug(ctx, idOrSlug)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	normalized := domain.Slugify(idOrSlug)
	if normalized == "" || normalized == idOrSlug {
		return nil, domain.ErrNotFound
	}
	event, err = repo.GetBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by normalized slug: %w", err)
	}
	return event, nil
}

func (s *attendeeService) RegisterForEvent(ctx context.Context, idOrSlug string, user *domain.User) (*domain.RegistrationResult, error) {
	event, err := resolveEvent(ctx, s.eventRepo, idOrSlug)
	if err != nil {
		return nil, err
	}

	// External registration bypasses the ledger entirely: no local state is
	// touched.
	if event.RegistrationURL != "" {
		return &domain.RegistrationResult{
			Status:          domain.RegistrationStatusExternal,
			RegistrationURL: event.RegistrationURL,
		}, nil
	}

	// Idempotent: a second register for the same (event, user) is a no-op.
	if existing, err := s.registrationRepo.GetByEventAndUser(ctx, event.ID, user.ClerkID); err == nil {
		return &domain.RegistrationResult{
			Status:       domain.RegistrationStatusAlreadyRegistered,
			Registration: existing,
		}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event registration: %w", err)
	}

	if event.SpotsLeft <= 0 {
		return nil, domain.ErrNoSpotsLeft
	}

	reg := domain.NewEventRegistration(event.ID, user.ClerkID, user.Email, user.FullName(), time.Now())
	if err := s.registrationRepo.Register(ctx, reg); err != nil {
		// The repository re-checks capacity atomically and surfaces a
		// concurrent duplicate as ErrAlreadyRegistered.
		if errors.Is(err, domain.ErrNoSpotsLeft) {
			return nil, domain.ErrNoSpotsLeft
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create event registration: %w", err)
	}

	s.sendConfirmation(ctx, event, user)

	return &domain.RegistrationResult{
		Status:       domain.RegistrationStatusRegistered,
		Registration: reg,
	}, nil
}

// sendConfirmation sends the registration confirmation best-effort: a mail
// failure never fails the registration.
func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, user *domain.User) {
	if s.emailService == nil || user.Email == "" {
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:      user.Email,
		UserName:   user.FullName(),
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Location:   event.Location,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation email failed",
			"event_id", event.ID, "email", user.Email, "err", err)
	}
}

func (s *attendeeService) UnregisterFromEvent(ctx context.Context, idOrSlug string, user *domain.User) (*domain.RegistrationResult, error) {
	event, err := resolveEvent(ctx, s.eventRepo, idOrSlug)
	if err != nil {
		return nil, err
	}

	if err := s.registrationRepo.Unregister(ctx, event.ID, user.ClerkID); err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("delete event registration: %w", err)
	}
	return &domain.RegistrationResult{Status: domain.RegistrationStatusUnregistered}, nil
}

func (s *attendeeService) ListAttendees(ctx context.Context, idOrSlug, clerkUserID string) ([]*domain.EventRegistration, error) {
	event, err := resolveEvent(ctx, s.eventRepo, idOrSlug)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != clerkUserID {
		return nil, domain.ErrForbidden
	}
	regs, err := s.registrationRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	return regs, nil
}

func (s *attendeeService) ListMyRegistrations(ctx context.Context, clerkUserID string) ([]*domain.EventRegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	// Fetch events one by one (N+1). This keeps the implementation simple; we can optimize later if needed.
	eventsByID := make(map[string]*domain.Event)
	result := []*domain.EventRegistrationWithEvent{}

	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the entry.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.EventRegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}
