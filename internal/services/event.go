package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techconnect/internal/domain"
)

const upcomingEventsLimit = 10

type eventService struct {
	eventRepo domain.EventRepository
}

// NewEventService creates an EventService with the given repository.
func NewEventService(eventRepo domain.EventRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.CreatedBy == "" {
		return fmt.Errorf("event creator is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	if event.Type == "" {
		event.Type = "Other"
	}
	if !domain.ValidEventType(event.Type) {
		return fmt.Errorf("invalid event type %q: %w", event.Type, domain.ErrInvalidInput)
	}
	if event.Tags == nil {
		event.Tags = []string{"uncategorized"}
	}
	if event.Slug == "" {
		event.Slug = domain.Slugify(event.Title)
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, idOrSlug string) (*domain.Event, error) {
	return resolveEvent(ctx, s.eventRepo, idOrSlug)
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListUpcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, upcomingEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, clerkUserID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByCreator(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, idOrSlug, clerkUserID string, update domain.EventUpdate) (*domain.Event, error) {
	event, err := resolveEvent(ctx, s.eventRepo, idOrSlug)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != clerkUserID {
		return nil, domain.ErrForbidden
	}

	if update.Title != nil {
		event.Title = *update.Title
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Date != nil {
		event.Date = *update.Date
	}
	if update.Time != nil {
		event.Time = *update.Time
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.IsOnline != nil {
		event.IsOnline = *update.IsOnline
	}
	if update.Type != nil {
		if !domain.ValidEventType(*update.Type) {
			return nil, fmt.Errorf("invalid event type %q: %w", *update.Type, domain.ErrInvalidInput)
		}
		event.Type = *update.Type
	}
	if update.Tags != nil {
		event.Tags = update.Tags
	}
	if update.Organizer != nil {
		event.Organizer = *update.Organizer
	}
	if update.OrganizerImage != nil {
		event.OrganizerImage = *update.OrganizerImage
	}
	if update.IsFree != nil {
		event.IsFree = *update.IsFree
	}
	if update.Price != nil {
		event.Price = *update.Price
	}
	if update.SpotsLeft != nil {
		event.SpotsLeft = *update.SpotsLeft
	}
	if update.RegistrationURL != nil {
		event.RegistrationURL = *update.RegistrationURL
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, idOrSlug, clerkUserID string) error {
	event, err := resolveEvent(ctx, s.eventRepo, idOrSlug)
	if err != nil {
		return err
	}
	if event.CreatedBy != clerkUserID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
