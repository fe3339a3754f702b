package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techconnect/internal/domain"
)

func TestEventService_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.Event
		wantErr error
	}{
		{
			name:  "success with generated slug",
			event: &domain.Event{Title: "TechConnect Hackathon 2025!", Type: "Hackathon", CreatedBy: "owner"},
		},
		{
			name:    "missing creator",
			event:   &domain.Event{Title: "Conf", Type: "Conference"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing title",
			event:   &domain.Event{Title: "  ", Type: "Conference", CreatedBy: "owner"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "invalid type",
			event:   &domain.Event{Title: "Conf", Type: "Festival", CreatedBy: "owner"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			svc := NewEventService(repo)

			err := svc.CreateEvent(context.Background(), tt.event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "techconnect-hackathon-2025", tt.event.Slug)
			assert.Equal(t, []string{"uncategorized"}, tt.event.Tags)
			assert.NotEmpty(t, tt.event.ID)
		})
	}
}

func TestEventService_GetEvent_SlugFallback(t *testing.T) {
	ev := &domain.Event{ID: "ev-1", Slug: "go-meetup-berlin", Title: "Go Meetup Berlin"}
	svc := NewEventService(newFakeEventRepo(ev))

	for _, key := range []string{"ev-1", "go-meetup-berlin", "Go Meetup Berlin"} {
		got, err := svc.GetEvent(context.Background(), key)
		require.NoError(t, err, "lookup by %q", key)
		assert.Equal(t, "ev-1", got.ID)
	}

	_, err := svc.GetEvent(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_UpdateEvent(t *testing.T) {
	newTitle := "Renamed"
	badType := "Festival"

	t.Run("owner updates fields", func(t *testing.T) {
		ev := &domain.Event{ID: "ev-1", Title: "Conf", Type: "Conference", CreatedBy: "owner"}
		svc := NewEventService(newFakeEventRepo(ev))

		updated, err := svc.UpdateEvent(context.Background(), "ev-1", "owner", domain.EventUpdate{Title: &newTitle})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		ev := &domain.Event{ID: "ev-1", Title: "Conf", Type: "Conference", CreatedBy: "owner"}
		svc := NewEventService(newFakeEventRepo(ev))

		_, err := svc.UpdateEvent(context.Background(), "ev-1", "intruder", domain.EventUpdate{Title: &newTitle})

		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		ev := &domain.Event{ID: "ev-1", Title: "Conf", Type: "Conference", CreatedBy: "owner"}
		svc := NewEventService(newFakeEventRepo(ev))

		_, err := svc.UpdateEvent(context.Background(), "ev-1", "owner", domain.EventUpdate{Type: &badType})

		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ev := &domain.Event{ID: "ev-1", Title: "Conf", CreatedBy: "owner"}
	repo := newFakeEventRepo(ev)
	svc := NewEventService(repo)

	require.ErrorIs(t, svc.DeleteEvent(context.Background(), "ev-1", "intruder"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteEvent(context.Background(), "ev-1", "owner"))

	_, err := svc.GetEvent(context.Background(), "ev-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListMyEvents(t *testing.T) {
	repo := newFakeEventRepo(
		&domain.Event{ID: "ev-1", CreatedBy: "owner"},
		&domain.Event{ID: "ev-2", CreatedBy: "owner"},
		&domain.Event{ID: "ev-3", CreatedBy: "someone-else"},
	)
	svc := NewEventService(repo)

	mine, err := svc.ListMyEvents(context.Background(), "owner")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := svc.ListMyEvents(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
