package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"techconnect/internal/domain"
)

var eventRows = []string{
	"id", "title", "slug", "description", "date", "time", "location", "is_online", "type", "tags",
	"organizer", "organizer_image", "attendees", "is_free", "price", "spots_left", "registration_url",
	"created_by", "created_at", "updated_at",
}

func eventRow(rs *sqlmock.Rows, e *domain.Event) *sqlmock.Rows {
	return rs.AddRow(
		e.ID, e.Title, e.Slug, e.Description, e.Date, e.Time, e.Location, e.IsOnline, e.Type,
		pq.Array(e.Tags), e.Organizer, e.OrganizerImage, e.Attendees, e.IsFree, e.Price,
		e.SpotsLeft, e.RegistrationURL, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
}

func sampleEvent() *domain.Event {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:          "ev-1",
		Title:       "Go Berlin Meetup",
		Slug:        "go-berlin-meetup",
		Description: "Monthly Go meetup",
		Date:        "2025-09-12",
		Time:        "18:30",
		Location:    "Berlin",
		Type:        "Meetup",
		Tags:        []string{"go", "community"},
		Organizer:   "Go Berlin",
		Attendees:   12,
		IsFree:      true,
		SpotsLeft:   38,
		CreatedBy:   "user_abc",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		mock.ExpectExec(`INSERT INTO events`).
			WithArgs(e.ID, e.Title, e.Slug, e.Description, e.Date, e.Time, e.Location, e.IsOnline,
				e.Type, pq.Array(e.Tags), e.Organizer, e.OrganizerImage, e.Attendees, e.IsFree,
				e.Price, e.SpotsLeft, e.RegistrationURL, e.CreatedBy, e.CreatedAt, e.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Create(ctx, e))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO events`).WillReturnError(sql.ErrConnDone)

		repo := NewEventRepository(db)
		require.Error(t, repo.Create(ctx, sampleEvent()))
	})
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := sampleEvent()
		mock.ExpectQuery(`FROM events WHERE slug = \$1`).
			WithArgs("go-berlin-meetup").
			WillReturnRows(eventRow(sqlmock.NewRows(eventRows), e))

		repo := NewEventRepository(db)
		got, err := repo.GetBySlug(ctx, "go-berlin-meetup")
		require.NoError(t, err)
		require.Equal(t, e.ID, got.ID)
		require.Equal(t, e.Tags, got.Tags)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events WHERE slug = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetBySlug(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("no filters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`FROM events ORDER BY date LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 0).
			WillReturnRows(eventRow(sqlmock.NewRows(eventRows), sampleEvent()))

		repo := NewEventRepository(db)
		events, total, err := repo.List(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 1, PageSize: 20})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, events, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("type and search filters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE type = \$1 AND \(title ILIKE \$2 OR description ILIKE \$2 OR location ILIKE \$2 OR organizer ILIKE \$2\)`).
			WithArgs("Meetup", "%berlin%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`FROM events WHERE type = \$1 AND .* ORDER BY attendees LIMIT \$3 OFFSET \$4`).
			WithArgs("Meetup", "%berlin%", 10, 10).
			WillReturnRows(eventRow(sqlmock.NewRows(eventRows), sampleEvent()))

		repo := NewEventRepository(db)
		filter := domain.EventFilter{Type: "Meetup", Search: "berlin", OrderBy: "attendees"}
		events, total, err := repo.List(ctx, filter, domain.PaginationParams{Page: 2, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, events, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row returns ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Update(ctx, sampleEvent()), domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(ctx, "ev-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
