package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"techconnect/internal/domain"
)

const eventColumns = `id, title, slug, description, date, time, location, is_online, type, tags,
		organizer, organizer_image, attendees, is_free, price, spots_left, registration_url,
		created_by, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, title, slug, description, date, time, location, is_online, type, tags,
			organizer, organizer_image, attendees, is_free, price, spots_left, registration_url,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Slug, e.Description, e.Date, e.Time, e.Location, e.IsOnline, e.Type, pq.Array(e.Tags),
		e.Organizer, e.OrganizerImage, e.Attendees, e.IsFree, e.Price, e.SpotsLeft, e.RegistrationURL,
		e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	return err
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.IsOnline, &e.Type, pq.Array(&e.Tags), &e.Organizer, &e.OrganizerImage, &e.Attendees,
		&e.IsFree, &e.Price, &e.SpotsLeft, &e.RegistrationURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, slug))
}

// orderColumn maps the public ordering names onto columns. Anything else
// falls back to date.
func orderColumn(orderBy string) string {
	switch orderBy {
	case "price", "attendees":
		return orderBy
	default:
		return "date"
	}
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := ""
	args := []any{}
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}

	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.IsOnline != nil {
		add("is_online = $%d", *filter.IsOnline)
	}
	if filter.IsFree != nil {
		add("is_free = $%d", *filter.IsFree)
	}
	if filter.Search != "" {
		// The same placeholder serves all four columns.
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		cond := fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d OR organizer ILIKE $%d)", n, n, n, n)
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	countQuery := `SELECT COUNT(*) FROM events` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` FROM events` + where +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderColumn(filter.OrderBy), len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListByCreator(ctx context.Context, clerkUserID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, clerkUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, date = $4, time = $5, location = $6,
			is_online = $7, type = $8, tags = $9, organizer = $10, organizer_image = $11,
			is_free = $12, price = $13, spots_left = $14, registration_url = $15, updated_at = $16
		WHERE id = $17
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Date, e.Time, e.Location,
		e.IsOnline, e.Type, pq.Array(e.Tags), e.Organizer, e.OrganizerImage,
		e.IsFree, e.Price, e.SpotsLeft, e.RegistrationURL, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
