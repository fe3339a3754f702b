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

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type eventRegistrationRepository struct {
	DB *sql.DB
}

func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{DB: db}
}

// Register inserts the registration row and applies the counter update in one
// transaction. The counter update is conditional on spots_left > 0, so two
// concurrent registrations for the last spot cannot both commit: the loser's
// update matches no row, the transaction rolls back, and the caller gets
// ErrNoSpotsLeft.
func (r *eventRegistrationRepository) Register(ctx context.Context, reg *domain.EventRegistration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO event_registrations (id, event_id, clerk_user_id, user_email, user_name, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insert,
		reg.ID, reg.EventID, reg.ClerkUserID, reg.UserEmail, reg.UserName, reg.RegisteredAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	// Only the two counter fields are written.
	update := `
		UPDATE events
		SET attendees = attendees + 1, spots_left = spots_left - 1
		WHERE id = $1 AND spots_left > 0
	`
	res, err := tx.ExecContext(ctx, update, reg.EventID)
	if err != nil {
		return fmt.Errorf("update event counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event counters: %w", err)
	}
	if n == 0 {
		return domain.ErrNoSpotsLeft
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// Unregister deletes the registration row and restores the counters in one
// transaction. Counters are intentionally not clamped; register's capacity
// check protects the normal flow.
func (r *eventRegistrationRepository) Unregister(ctx context.Context, eventID, clerkUserID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND clerk_user_id = $2`,
		eventID, clerkUserID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if n == 0 {
		return domain.ErrNotRegistered
	}

	update := `
		UPDATE events
		SET attendees = attendees - 1, spots_left = spots_left + 1
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, eventID); err != nil {
		return fmt.Errorf("update event counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unregistration: %w", err)
	}
	return nil
}

func (r *eventRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, clerkUserID string) (*domain.EventRegistration, error) {
	query := `
		SELECT id, event_id, clerk_user_id, user_email, user_name, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND clerk_user_id = $2
	`
	reg := &domain.EventRegistration{}
	err := r.DB.QueryRowContext(ctx, query, eventID, clerkUserID).
		Scan(&reg.ID, &reg.EventID, &reg.ClerkUserID, &reg.UserEmail, &reg.UserName, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *eventRegistrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	query := `
		SELECT id, event_id, clerk_user_id, user_email, user_name, registered_at
		FROM event_registrations
		WHERE event_id = $1
		ORDER BY registered_at DESC
	`
	return r.list(ctx, query, eventID)
}

func (r *eventRegistrationRepository) ListByUserID(ctx context.Context, clerkUserID string) ([]*domain.EventRegistration, error) {
	query := `
		SELECT id, event_id, clerk_user_id, user_email, user_name, registered_at
		FROM event_registrations
		WHERE clerk_user_id = $1
		ORDER BY registered_at DESC
	`
	return r.list(ctx, query, clerkUserID)
}

func (r *eventRegistrationRepository) list(ctx context.Context, query string, arg any) ([]*domain.EventRegistration, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.EventRegistration
	for rows.Next() {
		reg := &domain.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.ClerkUserID, &reg.UserEmail, &reg.UserName, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	return regs, nil
}
