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

const groupColumns = `id, name, slug, description, category, tags, location, is_online, member_count, event_count, owner_id, created_at`

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	query := `
		INSERT INTO groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		g.ID, g.Name, g.Slug, g.Description, g.Category, pq.Array(g.Tags),
		g.Location, g.IsOnline, g.MemberCount, g.EventCount, g.OwnerID, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func scanGroup(row interface{ Scan(...any) error }) (*domain.Group, error) {
	g := &domain.Group{}
	err := row.Scan(
		&g.ID, &g.Name, &g.Slug, &g.Description, &g.Category, pq.Array(&g.Tags),
		&g.Location, &g.IsOnline, &g.MemberCount, &g.EventCount, &g.OwnerID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(r.DB.QueryRowContext(ctx, query, id))
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE slug = $1`
	return scanGroup(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *groupRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Group, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + groupColumns + `
		FROM groups
		ORDER BY member_count DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	groups, err := collectGroups(rows)
	if err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

func (r *groupRepository) ListByMember(ctx context.Context, clerkUserID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.description, g.category, g.tags, g.location,
		       g.is_online, g.member_count, g.event_count, g.owner_id, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.clerk_user_id = $1
		ORDER BY m.joined_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, clerkUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGroups(rows)
}

func collectGroups(rows *sql.Rows) ([]*domain.Group, error) {
	var groups []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, nil
}

func (r *groupRepository) Update(ctx context.Context, g *domain.Group) error {
	query := `
		UPDATE groups
		SET name = $1, description = $2, category = $3, tags = $4, location = $5, is_online = $6
		WHERE id = $7
	`
	res, err := r.DB.ExecContext(ctx, query,
		g.Name, g.Description, g.Category, pq.Array(g.Tags), g.Location, g.IsOnline, g.ID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
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

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
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

func (r *groupRepository) AddMember(ctx context.Context, m *domain.GroupMember) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO group_members (group_id, clerk_user_id, user_email, user_name, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insert,
		m.GroupID, m.ClerkUserID, m.UserEmail, m.UserName, m.JoinedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("insert membership: %w", err)
	}

	if err := refreshMemberCount(ctx, tx, m.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit membership: %w", err)
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, clerkUserID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND clerk_user_id = $2`,
		groupID, clerkUserID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotMember
	}

	if err := refreshMemberCount(ctx, tx, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit membership removal: %w", err)
	}
	return nil
}

// refreshMemberCount recomputes member_count from the membership rows so the
// counter cannot drift.
func refreshMemberCount(ctx context.Context, tx *sql.Tx, groupID string) error {
	query := `
		UPDATE groups
		SET member_count = (SELECT COUNT(*) FROM group_members WHERE group_id = $1)
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, groupID); err != nil {
		return fmt.Errorf("refresh member count: %w", err)
	}
	return nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, clerkUserID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND clerk_user_id = $2)`,
		groupID, clerkUserID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	query := `
		SELECT group_id, clerk_user_id, user_email, user_name, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.GroupMember
	for rows.Next() {
		m := &domain.GroupMember{}
		if err := rows.Scan(&m.GroupID, &m.ClerkUserID, &m.UserEmail, &m.UserName, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if members == nil {
		members = []*domain.GroupMember{}
	}
	return members, nil
}
