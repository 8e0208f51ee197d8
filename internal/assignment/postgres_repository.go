package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assignmentColumns = `id, user_id, role_id, is_active, assigned_at, assigned_by, revoked_at, revoked_by, notes`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetOrCreate relies on uq_role_assignments_user_role: the insert does nothing
// on conflict and the existing row is read back instead.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, in NewAssignment) (*Assignment, bool, error) {
	insert := `
		INSERT INTO role_assignments (user_id, role_id, is_active, assigned_at, assigned_by, notes)
		VALUES ($1, $2, TRUE, $3, $4, $5)
		ON CONFLICT (user_id, role_id) DO NOTHING
		RETURNING ` + assignmentColumns

	var a Assignment
	err := scanAssignment(r.pool.QueryRow(ctx, insert,
		in.UserID,
		in.RoleID,
		in.AssignedAt,
		in.AssignedBy,
		in.Notes,
	), &a)
	if err == nil {
		return &a, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("inserting assignment: %w", err)
	}

	existing, err := r.scanOne(ctx,
		`SELECT `+assignmentColumns+` FROM role_assignments WHERE user_id = $1 AND role_id = $2`,
		in.UserID, in.RoleID)
	if err != nil {
		return nil, false, fmt.Errorf("reading existing assignment: %w", err)
	}
	return existing, false, nil
}

// GetByID retrieves a single assignment by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return r.scanOne(ctx, `SELECT `+assignmentColumns+` FROM role_assignments WHERE id = $1`, id)
}

// Revoke deactivates an active assignment. When the row is already inactive
// it is returned untouched; a missing row yields ErrAssignmentNotFound.
func (r *PostgresRepository) Revoke(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (*Assignment, error) {
	query := `
		UPDATE role_assignments
		SET is_active = FALSE, revoked_at = $2, revoked_by = $3
		WHERE id = $1 AND is_active
		RETURNING ` + assignmentColumns

	a, err := r.scanOne(ctx, query, id, at, by)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrAssignmentNotFound) {
		return nil, fmt.Errorf("revoking assignment: %w", err)
	}

	// Nothing updated: either the row is missing or it was already revoked.
	return r.GetByID(ctx, id)
}

// ListByUser retrieves the assignments of a user ordered by assignment time.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM role_assignments WHERE user_id = $1`
	if filter.ActiveOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY assigned_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		if err := scanAssignment(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignment rows: %w", err)
	}

	if assignments == nil {
		assignments = []Assignment{}
	}

	return assignments, nil
}

// ListRoleViews joins the active assignments of a user with role details and
// the assigner's email.
func (r *PostgresRepository) ListRoleViews(ctx context.Context, userID uuid.UUID) ([]RoleView, error) {
	query := `
		SELECT a.id, r.id, r.name, r.display_name, r.description, a.assigned_at, u.email
		FROM role_assignments a
		JOIN roles r ON r.id = a.role_id
		LEFT JOIN users u ON u.id = a.assigned_by
		WHERE a.user_id = $1 AND a.is_active
		ORDER BY a.assigned_at ASC, r.name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing role views: %w", err)
	}
	defer rows.Close()

	var views []RoleView
	for rows.Next() {
		var v RoleView
		err := rows.Scan(
			&v.AssignmentID, &v.RoleID, &v.Name, &v.DisplayName, &v.Description,
			&v.AssignedAt, &v.AssignedByEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning role view row: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role view rows: %w", err)
	}

	if views == nil {
		views = []RoleView{}
	}

	return views, nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Assignment, error) {
	var a Assignment
	if err := scanAssignment(r.pool.QueryRow(ctx, query, args...), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("querying assignment: %w", err)
	}
	return &a, nil
}

func scanAssignment(row pgx.Row, a *Assignment) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.RoleID, &a.IsActive, &a.AssignedAt,
		&a.AssignedBy, &a.RevokedAt, &a.RevokedBy, &a.Notes,
	)
}
