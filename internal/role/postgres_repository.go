package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roleColumns = `id, name, display_name, description, is_active, created_by, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new role record. A name collision maps to ErrDuplicateRoleName.
func (r *PostgresRepository) Create(ctx context.Context, ro *Role) error {
	query := `
		INSERT INTO roles (name, display_name, description, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		ro.Name,
		ro.DisplayName,
		ro.Description,
		ro.IsActive,
		ro.CreatedBy,
	).Scan(&ro.ID, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoleName
		}
		return fmt.Errorf("inserting role: %w", err)
	}

	return nil
}

// GetByID retrieves a single role by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByName retrieves a single role by its unique name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	return r.scanOne(ctx, query, name)
}

// List retrieves roles ordered by name.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles`
	if filter.ActiveOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var ro Role
		if err := scanRole(rows, &ro); err != nil {
			return nil, fmt.Errorf("scanning role row: %w", err)
		}
		roles = append(roles, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role rows: %w", err)
	}

	if roles == nil {
		roles = []Role{}
	}

	return roles, nil
}

// SetActive toggles the soft-enable flag of a role.
func (r *PostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Role, error) {
	query := `
		UPDATE roles
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roleColumns

	return r.scanOne(ctx, query, id, active)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Role, error) {
	var ro Role
	if err := scanRole(r.pool.QueryRow(ctx, query, args...), &ro); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("querying role: %w", err)
	}
	return &ro, nil
}

func scanRole(row pgx.Row, ro *Role) error {
	return row.Scan(
		&ro.ID, &ro.Name, &ro.DisplayName, &ro.Description,
		&ro.IsActive, &ro.CreatedBy, &ro.CreatedAt, &ro.UpdatedAt,
	)
}
