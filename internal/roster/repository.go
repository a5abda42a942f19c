package roster

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles roster data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new roster repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RegisterOrUpdate upserts a user record. The username is updated
// unconditionally; the full name only when no non-empty value was stored
// before (first non-empty write wins); the coordinator flag may only be
// promoted, never cleared. The operation is idempotent and commits in a
// single statement.
func (r *Repository) RegisterOrUpdate(ctx context.Context, id int64, username, fullName *string, isCoordinator bool) (*User, error) {
	query := `
		INSERT INTO users (id, username, full_name, is_coordinator)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (id) DO UPDATE
		SET username       = EXCLUDED.username,
		    full_name      = COALESCE(users.full_name, EXCLUDED.full_name),
		    is_coordinator = users.is_coordinator OR EXCLUDED.is_coordinator
		RETURNING id, username, full_name, is_coordinator, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id, username, fullName, isCoordinator).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.IsCoordinator,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their external identity
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, full_name, is_coordinator, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.IsCoordinator,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// SetFullName stores the name collected by the registration conversation.
// The conversation only runs while no name is stored, which preserves the
// first-non-empty-wins invariant.
func (r *Repository) SetFullName(ctx context.Context, id int64, fullName string) error {
	query := `UPDATE users SET full_name = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, fullName)
	if err != nil {
		return fmt.Errorf("failed to set full name: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// ListIDs returns every known user identifier, ascending. Campaign
// snapshots are built from this list.
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// ListAll returns all users ordered by registration time ascending
func (r *Repository) ListAll(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, username, full_name, is_coordinator, created_at
		FROM users
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FullName,
			&user.IsCoordinator,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}
