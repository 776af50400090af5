package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"discloser/internal/models"
)

const userColumns = `id, sub, email, name, picture, alias, legal_first_name, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Sub,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.Alias,
		&user.LegalFirstName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUser creates or updates a user from OIDC claims, keyed by subject.
// Profile fields the owner maintains (alias, legal first name) are preserved.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (sub, email, name, picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = NOW()
		RETURNING id, alias, legal_first_name, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		user.Sub,
		user.Email,
		user.Name,
		user.Picture,
	).Scan(&user.ID, &user.Alias, &user.LegalFirstName, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserBySub retrieves a user by OIDC subject.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sub = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, sub))
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, id))
}

// UpdateUserProfile updates the owner-maintained disclosure identity fields.
func (d *DB) UpdateUserProfile(ctx context.Context, id uuid.UUID, alias, legalFirstName string) error {
	query := `
		UPDATE users
		SET alias = $1, legal_first_name = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := d.Pool.Exec(ctx, query, alias, legalFirstName, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
