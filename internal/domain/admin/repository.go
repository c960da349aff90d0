package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const adminColumns = `id, username, password_hash, name, created_at, updated_at`

func (r *Repository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE username = $1`, adminColumns)
	err := r.db.GetContext(ctx, &a, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	var a Admin
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1`, adminColumns)
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}
