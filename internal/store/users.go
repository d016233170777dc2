package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"promptstore/internal/models"
)

type UserStore struct {
	q sqlx.ExtContext
}

func NewUserStore(q sqlx.ExtContext) *UserStore {
	return &UserStore{q: q}
}

// ByUsername returns the user with the given username, or nil if absent.
func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User

	err := sqlx.GetContext(ctx, s.q, &u,
		`SELECT id, username, password_hash, role FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return &u, nil
}

// ByID returns the user with the given id, or nil if absent.
func (s *UserStore) ByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User

	err := sqlx.GetContext(ctx, s.q, &u,
		`SELECT id, username, password_hash, role FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &u, nil
}

// Insert stores a new user and assigns its id.
func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	err := sqlx.GetContext(ctx, s.q, &u.ID, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, u.Username, u.PasswordHash, u.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
