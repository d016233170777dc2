// Package service holds the business flows: registration, login, access
// control, and prompt management. Flows open one transaction per mutating
// request and translate storage faults into the error taxonomy.
package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"promptstore/internal/models"
	"promptstore/internal/password"
	"promptstore/internal/store"
	"promptstore/internal/token"
)

type AuthService struct {
	db     *sqlx.DB
	tokens *token.Service
}

type Credentials struct {
	Username string
	Password string
}

func NewAuthService(db *sqlx.DB, tokens *token.Service) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Register creates a new user with the default role. Returns ErrConflict
// when the username is taken, whether caught by the pre-check or by the
// unique constraint under a concurrent duplicate.
func (s *AuthService) Register(ctx context.Context, in Credentials) (*models.User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	users := store.NewUserStore(tx)

	existing, err := users.ByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := users.Insert(ctx, user); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown username
// and wrong password both return ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, in Credentials) (string, error) {
	user, err := store.NewUserStore(s.db).ByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if user == nil || !password.Verify(in.Password, user.PasswordHash) {
		return "", ErrUnauthenticated
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// CurrentUser resolves a bearer token to its user. Any token failure, and
// a subject pointing at a user that no longer exists, both return
// ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, tokenStr string) (*models.User, error) {
	userID, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := store.NewUserStore(s.db).ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
