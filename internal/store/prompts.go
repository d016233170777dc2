package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"promptstore/internal/models"
)

type PromptStore struct {
	q sqlx.ExtContext
}

func NewPromptStore(q sqlx.ExtContext) *PromptStore {
	return &PromptStore{q: q}
}

// ByName returns the prompt with the given name, or nil if absent.
func (s *PromptStore) ByName(ctx context.Context, name string) (*models.Prompt, error) {
	var p models.Prompt

	err := sqlx.GetContext(ctx, s.q, &p,
		`SELECT id, name, content, version, created_by, created_at, updated_at FROM prompts WHERE name=$1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query prompt by name: %w", err)
	}
	return &p, nil
}

// ByID returns the prompt with the given id, or nil if absent.
func (s *PromptStore) ByID(ctx context.Context, id int64) (*models.Prompt, error) {
	var p models.Prompt

	err := sqlx.GetContext(ctx, s.q, &p,
		`SELECT id, name, content, version, created_by, created_at, updated_at FROM prompts WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query prompt by id: %w", err)
	}
	return &p, nil
}

// All returns every prompt in insertion order.
func (s *PromptStore) All(ctx context.Context) ([]models.Prompt, error) {
	prompts := []models.Prompt{}

	err := sqlx.SelectContext(ctx, s.q, &prompts,
		`SELECT id, name, content, version, created_by, created_at, updated_at FROM prompts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

// Insert stores a new prompt and assigns its id.
func (s *PromptStore) Insert(ctx context.Context, p *models.Prompt) error {
	err := sqlx.GetContext(ctx, s.q, &p.ID, `
		INSERT INTO prompts (name, content, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Name, p.Content, p.Version, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an existing prompt.
func (s *PromptStore) Update(ctx context.Context, p *models.Prompt) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE prompts
		SET content=$1, version=$2, updated_at=$3
		WHERE id=$4
	`, p.Content, p.Version, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	return nil
}

func (s *PromptStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM prompts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}

// InsertVersion writes a historical snapshot row for a prompt.
func (s *PromptStore) InsertVersion(ctx context.Context, v *models.PromptVersion) error {
	err := sqlx.GetContext(ctx, s.q, &v.ID, `
		INSERT INTO prompt_versions (prompt_id, name, content, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, v.PromptID, v.Name, v.Content, v.Version, v.CreatedBy, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert prompt version: %w", err)
	}
	return nil
}

// VersionsByPromptID returns a prompt's snapshots, oldest first.
func (s *PromptStore) VersionsByPromptID(ctx context.Context, promptID int64) ([]models.PromptVersion, error) {
	versions := []models.PromptVersion{}

	err := sqlx.SelectContext(ctx, s.q, &versions, `
		SELECT id, prompt_id, name, content, version, created_by, created_at, updated_at
		FROM prompt_versions
		WHERE prompt_id=$1
		ORDER BY version
	`, promptID)
	if err != nil {
		return nil, fmt.Errorf("list prompt versions: %w", err)
	}
	return versions, nil
}
