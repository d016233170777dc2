package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"promptstore/internal/models"
	"promptstore/internal/store"
)

type PromptService struct {
	db *sqlx.DB
}

// PromptUpdate carries the optional fields of a partial update. Only
// fields that are non-nil are applied.
type PromptUpdate struct {
	Content *string
}

func NewPromptService(db *sqlx.DB) *PromptService {
	return &PromptService{db: db}
}

// Create stores a new prompt owned by user, at version 1. Returns
// ErrConflict when the name is taken.
func (s *PromptService) Create(ctx context.Context, user *models.User, name, content string) (*models.Prompt, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prompts := store.NewPromptStore(tx)

	existing, err := prompts.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	p := &models.Prompt{
		Name:      name,
		Content:   content,
		Version:   1,
		CreatedBy: user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := prompts.Insert(ctx, p); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return p, nil
}

func (s *PromptService) List(ctx context.Context) ([]models.Prompt, error) {
	return store.NewPromptStore(s.db).All(ctx)
}

func (s *PromptService) Get(ctx context.Context, id int64) (*models.Prompt, error) {
	p, err := store.NewPromptStore(s.db).ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update applies the present fields of upd to the prompt. Owner-only.
// The version counter is left untouched; publishing a new version is a
// separate, explicit operation.
func (s *PromptService) Update(ctx context.Context, user *models.User, id int64, upd PromptUpdate) (*models.Prompt, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prompts := store.NewPromptStore(tx)

	p, err := prompts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if err := Authorize(user, p.CreatedBy, OwnerOnly()); err != nil {
		return nil, err
	}

	if upd.Content != nil {
		p.Content = *upd.Content
	}
	p.UpdatedAt = time.Now().UTC()

	if err := prompts.Update(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return p, nil
}

// Delete removes a prompt. Allowed for the owner or an admin.
func (s *PromptService) Delete(ctx context.Context, user *models.User, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prompts := store.NewPromptStore(tx)

	p, err := prompts.ByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}

	if err := Authorize(user, p.CreatedBy, OwnerOrRole(models.RoleAdmin)); err != nil {
		return err
	}

	if err := prompts.Delete(ctx, p.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// Publish snapshots the prompt's current state into prompt_versions and
// then increments the version counter. Owner-only.
func (s *PromptService) Publish(ctx context.Context, user *models.User, id int64) (*models.Prompt, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prompts := store.NewPromptStore(tx)

	p, err := prompts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if err := Authorize(user, p.CreatedBy, OwnerOnly()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := &models.PromptVersion{
		PromptID:  p.ID,
		Name:      p.Name,
		Content:   p.Content,
		Version:   p.Version,
		CreatedBy: p.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := prompts.InsertVersion(ctx, snapshot); err != nil {
		return nil, err
	}

	p.Version++
	p.UpdatedAt = now
	if err := prompts.Update(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return p, nil
}

// Versions lists a prompt's published snapshots, oldest first.
func (s *PromptService) Versions(ctx context.Context, id int64) ([]models.PromptVersion, error) {
	prompts := store.NewPromptStore(s.db)

	p, err := prompts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	return prompts.VersionsByPromptID(ctx, p.ID)
}
