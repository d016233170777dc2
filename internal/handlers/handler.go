package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptstore/internal/models"
	"promptstore/internal/service"
)

// AuthService is the slice of the auth flow the transport layer needs.
type AuthService interface {
	Register(ctx context.Context, in service.Credentials) (*models.User, error)
	Login(ctx context.Context, in service.Credentials) (string, error)
}

// PromptService is the slice of the prompt flow the transport layer needs.
type PromptService interface {
	Create(ctx context.Context, user *models.User, name, content string) (*models.Prompt, error)
	List(ctx context.Context) ([]models.Prompt, error)
	Get(ctx context.Context, id int64) (*models.Prompt, error)
	Update(ctx context.Context, user *models.User, id int64, upd service.PromptUpdate) (*models.Prompt, error)
	Delete(ctx context.Context, user *models.User, id int64) error
	Publish(ctx context.Context, user *models.User, id int64) (*models.Prompt, error)
	Versions(ctx context.Context, id int64) ([]models.PromptVersion, error)
}

type Handler struct {
	Auth    *AuthHandler
	Prompts *PromptHandler
}

func New(auth AuthService, prompts PromptService, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(auth, log),
		Prompts: NewPromptHandler(prompts, log),
	}
}
