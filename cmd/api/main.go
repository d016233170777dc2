package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"promptstore/internal/config"
	"promptstore/internal/db"
	"promptstore/internal/handlers"
	"promptstore/internal/middleware"
	"promptstore/internal/service"
	"promptstore/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	dbConn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(dbConn, tokens)
	promptSvc := service.NewPromptService(dbConn)

	h := handlers.New(authSvc, promptSvc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	// Public
	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)
	r.Get("/prompts", h.Prompts.List)
	r.Get("/prompts/{id}", h.Prompts.Get)
	r.Get("/prompts/{id}/versions", h.Prompts.Versions)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authSvc))

		r.Post("/prompts", h.Prompts.Create)
		r.Put("/prompts/{id}", h.Prompts.Update)
		r.Delete("/prompts/{id}", h.Prompts.Delete)
		r.Post("/prompts/{id}/publish", h.Prompts.Publish)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
