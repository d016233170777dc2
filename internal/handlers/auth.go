package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"promptstore/internal/service"
	"promptstore/internal/utils"
)

type AuthHandler struct {
	auth AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// ----------- Request/Response DTOs -------------

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResp struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.auth.Register(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			utils.JSONError(w, http.StatusBadRequest, "username already registered")
			return
		}
		h.log.Error("register failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, userResp{ID: user.ID, Username: user.Username})
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	tok, err := h.auth.Login(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			// One message for unknown username and wrong password.
			utils.JSONError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, tokenResp{AccessToken: tok, TokenType: "bearer"})
}
