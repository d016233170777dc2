package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"promptstore/internal/middleware"
	"promptstore/internal/models"
	"promptstore/internal/service"
	"promptstore/internal/utils"
)

type PromptHandler struct {
	prompts PromptService
	log     *zap.Logger
}

func NewPromptHandler(prompts PromptService, log *zap.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, log: log}
}

type createPromptReq struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type updatePromptReq struct {
	Content *string `json:"content"`
}

func (h *PromptHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return user, true
}

func (h *PromptHandler) promptID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid prompt id")
		return 0, false
	}
	return id, true
}

func (h *PromptHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "prompt not found")
	case errors.Is(err, service.ErrForbidden):
		utils.JSONError(w, http.StatusForbidden, "not authorized for this prompt")
	case errors.Is(err, service.ErrConflict):
		utils.JSONError(w, http.StatusBadRequest, "prompt name already exists")
	default:
		h.log.Error(op+" failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// ---------------------- CREATE ----------------------

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req createPromptReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Name == "" || req.Content == "" {
		utils.JSONError(w, http.StatusBadRequest, "name and content required")
		return
	}

	p, err := h.prompts.Create(r.Context(), user, req.Name, req.Content)
	if err != nil {
		h.fail(w, "create prompt", err)
		return
	}

	utils.JSON(w, http.StatusOK, p)
}

// ---------------------- LIST ----------------------

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.prompts.List(r.Context())
	if err != nil {
		h.fail(w, "list prompts", err)
		return
	}

	utils.JSON(w, http.StatusOK, all)
}

// ---------------------- GET ONE ----------------------

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}

	p, err := h.prompts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get prompt", err)
		return
	}

	utils.JSON(w, http.StatusOK, p)
}

// ---------------------- UPDATE ----------------------

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}

	var req updatePromptReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	p, err := h.prompts.Update(r.Context(), user, id, service.PromptUpdate{Content: req.Content})
	if err != nil {
		h.fail(w, "update prompt", err)
		return
	}

	utils.JSON(w, http.StatusOK, p)
}

// ---------------------- DELETE ----------------------

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}

	if err := h.prompts.Delete(r.Context(), user, id); err != nil {
		h.fail(w, "delete prompt", err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"detail": "prompt deleted"})
}

// ---------------------- PUBLISH ----------------------

func (h *PromptHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}

	p, err := h.prompts.Publish(r.Context(), user, id)
	if err != nil {
		h.fail(w, "publish prompt", err)
		return
	}

	utils.JSON(w, http.StatusOK, p)
}

// ---------------------- VERSIONS ----------------------

func (h *PromptHandler) Versions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}

	versions, err := h.prompts.Versions(r.Context(), id)
	if err != nil {
		h.fail(w, "list prompt versions", err)
		return
	}

	utils.JSON(w, http.StatusOK, versions)
}
