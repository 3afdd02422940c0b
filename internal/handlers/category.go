package handlers

import (
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/repo"
	"MarkKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// CategoryHandler обрабатывает API категорий.
type CategoryHandler struct {
	CategoryService *service.CategoryService
	Logger          *zap.SugaredLogger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{CategoryService: categoryService, Logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	cats, err := h.CategoryService.List(r.Context())
	if err != nil {
		h.Logger.Errorw("ListCategories: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cat, err := h.CategoryService.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "category name must not be empty"})
			return
		}
		h.Logger.Errorw("CreateCategory: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.CategoryService.Rename(r.Context(), id, req.Name); err != nil {
		if errors.Is(err, service.ErrEmptyName) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "category name must not be empty"})
			return
		}
		h.Logger.Errorw("RenameCategory: service error", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.CategoryService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrHasChildren) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "delete sub-categories first"})
			return
		}
		h.Logger.Errorw("DeleteCategory: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "failed to delete category"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "category deleted"})
}

func (h *CategoryHandler) Move(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		ParentID *int64 `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.CategoryService.Move(r.Context(), id, req.ParentID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "category not found"})
		case errors.Is(err, service.ErrHasChildren):
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "move sub-categories out first"})
		case errors.Is(err, service.ErrInvalidParent):
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "target parent must be a top-level category"})
		case errors.Is(err, service.ErrCyclicReference):
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "cannot move a category under its own sub-category"})
		default:
			h.Logger.Errorw("MoveCategory: service error", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "failed to move category"})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "category moved"})
}

func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Categories []repo.CategoryPlacement `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.CategoryService.Reorder(r.Context(), req.Categories); err != nil {
		if errors.Is(err, service.ErrInvalidReorder) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "positions must form a contiguous sequence"})
			return
		}
		h.Logger.Errorw("ReorderCategories: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
