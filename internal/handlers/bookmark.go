package handlers

import (
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/repo"
	"MarkKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// BookmarkHandler обрабатывает API закладок.
type BookmarkHandler struct {
	BookmarkService *service.BookmarkService
	Logger          *zap.SugaredLogger
}

func NewBookmarkHandler(bookmarkService *service.BookmarkService, logger *zap.SugaredLogger) *BookmarkHandler {
	return &BookmarkHandler{BookmarkService: bookmarkService, Logger: logger}
}

type bookmarkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var categoryID *int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	bms, err := h.BookmarkService.List(r.Context(), categoryID)
	if err != nil {
		h.Logger.Errorw("ListBookmarks: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bms)
}

func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	b, err := h.BookmarkService.Create(r.Context(), req.Title, req.URL, req.Description, req.CategoryID)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "title, url and category are required"})
			return
		}
		h.Logger.Errorw("CreateBookmark: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.BookmarkService.Update(r.Context(), id, req.Title, req.URL, req.Description, req.CategoryID); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "title, url and category are required"})
			return
		}
		h.Logger.Errorw("UpdateBookmark: service error", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.BookmarkService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "bookmark not found"})
			return
		}
		h.Logger.Errorw("DeleteBookmark: service error", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *BookmarkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Bookmarks []repo.BookmarkPlacement `json:"bookmarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.BookmarkService.Reorder(r.Context(), req.Bookmarks); err != nil {
		if errors.Is(err, service.ErrInvalidReorder) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "positions must form a contiguous sequence"})
			return
		}
		h.Logger.Errorw("ReorderBookmarks: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *BookmarkHandler) Move(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookmarkIDs      []int64 `json:"bookmark_ids"`
		TargetCategoryID int64   `json:"target_category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.BookmarkService.MoveBulk(r.Context(), req.BookmarkIDs, req.TargetCategoryID); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bookmark ids and target category are required"})
			return
		}
		h.Logger.Errorw("MoveBookmarks: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// siblingDTO — позиция соседа в срезе категории после переноса.
type siblingDTO struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

func (h *BookmarkHandler) Reposition(w http.ResponseWriter, r *http.Request) {
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
		Position   *int   `json:"position"`
		CategoryID *int64 `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Position == nil || req.CategoryID == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "position and category_id are required"})
		return
	}

	b, siblings, err := h.BookmarkService.Reposition(r.Context(), id, *req.Position, *req.CategoryID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "bookmark not found"})
			return
		}
		h.Logger.Errorw("RepositionBookmark: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to reposition bookmark"})
		return
	}

	snapshot := make([]siblingDTO, 0, len(siblings))
	for _, s := range siblings {
		snapshot = append(snapshot, siblingDTO{ID: s.ID, Title: s.Title, Position: s.Position})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 b.ID,
		"title":              b.Title,
		"url":                b.URL,
		"description":        b.Description,
		"category_id":        b.CategoryID,
		"position":           b.Position,
		"category_bookmarks": snapshot,
		"success":            true,
	})
}
