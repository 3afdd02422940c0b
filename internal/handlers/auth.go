package handlers

import (
	"MarkKeeper/internal/config"
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Единое сообщение отказа входа: причина не раскрывается.
const loginFailedMessage = "login failed, check your username and password"

// AuthHandler обрабатывает вход, регистрацию и выход.
type AuthHandler struct {
	AuthService *service.AuthService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AuthService: authService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginPage: пока нет администратора, вход не имеет смысла — уводим
// на регистрацию.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	hasAdmin, err := h.AuthService.HasAdmin(r.Context())
	if err != nil {
		h.Logger.Errorw("LoginPage: storage error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !hasAdmin {
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": "login required"})
}

// Login — вход с дросселированием по IP.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			h.Logger.Infow("Login: rejected", "reason", authErr.Reason)
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": loginFailedMessage})
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, session.UserID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set cookie", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RegisterPage: когда администратор уже есть, регистрация закрыта навсегда.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	hasAdmin, err := h.AuthService.HasAdmin(r.Context())
	if err != nil {
		h.Logger.Errorw("RegisterPage: storage error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if hasAdmin {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": "registration open"})
}

// Register создаёт единственного администратора.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	_, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var weak *service.WeakPasswordError
		switch {
		case errors.Is(err, service.ErrAdminExists):
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "admin account already exists"})
		case errors.Is(err, service.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "username and password are required"})
		case errors.As(err, &weak):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": weak.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, map[string]any{"error": "username already taken"})
		default:
			h.Logger.Errorw("Register: service error", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// Logout сбрасывает сессию.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
