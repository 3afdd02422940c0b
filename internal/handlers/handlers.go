package handlers

import (
	"MarkKeeper/internal/config"
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	authService *service.AuthService,
	categoryService *service.CategoryService,
	bookmarkService *service.BookmarkService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))
	r.Use(middleware.WithSessionCheck(authService))

	// Handlers
	authHandler := NewAuthHandler(authService, logger, config)
	categoryHandler := NewCategoryHandler(categoryService, logger)
	bookmarkHandler := NewBookmarkHandler(bookmarkService, logger)

	// Auth routes
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)

	// Category routes
	r.Get("/api/categories", categoryHandler.List)
	r.Post("/api/categories", categoryHandler.Create)
	r.Put("/api/categories/{id}", categoryHandler.Rename)
	r.Delete("/api/categories/{id}", categoryHandler.Delete)
	r.Post("/api/categories/{id}/move", categoryHandler.Move)
	r.Post("/api/categories/reorder", categoryHandler.Reorder)

	// Bookmark routes
	r.Get("/api/bookmarks", bookmarkHandler.List)
	r.Post("/api/bookmarks", bookmarkHandler.Create)
	r.Put("/api/bookmarks/{id}", bookmarkHandler.Update)
	r.Delete("/api/bookmarks/{id}", bookmarkHandler.Delete)
	r.Post("/api/bookmarks/reorder", bookmarkHandler.Reorder)
	r.Post("/api/bookmarks/move", bookmarkHandler.Move)
	r.Put("/api/bookmarks/{id}/position", bookmarkHandler.Reposition)

	return &Handler{Router: r}
}
