package main

import (
	"MarkKeeper/internal/config"
	"MarkKeeper/internal/handlers"
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/repo"
	"MarkKeeper/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	middleware.SetSecureCookies(cfg.EnableHTTPS)
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// схема создаётся один раз при старте; дальше её отсутствие — ошибка
	if err := repo.Migrate(gormDB); err != nil {
		sugar.Fatalw("failed to migrate database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	attemptRepo := repo.NewAttemptRepository(gormDB)
	categoryRepo := repo.NewCategoryRepository(gormDB)
	bookmarkRepo := repo.NewBookmarkRepository(gormDB)

	authService := service.NewAuthService(userRepo, attemptRepo, cfg, sugar)
	categoryService := service.NewCategoryService(categoryRepo, sugar)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, sugar)

	h := handlers.NewHandler(authService, categoryService, bookmarkService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"MaxLoginAttempts", cfg.MaxLoginAttempts,
		"LoginTimeout", cfg.LoginTimeout,
		"BlacklistThreshold", cfg.BlacklistThreshold,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
