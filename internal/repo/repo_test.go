package repo

import (
	"MarkKeeper/internal/model"
	"testing"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов
// репозитория. Имя базы уникально на вызов, чтобы тесты позиций не делили
// одну shared-cache память.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей, используемых в репозиториях
	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Bookmark{},
		&model.LoginAttempt{},
		&model.BlacklistEntry{},
	)
	if err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}
