package repo

import (
	"MarkKeeper/internal/model"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// InitDB открывает соединение с БД. Postgres-DSN распознаётся по виду строки,
// всё остальное трактуется как путь к файлу SQLite (драйвер modernc, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		dial = postgres.Open(dsn)
	default:
		if dsn == "" {
			dsn = "markkeeper.sqlite"
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}
	return gorm.Open(dial, &gorm.Config{})
}

// Migrate создаёт схему один раз при старте процесса. Отсутствие таблицы
// во время работы — фатальная ошибка хранилища, а не повод чинить схему на лету.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Bookmark{},
		&model.LoginAttempt{},
		&model.BlacklistEntry{},
	)
}
