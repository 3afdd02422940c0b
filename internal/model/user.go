package model

// User — единственный администратор. Password хранит bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
}
