package model

// LoginAttempt — запись журнала попыток входа. Только добавляется,
// никогда не изменяется; устаревшие строки отсекаются окном запроса.
type LoginAttempt struct {
	ID         int64  `gorm:"primaryKey"`
	IPAddress  string `gorm:"not null;index"`
	Timestamp  int64  `gorm:"not null;index"` // unix-секунды
	Successful bool   `gorm:"not null"`
}

// BlacklistEntry — запись чёрного списка IP. Адрес считается заблокированным,
// пока существует хотя бы одна запись с Expiration > now.
type BlacklistEntry struct {
	ID         int64  `gorm:"primaryKey"`
	IPAddress  string `gorm:"not null;index"`
	Timestamp  int64  `gorm:"not null"`
	Expiration int64  `gorm:"not null"`
}

// TableName сохраняет имя таблицы исходной схемы.
func (BlacklistEntry) TableName() string { return "ip_blacklist" }
