package repo

import (
	"MarkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// AttemptRepository — контракт журнала попыток входа и чёрного списка IP.
// Оба хранилища только пополняются; окно и срок действия задаются запросами.
type AttemptRepository interface {
	RecordAttempt(ctx context.Context, ip string, timestamp int64, successful bool) error

	// CountRecentFailures считает неуспешные попытки адреса строго после since.
	CountRecentFailures(ctx context.Context, ip string, since int64) (int64, error)

	IsBlacklisted(ctx context.Context, ip string, now int64) (bool, error)
	Blacklist(ctx context.Context, ip string, now, expiration int64) error
}

type attemptRepo struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepo{db: db}
}

func (r *attemptRepo) RecordAttempt(ctx context.Context, ip string, timestamp int64, successful bool) error {
	return r.db.WithContext(ctx).Create(&model.LoginAttempt{
		IPAddress:  ip,
		Timestamp:  timestamp,
		Successful: successful,
	}).Error
}

func (r *attemptRepo) CountRecentFailures(ctx context.Context, ip string, since int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LoginAttempt{}).
		Where("ip_address = ? AND timestamp > ? AND successful = ?", ip, since, false).
		Count(&n).Error
	return n, err
}

func (r *attemptRepo) IsBlacklisted(ctx context.Context, ip string, now int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BlacklistEntry{}).
		Where("ip_address = ? AND expiration > ?", ip, now).
		Count(&n).Error
	return n > 0, err
}

func (r *attemptRepo) Blacklist(ctx context.Context, ip string, now, expiration int64) error {
	return r.db.WithContext(ctx).Create(&model.BlacklistEntry{
		IPAddress:  ip,
		Timestamp:  now,
		Expiration: expiration,
	}).Error
}
