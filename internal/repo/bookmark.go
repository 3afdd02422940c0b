package repo

import (
	"MarkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// BookmarkPlacement — одна строка массового переупорядочивания закладок.
type BookmarkPlacement struct {
	ID         int64 `json:"id"`
	Position   int   `json:"position"`
	CategoryID int64 `json:"category_id"`
}

// BookmarkRepository — контракт доступа к закладкам и движку позиций.
type BookmarkRepository interface {
	List(ctx context.Context, categoryID *int64) ([]model.Bookmark, error)
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	Create(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error)
	Update(ctx context.Context, b *model.Bookmark) error
	Delete(ctx context.Context, id int64) error
	MaxPosition(ctx context.Context, categoryID int64) (int, error)

	// Reorder применяет присланные позиции как есть, одной транзакцией.
	Reorder(ctx context.Context, rows []BookmarkPlacement) error

	// MoveToCategory дописывает закладки в хвост целевой категории
	// в порядке перечисления; исходные категории не нормализуются.
	MoveToCategory(ctx context.Context, ids []int64, targetCategoryID int64) error

	// Reposition переносит закладку на новую позицию (возможно, в другую
	// категорию): сдвигает соседей, нормализует затронутые области и
	// возвращает обновлённую закладку вместе со срезом её новой категории.
	// Всё выполняется в одной транзакции: при любой ошибке позиции
	// остаются прежними.
	Reposition(ctx context.Context, id int64, newPosition int, newCategoryID int64) (*model.Bookmark, []model.Bookmark, error)
}

type bookmarkRepo struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) List(ctx context.Context, categoryID *int64) ([]model.Bookmark, error) {
	var bms []model.Bookmark
	q := r.db.WithContext(ctx).Order("position")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Find(&bms).Error
	return bms, err
}

func (r *bookmarkRepo) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	var b model.Bookmark
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookmarkRepo) Create(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookmarkRepo) Update(ctx context.Context, b *model.Bookmark) error {
	return r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"title":       b.Title,
			"url":         b.URL,
			"description": b.Description,
			"category_id": b.CategoryID,
		}).Error
}

func (r *bookmarkRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Bookmark{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookmarkRepo) MaxPosition(ctx context.Context, categoryID int64) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Select("MAX(position)").
		Where("category_id = ?", categoryID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *bookmarkRepo) Reorder(ctx context.Context, rows []BookmarkPlacement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			err := tx.Model(&model.Bookmark{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{"position": row.Position, "category_id": row.CategoryID}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *bookmarkRepo) MoveToCategory(ctx context.Context, ids []int64, targetCategoryID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max *int
		err := tx.Model(&model.Bookmark{}).
			Select("MAX(position)").
			Where("category_id = ?", targetCategoryID).
			Scan(&max).Error
		if err != nil {
			return err
		}
		base := 0
		if max != nil {
			base = *max
		}
		for i, id := range ids {
			err := tx.Model(&model.Bookmark{}).
				Where("id = ?", id).
				Updates(map[string]any{"category_id": targetCategoryID, "position": base + i + 1}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *bookmarkRepo) Reposition(ctx context.Context, id int64, newPosition int, newCategoryID int64) (*model.Bookmark, []model.Bookmark, error) {
	var updated model.Bookmark
	var siblings []model.Bookmark

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Bookmark
		if err := tx.First(&b, id).Error; err != nil {
			return err
		}
		oldPosition, oldCategoryID := b.Position, b.CategoryID

		if oldCategoryID == newCategoryID {
			switch {
			case oldPosition < newPosition:
				// движение вниз: промежуточные закладки поднимаются на 1
				err := tx.Model(&model.Bookmark{}).
					Where("category_id = ? AND position > ? AND position <= ?", newCategoryID, oldPosition, newPosition).
					Update("position", gorm.Expr("position - 1")).Error
				if err != nil {
					return err
				}
			case oldPosition > newPosition:
				// движение вверх: промежуточные закладки опускаются на 1
				err := tx.Model(&model.Bookmark{}).
					Where("category_id = ? AND position >= ? AND position < ?", newCategoryID, newPosition, oldPosition).
					Update("position", gorm.Expr("position + 1")).Error
				if err != nil {
					return err
				}
			}
		} else {
			// в старой категории хвост смыкается
			err := tx.Model(&model.Bookmark{}).
				Where("category_id = ? AND position > ?", oldCategoryID, oldPosition).
				Update("position", gorm.Expr("position - 1")).Error
			if err != nil {
				return err
			}
			// в новой категории освобождается место
			err = tx.Model(&model.Bookmark{}).
				Where("category_id = ? AND position >= ?", newCategoryID, newPosition).
				Update("position", gorm.Expr("position + 1")).Error
			if err != nil {
				return err
			}
		}

		err := tx.Model(&model.Bookmark{}).
			Where("id = ?", id).
			Updates(map[string]any{"position": newPosition, "category_id": newCategoryID}).Error
		if err != nil {
			return err
		}

		if err := normalizePositions(tx, newCategoryID); err != nil {
			return err
		}
		if oldCategoryID != newCategoryID {
			if err := normalizePositions(tx, oldCategoryID); err != nil {
				return err
			}
		}

		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}
		return tx.Where("category_id = ?", newCategoryID).
			Order("position").Find(&siblings).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &updated, siblings, nil
}

// normalizePositions пересчитывает позиции категории в точную
// последовательность 1..N: позиция строки — число строк той же категории
// с позицией, не превышающей её текущую.
func normalizePositions(tx *gorm.DB, categoryID int64) error {
	return tx.Exec(`
		UPDATE bookmarks SET position = (
			SELECT COUNT(*) FROM bookmarks AS b
			WHERE b.category_id = bookmarks.category_id AND b.position <= bookmarks.position
		)
		WHERE category_id = ?`, categoryID).Error
}
