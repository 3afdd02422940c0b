package repo

import (
	"MarkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// CategoryPlacement — одна строка массового переупорядочивания категорий.
type CategoryPlacement struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	ParentID *int64 `json:"parent_id"`
}

// CategoryRepository — контракт доступа к категориям.
// Область позиций категории задаётся её ParentID (NULL — верхний уровень).
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Rename(ctx context.Context, id int64, name string) error
	CountChildren(ctx context.Context, id int64) (int64, error)
	MaxPosition(ctx context.Context, parentID *int64) (int, error)

	// DeleteCascade удаляет категорию вместе с её закладками в одной транзакции.
	DeleteCascade(ctx context.Context, id int64) error

	// Move меняет родителя и позицию категории.
	Move(ctx context.Context, id int64, parentID *int64, position int) error

	// Reorder применяет присланные позиции как есть, одной транзакцией.
	Reorder(ctx context.Context, rows []CategoryPlacement) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).Order("position").Find(&cats).Error
	return cats, err
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepo) Rename(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).Update("name", name).Error
}

func (r *categoryRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("parent_id = ?", id).Count(&n).Error
	return n, err
}

func (r *categoryRepo) MaxPosition(ctx context.Context, parentID *int64) (int, error) {
	var max *int
	q := r.db.WithContext(ctx).Model(&model.Category{}).Select("MAX(position)")
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *categoryRepo) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
}

func (r *categoryRepo) Move(ctx context.Context, id int64, parentID *int64, position int) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{"parent_id": parentID, "position": position}).Error
}

func (r *categoryRepo) Reorder(ctx context.Context, rows []CategoryPlacement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			err := tx.Model(&model.Category{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{"position": row.Position, "parent_id": row.ParentID}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
