package service

import (
	"MarkKeeper/internal/model"
	"MarkKeeper/internal/repo"
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService — валидация двухуровневого дерева категорий
// и упорядочивание разделов внутри их областей.
type CategoryService struct {
	categories repo.CategoryRepository
	logger     *zap.SugaredLogger
}

func NewCategoryService(categories repo.CategoryRepository, logger *zap.SugaredLogger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// Create добавляет категорию в хвост её области: позиция = максимум + 1.
func (s *CategoryService) Create(ctx context.Context, name string, parentID *int64) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	max, err := s.categories.MaxPosition(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.categories.Create(ctx, &model.Category{
		Name:     name,
		ParentID: parentID,
		Position: max + 1,
	})
}

func (s *CategoryService) Rename(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return s.categories.Rename(ctx, id, name)
}

// Delete удаляет категорию вместе с её закладками. Категория
// с подкатегориями не удаляется.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	children, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.categories.DeleteCascade(ctx, id)
}

// Move переносит категорию под нового родителя (nil — на верхний уровень).
// Двигаться могут только листья; целевой родитель обязан быть верхнеуровневым;
// цепочка предков цели не должна проходить через саму категорию.
// Позиция — хвост новой области; старая область не нормализуется.
func (s *CategoryService) Move(ctx context.Context, id int64, parentID *int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if parentID != nil {
		parent, err := s.categories.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// цикл проверяется до остальных запретов: перенос под собственного
		// потомка должен падать именно как цикл
		if err := s.checkCycle(ctx, id, parentID); err != nil {
			return err
		}
		if parent.ParentID != nil {
			return ErrInvalidParent
		}
	}

	children, err := s.categories.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}

	max, err := s.categories.MaxPosition(ctx, parentID)
	if err != nil {
		return err
	}
	return s.categories.Move(ctx, id, parentID, max+1)
}

// checkCycle идёт по цепочке предков целевого родителя; встреча с самой
// категорией означает цикл.
func (s *CategoryService) checkCycle(ctx context.Context, id int64, parentID *int64) error {
	current := parentID
	for current != nil {
		if *current == id {
			return ErrCyclicReference
		}
		parent, err := s.categories.GetByID(ctx, *current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		current = parent.ParentID
	}
	return nil
}

// Reorder применяет явное назначение позиций. Перед записью проверяется,
// что позиции каждой области в запросе образуют 1..N.
func (s *CategoryService) Reorder(ctx context.Context, rows []repo.CategoryPlacement) error {
	byScope := make(map[int64][]int)
	for _, row := range rows {
		key := int64(0)
		if row.ParentID != nil {
			key = *row.ParentID
		}
		byScope[key] = append(byScope[key], row.Position)
	}
	for _, positions := range byScope {
		if !contiguous(positions) {
			return ErrInvalidReorder
		}
	}
	return s.categories.Reorder(ctx, rows)
}

// contiguous — позиции после сортировки равны в точности 1..N.
func contiguous(positions []int) bool {
	sorted := make([]int, len(positions))
	copy(sorted, positions)
	sort.Ints(sorted)
	for i, p := range sorted {
		if p != i+1 {
			return false
		}
	}
	return true
}
