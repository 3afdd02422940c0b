package service

import (
	"MarkKeeper/internal/model"
	"MarkKeeper/internal/repo"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookmarkService — операции над закладками поверх движка позиций.
type BookmarkService struct {
	bookmarks repo.BookmarkRepository
	logger    *zap.SugaredLogger
}

func NewBookmarkService(bookmarks repo.BookmarkRepository, logger *zap.SugaredLogger) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, logger: logger}
}

func (s *BookmarkService) List(ctx context.Context, categoryID *int64) ([]model.Bookmark, error) {
	return s.bookmarks.List(ctx, categoryID)
}

// Create добавляет закладку в хвост категории: позиция = максимум + 1,
// в пустой категории — 1.
func (s *BookmarkService) Create(ctx context.Context, title, url, description string, categoryID int64) (*model.Bookmark, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(url) == "" || categoryID == 0 {
		return nil, ErrMissingFields
	}
	max, err := s.bookmarks.MaxPosition(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.bookmarks.Create(ctx, &model.Bookmark{
		Title:       title,
		URL:         url,
		Description: description,
		CategoryID:  categoryID,
		Position:    max + 1,
	})
}

func (s *BookmarkService) Update(ctx context.Context, id int64, title, url, description string, categoryID int64) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(url) == "" || categoryID == 0 {
		return ErrMissingFields
	}
	return s.bookmarks.Update(ctx, &model.Bookmark{
		ID:          id,
		Title:       title,
		URL:         url,
		Description: description,
		CategoryID:  categoryID,
	})
}

// Delete удаляет закладку. Область не нормализуется: возможные разрывы
// устраняет следующий reposition или reorder.
func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	err := s.bookmarks.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Reorder применяет явное назначение позиций после проверки того,
// что каждая категория запроса получает последовательность 1..N.
func (s *BookmarkService) Reorder(ctx context.Context, rows []repo.BookmarkPlacement) error {
	byScope := make(map[int64][]int)
	for _, row := range rows {
		byScope[row.CategoryID] = append(byScope[row.CategoryID], row.Position)
	}
	for _, positions := range byScope {
		if !contiguous(positions) {
			return ErrInvalidReorder
		}
	}
	return s.bookmarks.Reorder(ctx, rows)
}

// MoveBulk дописывает закладки в хвост целевой категории в порядке ids.
func (s *BookmarkService) MoveBulk(ctx context.Context, ids []int64, targetCategoryID int64) error {
	if len(ids) == 0 || targetCategoryID == 0 {
		return ErrMissingFields
	}
	return s.bookmarks.MoveToCategory(ctx, ids, targetCategoryID)
}

// Reposition переносит закладку на новую позицию и возвращает её вместе
// со срезом позиций всей целевой категории.
func (s *BookmarkService) Reposition(ctx context.Context, id int64, newPosition int, newCategoryID int64) (*model.Bookmark, []model.Bookmark, error) {
	b, siblings, err := s.bookmarks.Reposition(ctx, id, newPosition, newCategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	s.logger.Infow("bookmark repositioned",
		"id", b.ID,
		"category_id", b.CategoryID,
		"position", b.Position,
	)
	return b, siblings, nil
}
