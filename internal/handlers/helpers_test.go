package handlers_test

import (
	"MarkKeeper/internal/config"
	"MarkKeeper/internal/handlers"
	"MarkKeeper/internal/middleware"
	"MarkKeeper/internal/model"
	"MarkKeeper/internal/repo"
	"MarkKeeper/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockAttemptRepo struct{ mock.Mock }

func (m *mockAttemptRepo) RecordAttempt(ctx context.Context, ip string, timestamp int64, successful bool) error {
	args := m.Called(ctx, ip, timestamp, successful)
	return args.Error(0)
}

func (m *mockAttemptRepo) CountRecentFailures(ctx context.Context, ip string, since int64) (int64, error) {
	args := m.Called(ctx, ip, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAttemptRepo) IsBlacklisted(ctx context.Context, ip string, now int64) (bool, error) {
	args := m.Called(ctx, ip, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttemptRepo) Blacklist(ctx context.Context, ip string, now, expiration int64) error {
	args := m.Called(ctx, ip, now, expiration)
	return args.Error(0)
}

var _ repo.AttemptRepository = (*mockAttemptRepo)(nil)

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	args := m.Called(ctx, c)
	if v, ok := args.Get(0).(*model.Category); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) Rename(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *mockCategoryRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryRepo) MaxPosition(ctx context.Context, parentID *int64) (int, error) {
	args := m.Called(ctx, parentID)
	return args.Int(0), args.Error(1)
}

func (m *mockCategoryRepo) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryRepo) Move(ctx context.Context, id int64, parentID *int64, position int) error {
	args := m.Called(ctx, id, parentID, position)
	return args.Error(0)
}

func (m *mockCategoryRepo) Reorder(ctx context.Context, rows []repo.CategoryPlacement) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

var _ repo.CategoryRepository = (*mockCategoryRepo)(nil)

type mockBookmarkRepo struct{ mock.Mock }

func (m *mockBookmarkRepo) List(ctx context.Context, categoryID *int64) ([]model.Bookmark, error) {
	args := m.Called(ctx, categoryID)
	if v, ok := args.Get(0).([]model.Bookmark); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookmarkRepo) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Bookmark); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookmarkRepo) Create(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	args := m.Called(ctx, b)
	if v, ok := args.Get(0).(*model.Bookmark); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookmarkRepo) Update(ctx context.Context, b *model.Bookmark) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBookmarkRepo) MaxPosition(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *mockBookmarkRepo) Reorder(ctx context.Context, rows []repo.BookmarkPlacement) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockBookmarkRepo) MoveToCategory(ctx context.Context, ids []int64, targetCategoryID int64) error {
	args := m.Called(ctx, ids, targetCategoryID)
	return args.Error(0)
}

func (m *mockBookmarkRepo) Reposition(ctx context.Context, id int64, newPosition int, newCategoryID int64) (*model.Bookmark, []model.Bookmark, error) {
	args := m.Called(ctx, id, newPosition, newCategoryID)
	var b *model.Bookmark
	if v, ok := args.Get(0).(*model.Bookmark); ok {
		b = v
	}
	var siblings []model.Bookmark
	if v, ok := args.Get(1).([]model.Bookmark); ok {
		siblings = v
	}
	return b, siblings, args.Error(2)
}

var _ repo.BookmarkRepository = (*mockBookmarkRepo)(nil)

// --- Helpers ---

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		AuthSecret:         testSecret,
		MaxLoginAttempts:   5,
		LoginTimeout:       300,
		BlacklistThreshold: 10,
		BlacklistDuration:  3600,
	}
}

func newTestRouter(t *testing.T, ur repo.UserRepository, ar repo.AttemptRepository, cr repo.CategoryRepository, br repo.BookmarkRepository) http.Handler {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop().Sugar()

	authSvc := service.NewAuthService(ur, ar, cfg, logger)
	categorySvc := service.NewCategoryService(cr, logger)
	bookmarkSvc := service.NewBookmarkService(br, logger)

	h := handlers.NewHandler(authSvc, categorySvc, bookmarkSvc, logger, cfg)
	return h.Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, testSecret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
