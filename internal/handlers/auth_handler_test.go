package handlers_test

import (
	"MarkKeeper/internal/model"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth_Register(t *testing.T) {
	t.Run("ok while no admin", func(t *testing.T) {
		ur := new(mockUserRepo)
		ur.On("CountUsers", mock.Anything).Return(int64(0), nil).Once()
		created := &model.User{ID: 1, Username: "admin"}
		ur.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "admin" && u.Password != "Str0ng!pass"
		})).Return(created, nil).Once()
		router := newTestRouter(t, ur, new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"admin","password":"Str0ng!pass"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		ur.AssertExpectations(t)
	})

	t.Run("forbidden once admin exists", func(t *testing.T) {
		ur := new(mockUserRepo)
		ur.On("CountUsers", mock.Anything).Return(int64(1), nil).Once()
		router := newTestRouter(t, ur, new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"x","password":"Str0ng!pass"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		ur := new(mockUserRepo)
		ur.On("CountUsers", mock.Anything).Return(int64(0), nil).Once()
		router := newTestRouter(t, ur, new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"admin","password":"weak"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(rr.Body.Bytes(), &body)
		assert.Contains(t, body.Error, "weak password")
		ur.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("page redirects once admin exists", func(t *testing.T) {
		ur := new(mockUserRepo)
		ur.On("CountUsers", mock.Anything).Return(int64(1), nil).Once()
		router := newTestRouter(t, ur, new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodGet, "/register", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})
}

func TestAuth_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)

	t.Run("ok sets auth cookie", func(t *testing.T) {
		ur := new(mockUserRepo)
		ar := new(mockAttemptRepo)
		ur.On("GetUserByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: string(hash)}, nil).Once()
		ar.On("IsBlacklisted", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
		ar.On("CountRecentFailures", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
		ar.On("RecordAttempt", mock.Anything, mock.Anything, mock.Anything, true).Return(nil).Once()
		router := newTestRouter(t, ur, ar, new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"Str0ng!pass"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		hasCookie := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" && c.Value != "" {
				hasCookie = true
			}
		}
		assert.True(t, hasCookie, "Set-Cookie auth_token expected")
		ar.AssertExpectations(t)
	})

	t.Run("generic failure for wrong password", func(t *testing.T) {
		ur := new(mockUserRepo)
		ar := new(mockAttemptRepo)
		ur.On("GetUserByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: string(hash)}, nil).Once()
		ar.On("IsBlacklisted", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
		ar.On("CountRecentFailures", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
		ar.On("RecordAttempt", mock.Anything, mock.Anything, mock.Anything, false).Return(nil).Once()
		router := newTestRouter(t, ur, ar, new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"bad"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("same generic failure when throttled", func(t *testing.T) {
		ur := new(mockUserRepo)
		ar := new(mockAttemptRepo)
		ar.On("IsBlacklisted", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
		ar.On("CountRecentFailures", mock.Anything, mock.Anything, mock.Anything).Return(int64(5), nil).Once()
		ar.On("RecordAttempt", mock.Anything, mock.Anything, mock.Anything, false).Return(nil).Once()
		router := newTestRouter(t, ur, ar, new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"Str0ng!pass"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		// пароль не проверялся вовсе
		ur.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("login page redirects to register while no admin", func(t *testing.T) {
		ur := new(mockUserRepo)
		ur.On("CountUsers", mock.Anything).Return(int64(0), nil).Once()
		router := newTestRouter(t, ur, new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/register", rr.Header().Get("Location"))
	})
}

func TestAuth_Logout(t *testing.T) {
	router := newTestRouter(t, new(mockUserRepo), new(mockAttemptRepo), new(mockCategoryRepo), new(mockBookmarkRepo))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "auth cookie must be cleared")
}
