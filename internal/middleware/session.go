package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UserChecker — минимальный контракт проверки существования пользователя.
type UserChecker interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// маршруты, не требующие живого предмета сессии
var sessionExemptPaths = []string{"/login", "/register", "/logout", "/static/"}

func sessionExempt(path string) bool {
	for _, p := range sessionExemptPaths {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

// WithSessionCheck сверяет предмет сессии с хранилищем: если пользователь
// был удалён, висящая сессия сбрасывается и запрос уводится на /login.
// Страхует от учётной записи, удалённой в обход приложения.
func WithSessionCheck(users UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessionExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if userID, ok := GetUserIDFromContext(r.Context()); ok {
				exists, err := users.UserExists(r.Context(), userID)
				if err != nil {
					sugar.Errorw("session check failed", "user_id", userID, "error", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				if !exists {
					ClearLoginCookie(w)
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
