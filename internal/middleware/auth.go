package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const authCookieName = "auth_token"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	loginTimeKey contextKey = "login_time"
)

// secureCookies выставляется один раз при старте (см. SetSecureCookies).
var secureCookies bool

// SetSecureCookies включает флаг Secure на auth-cookie (для HTTPS).
func SetSecureCookies(secure bool) { secureCookies = secure }

// authClaims — полезная нагрузка подписанного токена сессии.
type authClaims struct {
	UserID    int64 `json:"user_id"`
	LoginTime int64 `json:"login_time"`
	jwt.RegisteredClaims
}

// SetLoginCookie подписывает токен с user_id и временем входа
// и кладёт его в HttpOnly-cookie.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) error {
	now := time.Now()
	claims := authClaims{
		UserID:    userID,
		LoginTime: now.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies,
	})
	return nil
}

// ClearLoginCookie сбрасывает сессию клиента.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies,
		MaxAge:   -1,
	})
}

// WithAuth разбирает auth-cookie и кладёт user_id и login_time в контекст.
// Отсутствие или невалидность cookie не прерывает запрос: он идёт дальше
// анонимным, авторизацию решают хендлеры.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims := &authClaims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, loginTimeKey, claims.LoginTime)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext возвращает user_id текущей сессии, если она есть.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetLoginTimeFromContext возвращает unix-время входа текущей сессии.
func GetLoginTimeFromContext(ctx context.Context) (int64, bool) {
	t, ok := ctx.Value(loginTimeKey).(int64)
	return t, ok
}
