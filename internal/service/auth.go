package service

import (
	"MarkKeeper/internal/config"
	"MarkKeeper/internal/model"
	"MarkKeeper/internal/repo"
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Фиксированный набор спецсимволов для политики паролей.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// Session — предмет сессии после успешного входа.
type Session struct {
	UserID    int64
	LoginTime int64
}

// AuthService — вход с защитой от перебора и регистрация
// единственного администратора.
//
// Машина состояний по IP: чисто → придушен (неудачи в окне ≥ MaxLoginAttempts)
// → в чёрном списке (неудачи ≥ BlacklistThreshold либо действующая запись
// списка). Проверка чёрного списка всегда идёт первой.
type AuthService struct {
	users    repo.UserRepository
	attempts repo.AttemptRepository
	cfg      *config.Config
	logger   *zap.SugaredLogger

	// подменяются в тестах
	now   func() time.Time
	sleep func(time.Duration)
}

func NewAuthService(users repo.UserRepository, attempts repo.AttemptRepository, cfg *config.Config, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:    users,
		attempts: attempts,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Login проверяет учётные данные с учётом истории адреса. Любой отказ —
// и по паролю, и по дросселю, и по чёрному списку — фиксируется неудачной
// попыткой и возвращается наружу одной и той же обезличенной ошибкой.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*Session, error) {
	now := s.now().Unix()

	blacklisted, err := s.attempts.IsBlacklisted(ctx, ip, now)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, s.reject(ctx, ip, now, ReasonBlacklisted)
	}

	since := now - int64(s.cfg.LoginTimeout)
	failures, err := s.attempts.CountRecentFailures(ctx, ip, since)
	if err != nil {
		return nil, err
	}
	if failures >= int64(s.cfg.BlacklistThreshold) {
		if err := s.attempts.Blacklist(ctx, ip, now, now+int64(s.cfg.BlacklistDuration)); err != nil {
			return nil, err
		}
		s.logger.Warnw("ip blacklisted", "ip", ip, "failures", failures)
		return nil, s.reject(ctx, ip, now, ReasonBlacklisted)
	}
	if failures >= int64(s.cfg.MaxLoginAttempts) {
		return nil, s.reject(ctx, ip, now, ReasonThrottled)
	}

	// экспоненциальная задержка перед сверкой пароля,
	// блокирует только текущий запрос
	if delay := backoffDelay(failures); delay > 0 {
		s.sleep(delay)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.reject(ctx, ip, now, ReasonNoSuchUser)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, s.reject(ctx, ip, now, ReasonBadCredentials)
	}

	if err := s.attempts.RecordAttempt(ctx, ip, now, true); err != nil {
		return nil, err
	}
	return &Session{UserID: user.ID, LoginTime: now}, nil
}

// reject пишет неудачную попытку и возвращает обезличенный отказ
// с внутренним кодом причины.
func (s *AuthService) reject(ctx context.Context, ip string, now int64, reason string) error {
	if err := s.attempts.RecordAttempt(ctx, ip, now, false); err != nil {
		s.logger.Errorw("failed to record login attempt", "ip", ip, "error", err)
	}
	s.logger.Infow("login rejected", "ip", ip, "reason", reason)
	return &AuthError{Reason: reason}
}

// backoffDelay: min(2^(n-1), 10) секунд при n > 0 неудачах в окне.
func backoffDelay(failures int64) time.Duration {
	if failures <= 0 {
		return 0
	}
	seconds := math.Min(math.Pow(2, float64(failures-1)), 10)
	return time.Duration(seconds * float64(time.Second))
}

// Register создаёт администратора. Разрешена ровно одна учётная запись:
// как только она существует, регистрация навсегда закрыта.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminExists
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingFields
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, &model.User{Username: username, Password: string(hash)})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// HasAdmin — существует ли уже учётная запись администратора.
func (s *AuthService) HasAdmin(ctx context.Context) (bool, error) {
	count, err := s.users.CountUsers(ctx)
	return count > 0, err
}

// UserExists реализует контракт сторожа сессий.
func (s *AuthService) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.users.UserExists(ctx, id)
}

// validatePassword: длина не меньше 8, заглавная и строчная буквы,
// цифра и спецсимвол из фиксированного набора.
func validatePassword(password string) error {
	if len(password) < 8 {
		return &WeakPasswordError{Requirement: "must be at least 8 characters long"}
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	switch {
	case !upper:
		return &WeakPasswordError{Requirement: "must contain an uppercase letter"}
	case !lower:
		return &WeakPasswordError{Requirement: "must contain a lowercase letter"}
	case !digit:
		return &WeakPasswordError{Requirement: "must contain a digit"}
	case !symbol:
		return &WeakPasswordError{Requirement: "must contain a special character"}
	}
	return nil
}
