package service

import "errors"

// Ошибки доменного слоя. Хендлеры отображают их в HTTP-статусы.
var (
	ErrEmptyName       = errors.New("category name must not be empty")
	ErrNotFound        = errors.New("entity not found")
	ErrHasChildren     = errors.New("category has sub-categories")
	ErrInvalidParent   = errors.New("target parent is itself a sub-category")
	ErrCyclicReference = errors.New("move would create a cyclic reference")
	ErrMissingFields   = errors.New("required fields are missing")
	ErrInvalidReorder  = errors.New("reorder payload is not a contiguous sequence")
	ErrAdminExists     = errors.New("admin account already exists")
	ErrUsernameTaken   = errors.New("username already taken")
)

// Внутренние коды причин отказа входа. Наружу не отдаются:
// внешний ответ всегда один и тот же, различия видны только в логах и тестах.
const (
	ReasonBlacklisted    = "blacklisted"
	ReasonThrottled      = "throttled"
	ReasonNoSuchUser     = "no_such_user"
	ReasonBadCredentials = "bad_credentials"
)

// AuthError — отказ входа. Текст намеренно не раскрывает причину.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "login rejected" }

// WeakPasswordError — пароль не прошёл политику сложности.
type WeakPasswordError struct {
	Requirement string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + e.Requirement
}
