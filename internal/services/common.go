package services

import (
	"context"
	"time"

	"contacts_backend/internal/cache"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserCache - то, что сервисам нужно от кеша пользователей (*cache.UserCache)
type UserCache interface {
	Put(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*cache.UserSnapshot, bool, error)
	Invalidate(ctx context.Context, id string) error
}

// Mailer - отправка писем подтверждения и сброса пароля (*email.Mailer)
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// withTimeout привязывает db к контексту запроса с ограничением по времени.
// Отмена запроса клиентом отменяет и SQL-запрос.
func withTimeout(ctx context.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	if timeout <= 0 {
		return db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return db.WithContext(ctx), cancel
}

// mapUserError переводит ошибки репозитория пользователей в AppError
func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case apperrors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	default:
		return apperrors.InternalError(err)
	}
}

func mapContactError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, repositories.ErrContactNotFound):
		return apperrors.ErrContactNotFound
	case apperrors.Is(err, repositories.ErrContactAlreadyExists):
		return apperrors.ErrContactAlreadyExists.WithError(err)
	default:
		return apperrors.InternalError(err)
	}
}

// invalidateUser сбрасывает запись кеша после мутации пользователя.
// Ошибка Redis не откатывает мутацию: запись истечет по TTL.
func invalidateUser(ctx context.Context, c UserCache, userID string) {
	if err := c.Invalidate(ctx, userID); err != nil {
		logger.CtxWithError(ctx, "Failed to invalidate cached user", err, "user_id", userID)
	}
}
