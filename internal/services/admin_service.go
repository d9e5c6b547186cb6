package services

import (
	"context"
	"strings"
	"time"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminService - управление пользователями (только роль admin)
type AdminService interface {
	ListUsers(ctx context.Context, db *gorm.DB, search string) ([]models.User, error)
	GetUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error)
	UpdateUser(ctx context.Context, db *gorm.DB, actorID, id string, upd dto.AdminUserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, db *gorm.DB, actorID, id string) error
}

type AdminServiceImpl struct {
	userRepo  repositories.UserRepository
	cache     UserCache
	dbTimeout time.Duration
}

func NewAdminService(userRepo repositories.UserRepository, cache UserCache, dbTimeout time.Duration) *AdminServiceImpl {
	return &AdminServiceImpl{
		userRepo:  userRepo,
		cache:     cache,
		dbTimeout: dbTimeout,
	}
}

var errCannotModifySelf = apperrors.ErrInvalidOperation("user", "You cannot remove your own admin access")

func (s *AdminServiceImpl) ListUsers(ctx context.Context, db *gorm.DB, search string) ([]models.User, error) {
	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	users, err := s.userRepo.FindWithFilter(tx, repositories.UserFilter{Search: strings.TrimSpace(search)})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return users, nil
}

func (s *AdminServiceImpl) GetUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	user, err := s.userRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user, nil
}

// UpdateUser меняет роль и флаги. Администратор не может понизить или
// деактивировать сам себя, иначе можно остаться без администраторов.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, db *gorm.DB, actorID, id string, upd dto.AdminUserUpdate) (*models.User, error) {
	if !upd.Role.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be one of: user, admin"})
	}
	if actorID == id && (upd.Role != models.UserRoleAdmin || !upd.IsActive) {
		return nil, errCannotModifySelf
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	err := s.userRepo.Update(tx, id, map[string]interface{}{
		"role":        string(upd.Role),
		"is_active":   upd.IsActive,
		"is_verified": upd.IsVerified,
	})
	if err != nil {
		return nil, mapUserError(err)
	}
	invalidateUser(ctx, s.cache, id)

	user, err := s.userRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapUserError(err)
	}

	logger.CtxInfo(ctx, "User updated by admin", "user_id", id, "role", upd.Role, "is_active", upd.IsActive)
	return user, nil
}

// DeleteUser удаляет пользователя вместе с контактами
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, actorID, id string) error {
	if actorID == id {
		return apperrors.ErrInvalidOperation("user", "You cannot delete your own account")
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	if err := s.userRepo.Delete(tx, id); err != nil {
		return mapUserError(err)
	}
	invalidateUser(ctx, s.cache, id)

	logger.CtxInfo(ctx, "User deleted by admin", "user_id", id)
	return nil
}
