package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"contacts_backend/internal/imageprocessor"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/storage"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetCurrentUser(ctx context.Context, db *gorm.DB, userID string) (*dto.CurrentUserResponse, error)
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, data []byte) (string, error)
}

// AvatarProcessor - проверка типа и уменьшение изображения (*imageprocessor.Processor)
type AvatarProcessor interface {
	ProcessAvatar(data []byte, maxSide int) (*imageprocessor.Result, error)
}

type UserServiceImpl struct {
	userRepo   repositories.UserRepository
	cache      UserCache
	storage    storage.Storage
	images     AvatarProcessor
	avatarSize int
	dbTimeout  time.Duration
}

func NewUserService(
	userRepo repositories.UserRepository,
	cache UserCache,
	store storage.Storage,
	images AvatarProcessor,
	avatarSize int,
	dbTimeout time.Duration,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:   userRepo,
		cache:      cache,
		storage:    store,
		images:     images,
		avatarSize: avatarSize,
		dbTimeout:  dbTimeout,
	}
}

// GetCurrentUser читает пользователя через кеш: попадание отвечает без БД,
// промах или ошибка Redis идут в репозиторий и заново заполняют кеш.
func (s *UserServiceImpl) GetCurrentUser(ctx context.Context, db *gorm.DB, userID string) (*dto.CurrentUserResponse, error) {
	snapshot, found, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.CtxWithError(ctx, "User cache read failed", err, "user_id", userID)
	}
	if found {
		if !snapshot.IsActive {
			return nil, apperrors.ErrUserInactive
		}
		return currentUser(snapshot.ID, snapshot.Email, snapshot.AvatarURL), nil
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	if err := s.cache.Put(ctx, user); err != nil {
		logger.CtxWithError(ctx, "Failed to cache user", err, "user_id", userID)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	return currentUser(user.ID, user.Email, user.AvatarURL), nil
}

func currentUser(id, email, avatarURL string) *dto.CurrentUserResponse {
	resp := &dto.CurrentUserResponse{ID: id, Email: email}
	if avatarURL != "" {
		resp.AvatarURL = &avatarURL
	}
	return resp
}

// UploadAvatar уменьшает изображение, сохраняет его как avatars/user_<id>.<ext>
// и записывает публичный URL пользователю.
func (s *UserServiceImpl) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, data []byte) (string, error) {
	img, err := s.images.ProcessAvatar(data, s.avatarSize)
	if err != nil {
		if errors.Is(err, imageprocessor.ErrUnsupportedType) {
			return "", apperrors.ErrInvalidFileType.WithError(err)
		}
		return "", apperrors.NewBadRequestError("Could not read image").WithError(err)
	}

	path := fmt.Sprintf("avatars/user_%s.%s", userID, img.Ext)
	if err := s.storage.Save(ctx, path, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store avatar", http.StatusBadGateway)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	if err := s.userRepo.Update(tx, userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", mapUserError(err)
	}
	invalidateUser(ctx, s.cache, userID)

	logger.CtxInfo(ctx, "Avatar updated", "user_id", userID, "path", path, "width", img.Width, "height", img.Height)
	return url, nil
}
