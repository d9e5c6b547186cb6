package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// mailSendTimeout ограничивает фоновую отправку письма
const mailSendTimeout = 30 * time.Second

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*LoginResult, error)
	IssueToken(ctx context.Context, db *gorm.DB, req *dto.TokenRequest) (*dto.TokenResponse, error)
	ConfirmEmail(ctx context.Context, db *gorm.DB, token string) (alreadyVerified bool, err error)
	ResendConfirmation(ctx context.Context, db *gorm.DB, email string) error
	EmailFromVerifyToken(token string) (string, error)
	RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.PasswordResetConfirm) error
	SeedAdmin(ctx context.Context, db *gorm.DB) error
}

// AuthConfig - сроки жизни токенов и учетные данные администратора
type AuthConfig struct {
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	DBTimeout       time.Duration
	AdminEmail      string
	AdminPassword   string
}

// LoginResult - результат входа. Для неподтвержденного пользователя Tokens == nil,
// а VerifyToken содержит временный токен для повторной отправки письма.
type LoginResult struct {
	User        *models.User
	Tokens      *dto.SessionTokens
	VerifyToken string
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenService
	mailer   Mailer
	cache    UserCache
	cfg      AuthConfig

	// async запускает фоновые задачи (отправка писем); в тестах синхронный
	async func(func())
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenService,
	mailer Mailer,
	cache UserCache,
	cfg AuthConfig,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		cache:    cache,
		cfg:      cfg,
		async:    func(f func()) { go f() },
	}
}

// UseRunner передает фоновые задачи во внешний пул (workers.BackgroundWorker)
func (s *AuthServiceImpl) UseRunner(run func(func())) {
	if run != nil {
		s.async = run
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isAdminBootstrap - регистрация с секретной парой email/пароль получает роль admin
func (s *AuthServiceImpl) isAdminBootstrap(email, password string) bool {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return false
	}
	return email == normalizeEmail(s.cfg.AdminEmail) &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
}

// Register - регистрация нового пользователя; письмо подтверждения уходит в фоне
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	email := normalizeEmail(req.Email)
	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	if _, err := s.userRepo.FindByEmail(tx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	role := models.UserRoleUser
	if s.isAdminBootstrap(email, req.Password) {
		role = models.UserRoleAdmin
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   false,
		Role:         role,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, mapUserError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	s.sendVerificationAsync(ctx, user.Email)
	return user, nil
}

// checkCredentials - общий для /login и /auth/token шаг проверки пароля.
// Неизвестный email, неверный пароль и неактивный аккаунт неразличимы снаружи.
func (s *AuthServiceImpl) checkCredentials(ctx context.Context, db *gorm.DB, email, password string) (*models.User, error) {
	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.CtxWarn(ctx, "Login attempt for inactive user", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login - вход через форму. Подтвержденный пользователь получает пару токенов
// и попадает в кеш; неподтвержденный - только временный email_verify токен.
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*LoginResult, error) {
	user, err := s.checkCredentials(ctx, db, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		verifyToken, err := s.tokens.Issue(user.Email, auth.TokenTypeEmailVerify, "", s.cfg.AccessTTL)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return &LoginResult{User: user, VerifyToken: verifyToken}, nil
	}

	tokens, err := s.issueSession(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.cache.Put(ctx, user); err != nil {
		logger.CtxWithError(ctx, "Failed to cache user", err, "user_id", user.ID)
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (s *AuthServiceImpl) issueSession(user *models.User) (*dto.SessionTokens, error) {
	access, err := s.tokens.Issue(user.ID, auth.TokenTypeAccess, string(user.Role), s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(user.ID, auth.TokenTypeRefresh, "", s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueToken - POST /auth/token: только access токен для SPA/API клиентов
func (s *AuthServiceImpl) IssueToken(ctx context.Context, db *gorm.DB, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.checkCredentials(ctx, db, req.Login(), req.Password)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Issue(user.ID, auth.TokenTypeAccess, string(user.Role), s.cfg.AccessTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.TokenResponse{AccessToken: access, TokenType: "bearer"}, nil
}

// ConfirmEmail помечает email подтвержденным. Повторное подтверждение не ошибка.
func (s *AuthServiceImpl) ConfirmEmail(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	email, err := s.EmailFromVerifyToken(token)
	if err != nil {
		return false, err
	}

	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(tx, email)
	if err != nil {
		return false, mapUserError(err)
	}
	if user.IsVerified {
		return true, nil
	}

	if err := s.userRepo.Update(tx, user.ID, map[string]interface{}{"is_verified": true}); err != nil {
		return false, mapUserError(err)
	}
	invalidateUser(ctx, s.cache, user.ID)

	logger.CtxInfo(ctx, "Email confirmed", "user_id", user.ID)
	return false, nil
}

// EmailFromVerifyToken - email из email_verify токена (ссылка из письма или cookie)
func (s *AuthServiceImpl) EmailFromVerifyToken(token string) (string, error) {
	claims, err := s.tokens.Validate(token, auth.TokenTypeEmailVerify)
	if err != nil {
		return "", apperrors.ErrInvalidToken.WithError(err)
	}
	return claims.Subject, nil
}

func (s *AuthServiceImpl) ResendConfirmation(ctx context.Context, db *gorm.DB, email string) error {
	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(email))
	if err != nil {
		return mapUserError(err)
	}
	if user.IsVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	s.sendVerificationAsync(ctx, user.Email)
	return nil
}

func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error {
	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(email))
	if err != nil {
		return mapUserError(err)
	}

	token, err := s.tokens.Issue(user.Email, auth.TokenTypePasswordReset, "", s.cfg.AccessTTL)
	if err != nil {
		return apperrors.InternalError(err)
	}

	to := user.Email
	s.runBackground(ctx, "password reset email", func(bg context.Context) error {
		return s.mailer.SendPasswordReset(bg, to, token)
	})
	return nil
}

// ResetPassword меняет пароль по токену из письма. Email формы, если передан,
// должен совпадать с subject токена.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.PasswordResetConfirm) error {
	claims, err := s.tokens.Validate(req.Token, auth.TokenTypePasswordReset)
	if err != nil {
		return apperrors.ErrInvalidToken.WithError(err)
	}
	if req.Email != "" && normalizeEmail(req.Email) != claims.Subject {
		return apperrors.ErrInvalidToken
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(tx, claims.Subject)
	if err != nil {
		return mapUserError(err)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Update(tx, user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return mapUserError(err)
	}
	invalidateUser(ctx, s.cache, user.ID)

	logger.CtxInfo(ctx, "Password reset", "user_id", user.ID)
	return nil
}

// SeedAdmin создает первого администратора при старте, если заданы
// SECRET_ADMIN_EMAIL и SECRET_ADMIN и такого пользователя еще нет.
func (s *AuthServiceImpl) SeedAdmin(ctx context.Context, db *gorm.DB) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	email := normalizeEmail(s.cfg.AdminEmail)
	tx, cancel := withTimeout(ctx, db, s.cfg.DBTimeout)
	defer cancel()

	if _, err := s.userRepo.FindByEmail(tx, email); err == nil {
		return nil
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   true,
		Role:         models.UserRoleAdmin,
	}
	if err := s.userRepo.Create(tx, admin); err != nil {
		return err
	}

	logger.Info("Admin user created", "email", email)
	return nil
}

func (s *AuthServiceImpl) sendVerificationAsync(ctx context.Context, email string) {
	token, err := s.tokens.Issue(email, auth.TokenTypeEmailVerify, "", s.cfg.VerificationTTL)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to issue verification token", err)
		return
	}
	s.runBackground(ctx, "verification email", func(bg context.Context) error {
		return s.mailer.SendVerification(bg, email, token)
	})
}

// runBackground выполняет задачу вне жизненного цикла запроса;
// ошибка только логируется, на ответ клиенту она не влияет.
func (s *AuthServiceImpl) runBackground(ctx context.Context, name string, task func(context.Context) error) {
	bg := context.WithoutCancel(ctx)
	s.async(func() {
		bg, cancel := context.WithTimeout(bg, mailSendTimeout)
		defer cancel()
		if err := task(bg); err != nil {
			logger.CtxWithError(bg, "Background task failed", err, "task", name)
		}
	})
}
