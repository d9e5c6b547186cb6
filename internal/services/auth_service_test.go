package services

import (
	"context"
	"testing"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc    *AuthServiceImpl
	repo   *MockUserRepository
	mailer *recordingMailer
	tokens *auth.TokenService
	cache  UserCache
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := &MockUserRepository{}
	mailer := &recordingMailer{}
	tokens := newTestTokens(t)
	userCache, _ := newTestCache(t)

	svc := NewAuthService(repo, tokens, mailer, userCache, AuthConfig{
		AccessTTL:       30 * time.Minute,
		RefreshTTL:      7 * 24 * time.Hour,
		VerificationTTL: 24 * time.Hour,
		AdminEmail:      "root@example.com",
		AdminPassword:   "s3cret-admin",
	})
	svc.async = func(f func()) { f() }

	return &authFixture{svc: svc, repo: repo, mailer: mailer, tokens: tokens, cache: userCache}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestAuthService_RegisterSendsVerification(t *testing.T) {
	f := newAuthFixture(t)
	db := newTestDB(t)

	f.repo.On("FindByEmail", "new@example.com").Return(nil, repositories.ErrUserNotFound)
	f.repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" && u.Role == models.UserRoleUser && u.IsActive && !u.IsVerified
	})).Return(nil)

	user, err := f.svc.Register(context.Background(), db, &dto.RegisterRequest{
		Email:    " New@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("secret1", user.PasswordHash))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "verification", sent[0].Kind)

	claims, err := f.tokens.Validate(sent[0].Token, auth.TokenTypeEmailVerify)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims.Subject)
	f.repo.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "dup@example.com").Return(&models.User{Email: "dup@example.com"}, nil)

	_, err := f.svc.Register(context.Background(), newTestDB(t), &dto.RegisterRequest{Email: "dup@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Empty(t, f.mailer.Sent())
}

func TestAuthService_RegisterAdminBootstrap(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "root@example.com").Return(nil, repositories.ErrUserNotFound)
	f.repo.On("Create", mock.Anything).Return(nil)

	user, err := f.svc.Register(context.Background(), newTestDB(t), &dto.RegisterRequest{Email: "root@example.com", Password: "s3cret-admin"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, user.Role)

	f2 := newAuthFixture(t)
	f2.repo.On("FindByEmail", "root@example.com").Return(nil, repositories.ErrUserNotFound)
	f2.repo.On("Create", mock.Anything).Return(nil)

	user, err = f2.svc.Register(context.Background(), newTestDB(t), &dto.RegisterRequest{Email: "root@example.com", Password: "wrong-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleUser, user.Role, "admin email alone is not enough")
}

func TestAuthService_RegisterWeakPassword(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), newTestDB(t), &dto.RegisterRequest{Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestAuthService_LoginVerifiedIssuesSessionAndCaches(t *testing.T) {
	f := newAuthFixture(t)
	user := &models.User{
		BaseModel:    models.BaseModel{ID: "user-1"},
		Email:        "a@example.com",
		PasswordHash: hashed(t, "secret1"),
		IsActive:     true,
		IsVerified:   true,
		Role:         models.UserRoleAdmin,
	}
	f.repo.On("FindByEmail", "a@example.com").Return(user, nil)

	res, err := f.svc.Login(context.Background(), newTestDB(t), &dto.LoginRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	assert.Empty(t, res.VerifyToken)

	access, err := f.tokens.Validate(res.Tokens.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.Subject)
	assert.Equal(t, "admin", access.Role)

	refresh, err := f.tokens.Validate(res.Tokens.RefreshToken, auth.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.Subject)
	assert.Empty(t, refresh.Role)

	snapshot, found, err := f.cache.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a@example.com", snapshot.Email)
}

func TestAuthService_LoginUnverifiedGetsVerifyToken(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "a@example.com").Return(&models.User{
		BaseModel:    models.BaseModel{ID: "user-1"},
		Email:        "a@example.com",
		PasswordHash: hashed(t, "secret1"),
		IsActive:     true,
	}, nil)

	res, err := f.svc.Login(context.Background(), newTestDB(t), &dto.LoginRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, res.Tokens)

	email, err := f.svc.EmailFromVerifyToken(res.VerifyToken)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)
}

func TestAuthService_LoginRejections(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		err  error
		pass string
	}{
		{name: "unknown email", err: repositories.ErrUserNotFound, pass: "secret1"},
		{name: "wrong password", user: &models.User{Email: "a@example.com", IsActive: true}, pass: "nope"},
		{name: "inactive user", user: &models.User{Email: "a@example.com", IsActive: false}, pass: "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.user != nil {
				tt.user.PasswordHash = hashed(t, "secret1")
			}
			f.repo.On("FindByEmail", "a@example.com").Return(tt.user, tt.err)

			_, err := f.svc.Login(context.Background(), newTestDB(t), &dto.LoginRequest{Email: "a@example.com", Password: tt.pass})
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			assert.Equal(t, 401, apperrors.HTTPStatus(err))
		})
	}
}

func TestAuthService_IssueToken(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "a@example.com").Return(&models.User{
		BaseModel:    models.BaseModel{ID: "user-1"},
		Email:        "a@example.com",
		PasswordHash: hashed(t, "secret1"),
		IsActive:     true,
		Role:         models.UserRoleUser,
	}, nil)

	resp, err := f.svc.IssueToken(context.Background(), newTestDB(t), &dto.TokenRequest{Username: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := f.tokens.Validate(resp.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Email: "a@example.com", IsActive: true}
	require.NoError(t, f.cache.Put(ctx, user))

	f.repo.On("FindByEmail", "a@example.com").Return(user, nil)
	f.repo.On("Update", "user-1", map[string]interface{}{"is_verified": true}).Return(nil)

	token, err := f.tokens.Issue("a@example.com", auth.TokenTypeEmailVerify, "", time.Hour)
	require.NoError(t, err)

	already, err := f.svc.ConfirmEmail(ctx, newTestDB(t), token)
	require.NoError(t, err)
	assert.False(t, already)

	_, found, _ := f.cache.Get(ctx, "user-1")
	assert.False(t, found, "confirmation invalidates the cached user")
	f.repo.AssertExpectations(t)
}

func TestAuthService_ConfirmEmailAlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "a@example.com").Return(&models.User{Email: "a@example.com", IsVerified: true}, nil)

	token, err := f.tokens.Issue("a@example.com", auth.TokenTypeEmailVerify, "", time.Hour)
	require.NoError(t, err)

	already, err := f.svc.ConfirmEmail(context.Background(), newTestDB(t), token)
	require.NoError(t, err)
	assert.True(t, already)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_ConfirmEmailRejectsOtherTokenTypes(t *testing.T) {
	f := newAuthFixture(t)

	reset, err := f.tokens.Issue("a@example.com", auth.TokenTypePasswordReset, "", time.Hour)
	require.NoError(t, err)

	_, err = f.svc.ConfirmEmail(context.Background(), newTestDB(t), reset)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestAuthService_ResendConfirmation(t *testing.T) {
	f := newAuthFixture(t)
	db := newTestDB(t)
	f.repo.On("FindByEmail", "pending@example.com").Return(&models.User{Email: "pending@example.com"}, nil)
	f.repo.On("FindByEmail", "done@example.com").Return(&models.User{Email: "done@example.com", IsVerified: true}, nil)
	f.repo.On("FindByEmail", "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

	require.NoError(t, f.svc.ResendConfirmation(context.Background(), db, "pending@example.com"))
	assert.Len(t, f.mailer.Sent(), 1)

	err := f.svc.ResendConfirmation(context.Background(), db, "done@example.com")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyVerified)

	err = f.svc.ResendConfirmation(context.Background(), db, "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Len(t, f.mailer.Sent(), 1)
}

func TestAuthService_UseRunnerQueuesMail(t *testing.T) {
	f := newAuthFixture(t)
	db := newTestDB(t)
	f.repo.On("FindByEmail", "pending@example.com").Return(&models.User{Email: "pending@example.com"}, nil)

	var queued []func()
	f.svc.UseRunner(func(task func()) { queued = append(queued, task) })
	f.svc.UseRunner(nil) // nil не сбрасывает уже заданный пул

	require.NoError(t, f.svc.ResendConfirmation(context.Background(), db, "pending@example.com"))
	require.Len(t, queued, 1)
	assert.Empty(t, f.mailer.Sent())

	queued[0]()
	assert.Len(t, f.mailer.Sent(), 1)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	db := newTestDB(t)
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Email: "a@example.com", IsActive: true}

	f.repo.On("FindByEmail", "a@example.com").Return(user, nil)
	f.repo.On("Update", "user-1", mock.MatchedBy(func(upd map[string]interface{}) bool {
		h, ok := upd["password_hash"].(string)
		return ok && auth.CheckPasswordHash("brand-new", h)
	})).Return(nil)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, db, "a@example.com"))
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "password_reset", sent[0].Kind)

	require.NoError(t, f.cache.Put(ctx, user))
	err := f.svc.ResetPassword(ctx, db, &dto.PasswordResetConfirm{
		Token:       sent[0].Token,
		Email:       "a@example.com",
		NewPassword: "brand-new",
	})
	require.NoError(t, err)

	_, found, _ := f.cache.Get(ctx, "user-1")
	assert.False(t, found)
	f.repo.AssertExpectations(t)
}

func TestAuthService_ResetPasswordRejectsBadTokens(t *testing.T) {
	f := newAuthFixture(t)
	db := newTestDB(t)

	verify, err := f.tokens.Issue("a@example.com", auth.TokenTypeEmailVerify, "", time.Hour)
	require.NoError(t, err)
	err = f.svc.ResetPassword(context.Background(), db, &dto.PasswordResetConfirm{Token: verify, NewPassword: "brand-new"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	reset, err := f.tokens.Issue("a@example.com", auth.TokenTypePasswordReset, "", time.Hour)
	require.NoError(t, err)
	err = f.svc.ResetPassword(context.Background(), db, &dto.PasswordResetConfirm{Token: reset, Email: "b@example.com", NewPassword: "brand-new"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "email must match the token subject")
}

func TestAuthService_SeedAdmin(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("FindByEmail", "root@example.com").Return(nil, repositories.ErrUserNotFound).Once()
	f.repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.UserRoleAdmin && u.IsVerified && u.IsActive
	})).Return(nil).Once()

	require.NoError(t, f.svc.SeedAdmin(context.Background(), newTestDB(t)))

	f.repo.On("FindByEmail", "root@example.com").Return(&models.User{Email: "root@example.com"}, nil)
	require.NoError(t, f.svc.SeedAdmin(context.Background(), newTestDB(t)))
	f.repo.AssertNumberOfCalls(t, "Create", 1)
}
