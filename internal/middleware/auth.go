package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PublicPaths - пути, доступные без сессии (точное совпадение или префикс + "/")
var PublicPaths = []string{
	"/",
	"/login",
	"/register",
	"/static",
	"/uploads",
	"/favicon.ico",
	"/logout",
	"/auth/token",
	"/auth/confirm-email",
	"/users/resend-confirmation",
	"/users/request-password-reset",
	"/users/reset-password",
	"/verify-info",
	"/docs",
	"/health",
}

// UserLookup - загрузка пользователя по id (repositories.UserRepository)
type UserLookup interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
}

type GateConfig struct {
	Tokens    *auth.TokenService
	Users     UserLookup
	Cookies   CookieConfig
	DBTimeout time.Duration
}

func isPublicPath(path string) bool {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	for _, pub := range PublicPaths {
		if path == pub || (pub != "/" && strings.HasPrefix(path, pub+"/")) {
			return true
		}
	}
	return false
}

// AuthGate - проверка сессии на каждом запросе:
//  1. публичный путь пропускается;
//  2. нет ни access, ни refresh cookie - редирект на /login;
//  3. валидный access токен дает id и роль;
//  4. иначе валидный refresh токен дает id, а новый access токен выпускается
//     с ролью, заново прочитанной из БД;
//  5. пользователь должен существовать и быть активным;
//  6. неподтвержденный email отправляет на /verify-info.
func AuthGate(cfg GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		accessToken := AccessTokenFrom(c)
		refreshToken, _ := c.Cookie(RefreshTokenCookie)

		if accessToken == "" && refreshToken == "" {
			redirectToLogin(c)
			return
		}

		var userID string
		if accessToken != "" {
			if claims, err := cfg.Tokens.Validate(accessToken, auth.TokenTypeAccess); err == nil {
				userID = claims.Subject
			}
		}

		refreshed := false
		if userID == "" {
			if refreshToken == "" {
				redirectToLogin(c)
				return
			}
			claims, err := cfg.Tokens.Validate(refreshToken, auth.TokenTypeRefresh)
			if err != nil {
				logger.CtxDebug(ctx, "Refresh token rejected", "error", err)
				cfg.Cookies.ClearSession(c)
				redirectToLogin(c)
				return
			}
			userID = claims.Subject
			refreshed = true
		}

		user, err := cfg.loadUser(ctx, c, userID)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				logger.CtxWithError(ctx, "Failed to load user in auth gate", err, "user_id", userID)
			}
			redirectToLogin(c)
			return
		}
		if !user.IsActive {
			redirectToLogin(c)
			return
		}

		if refreshed {
			fresh, err := cfg.Tokens.Issue(user.ID, auth.TokenTypeAccess, string(user.Role), cfg.Cookies.AccessTTL)
			if err != nil {
				logger.CtxWithError(ctx, "Failed to refresh access token", err, "user_id", user.ID)
				redirectToLogin(c)
				return
			}
			cfg.Cookies.SetAccess(c, fresh)
			c.Set(contextkeys.FreshAccessTokenKey, fresh)
			logger.CtxDebug(ctx, "Access token refreshed", "user_id", user.ID)
		}

		if !user.IsVerified {
			c.Redirect(http.StatusSeeOther, "/verify-info?email="+url.QueryEscape(user.Email))
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.UserRoleKey, string(user.Role))
		c.Set(contextkeys.UserEmailKey, user.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))

		c.Next()
	}
}

func (cfg GateConfig) loadUser(ctx context.Context, c *gin.Context, id string) (*models.User, error) {
	db := GetDB(c)
	if db != nil && cfg.DBTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DBTimeout)
		defer cancel()
		db = db.WithContext(ctx)
	}
	return cfg.Users.FindByID(db, id)
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

// GetUserRole - роль, выставленная AuthGate
func GetUserRole(c *gin.Context) string {
	return c.GetString(contextkeys.UserRoleKey)
}
