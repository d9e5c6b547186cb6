package middleware

import (
	"contacts_backend/internal/auth"
	"contacts_backend/internal/models"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// RequireRole - ограничение маршрута ролью. Роль берется из access токена,
// выпущенного в этом запросе (тихий refresh), иначе из cookie или заголовка.
// В БД не ходит.
func RequireRole(tokens *auth.TokenService, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(contextkeys.FreshAccessTokenKey)
		if token == "" {
			token = AccessTokenFrom(c)
		}
		if token == "" {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}

		claims, err := tokens.Validate(token, auth.TokenTypeAccess)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated.WithError(err))
			return
		}

		if !auth.HasRole(claims, string(role)) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}
