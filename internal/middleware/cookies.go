package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	VerifyTokenCookie  = "email_verify_token"

	bearerPrefix = "Bearer "
)

// CookieConfig - атрибуты cookie сессии. Secure выключается только для локальной разработки по http.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// sameSite - None для разрешенных CORS-клиентов; браузер принимает None только вместе
// с Secure, поэтому при InsecureCookies (http в разработке) остается Lax.
func (cc CookieConfig) sameSite() http.SameSite {
	if cc.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (cc CookieConfig) set(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.sameSite(),
	})
}

func (cc CookieConfig) SetAccess(c *gin.Context, token string) {
	cc.set(c, AccessTokenCookie, token, cc.AccessTTL)
}

// SetBearerAccess - access cookie с префиксом "Bearer " (ответ /auth/token)
func (cc CookieConfig) SetBearerAccess(c *gin.Context, token string) {
	cc.set(c, AccessTokenCookie, bearerPrefix+token, cc.AccessTTL)
}

func (cc CookieConfig) SetRefresh(c *gin.Context, token string) {
	cc.set(c, RefreshTokenCookie, token, cc.RefreshTTL)
}

// SetVerify - временный email_verify токен для повторной отправки письма
func (cc CookieConfig) SetVerify(c *gin.Context, token string) {
	cc.set(c, VerifyTokenCookie, token, cc.AccessTTL)
}

// ClearSession удаляет обе cookie сессии
func (cc CookieConfig) ClearSession(c *gin.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cc.Secure,
			SameSite: cc.sameSite(),
		})
	}
}

func stripBearer(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(token[len(bearerPrefix):])
	}
	return token
}

// AccessTokenFrom - access токен из cookie, иначе из заголовка Authorization
func AccessTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(AccessTokenCookie); err == nil && v != "" {
		return stripBearer(v)
	}
	if h := c.GetHeader("Authorization"); h != "" {
		return stripBearer(h)
	}
	return ""
}
