package handlers

import (
	"net/http"
	"net/url"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Сообщения для /login?info=...
var loginInfo = map[string]string{
	"registered":          "Registration complete. Check your email to confirm the address.",
	"email_verified":      "Email confirmed. You can log in now.",
	"already_verified":    "Email is already confirmed. You can log in.",
	"email_sent":          "Confirmation email sent. Check your inbox.",
	"password_reset_done": "Password updated. Log in with the new password.",
}

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	tokens      *auth.TokenService
	cookies     middleware.CookieConfig
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, tokens *auth.TokenService, cookies middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		tokens:      tokens,
		cookies:     cookies,
	}
}

// hasSession - в запросе валидный access токен (страницы / и /login не проходят через AuthGate)
func (h *AuthHandler) hasSession(c *gin.Context) bool {
	token := middleware.AccessTokenFrom(c)
	if token == "" {
		return false
	}
	_, err := h.tokens.Validate(token, auth.TokenTypeAccess)
	return err == nil
}

// GET /
func (h *AuthHandler) Index(c *gin.Context) {
	if h.hasSession(c) {
		Redirect(c, "/contacts")
		return
	}
	h.Render(c, http.StatusOK, "index.html", nil)
}

// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.hasSession(c) {
		Redirect(c, "/contacts")
		return
	}
	h.Render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"info":  loginInfo[c.Query("info")],
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := h.Bind(c, &req); err != nil {
		h.RenderError(c, "login.html", gin.H{"title": "Log in", "email": req.Email}, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.RenderError(c, "login.html", gin.H{"title": "Log in", "email": req.Email}, err)
		return
	}

	if result.Tokens == nil {
		h.cookies.SetVerify(c, result.VerifyToken)
		Redirect(c, "/verify-info?email="+url.QueryEscape(result.User.Email))
		return
	}

	h.cookies.SetAccess(c, result.Tokens.AccessToken)
	h.cookies.SetRefresh(c, result.Tokens.RefreshToken)
	Redirect(c, "/contacts")
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearSession(c)
	Redirect(c, "/login")
}

// GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.Render(c, http.StatusOK, "register.html", gin.H{"title": "Create account"})
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	form := gin.H{"title": "Create account"}

	if err := h.Bind(c, &req); err != nil {
		form["email"], form["full_name"] = req.Email, req.FullName
		h.RenderError(c, "register.html", form, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		form["email"], form["full_name"] = req.Email, req.FullName
		h.RenderError(c, "register.html", form, err)
		return
	}

	if WantsJSON(c) {
		c.JSON(http.StatusCreated, dto.NewUserDTO(user))
		return
	}
	Redirect(c, "/login?info=registered")
}

// IssueToken godoc
// @Summary Получить access токен
// @Description Проверяет email и пароль и возвращает bearer токен; тот же токен ставится в cookie access_token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email (или username)"
// @Param password formData string true "Пароль"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} apperrors.ErrorResponse "Не заполнены поля"
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учетные данные"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.IssueToken(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cookies.SetBearerAccess(c, resp.AccessToken)
	c.JSON(http.StatusOK, resp)
}

// GET /auth/confirm-email?token=
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.RenderError(c, "message.html", gin.H{"title": "Email confirmation"}, apperrors.ErrInvalidToken)
		return
	}

	alreadyVerified, err := h.authService.ConfirmEmail(c.Request.Context(), h.GetDB(c), token)
	if err != nil {
		h.RenderError(c, "message.html", gin.H{"title": "Email confirmation"}, err)
		return
	}

	if alreadyVerified {
		Redirect(c, "/login?info=already_verified")
		return
	}
	Redirect(c, "/login?info=email_verified")
}

// GET /verify-info?email=
func (h *AuthHandler) VerifyInfo(c *gin.Context) {
	h.Render(c, http.StatusOK, "verify_info.html", gin.H{
		"title": "Confirm your email",
		"email": c.Query("email"),
	})
}

// POST /users/resend-confirmation
// Email берется из формы, а если его нет - из cookie email_verify_token, выставленной при входе.
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req dto.ResendConfirmationRequest
	data := gin.H{"title": "Confirm your email"}

	if err := h.Bind(c, &req); err != nil {
		h.RenderError(c, "verify_info.html", data, err)
		return
	}

	email := req.Email
	if email == "" {
		cookie, err := c.Cookie(middleware.VerifyTokenCookie)
		if err != nil || cookie == "" {
			h.RenderError(c, "verify_info.html", data, apperrors.ValidationError(map[string]string{
				"email": "This field is required",
			}))
			return
		}
		if email, err = h.authService.EmailFromVerifyToken(cookie); err != nil {
			h.RenderError(c, "verify_info.html", data, err)
			return
		}
	}
	data["email"] = email

	if err := h.authService.ResendConfirmation(c.Request.Context(), h.GetDB(c), email); err != nil {
		h.RenderError(c, "verify_info.html", data, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Confirmation email re-sent", "email", email)
	Redirect(c, "/login?info=email_sent")
}

// GET /users/request-password-reset
func (h *AuthHandler) RequestPasswordResetPage(c *gin.Context) {
	h.Render(c, http.StatusOK, "request_reset.html", gin.H{
		"title": "Reset password",
		"email": c.Query("email"),
	})
}

// POST /users/request-password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	data := gin.H{"title": "Reset password"}

	if err := h.Bind(c, &req); err != nil {
		data["email"] = req.Email
		h.RenderError(c, "request_reset.html", data, err)
		return
	}
	data["email"] = req.Email

	if err := h.authService.RequestPasswordReset(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.RenderError(c, "request_reset.html", data, err)
		return
	}

	data["sent"] = true
	h.Render(c, http.StatusOK, "request_reset.html", data)
}

// GET /users/reset-password?token=&email=
func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.RenderError(c, "message.html", gin.H{"title": "Reset password"}, apperrors.ErrInvalidToken)
		return
	}
	h.Render(c, http.StatusOK, "reset_password.html", gin.H{
		"title": "Reset password",
		"token": token,
		"email": c.Query("email"),
	})
}

// POST /users/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if err := h.Bind(c, &req); err != nil {
		h.RenderError(c, "reset_password.html", gin.H{
			"title": "Reset password",
			"token": req.Token,
			"email": req.Email,
		}, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.RenderError(c, "reset_password.html", gin.H{
			"title": "Reset password",
			"token": req.Token,
			"email": req.Email,
		}, err)
		return
	}

	Redirect(c, "/login?info=password_reset_done")
}
