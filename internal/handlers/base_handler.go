package handlers

import (
	"net/http"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB, привязанный к запросу.
// Без DBMiddleware приложение сконфигурировано неверно.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db := middleware.GetDB(c)
	if db == nil {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", contextkeys.DBContextKey)
		panic("critical error: DBMiddleware did not set the db key")
	}
	return db
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

// Bind разбирает форму или JSON (по Content-Type) и валидирует результат.
// Ошибка валидации возвращается как AppError с деталями по полям.
func (h *BaseHandler) Bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind request", err, "path", c.Request.URL.Path)
		return apperrors.NewBadRequestError("Invalid request body")
	}
	return h.validate(c, obj)
}

// BindQuery - то же для query-параметров
func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind query params", err, "path", c.Request.URL.Path)
		return apperrors.NewBadRequestError("Invalid query parameters")
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) error {
	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(c.Request.Context(), "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			return apperrors.ValidationError(vErr.Errors)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// BindAndValidate_JSON - вариант для JSON-эндпоинтов: ошибка сразу пишется в ответ
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	if err := h.Bind(c, obj); err != nil {
		apperrors.HandleError(c, err)
		return false
	}
	return true
}

// ============================================================================
// 3. Ошибки и ответы
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.CtxWithError(ctx, "Service error", err, "path", c.Request.URL.Path)
		} else {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"details", appErr.Details,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// WantsJSON - клиент API (Accept: application/json), а не браузерная форма
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RenderError отдает ошибку страницей page (для браузера) или JSON (для API).
// data дополняется полями error и errors.
func (h *BaseHandler) RenderError(c *gin.Context, page string, data gin.H, err error) {
	if WantsJSON(c) {
		h.HandleServiceError(c, err)
		return
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		h.HandleServiceError(c, err)
		return
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxWithError(c.Request.Context(), "Service error", err, "path", c.Request.URL.Path)
	}

	data = withSession(c, data)
	data["error"] = appErr.Message
	if details, ok := appErr.Details.(map[string]string); ok {
		data["errors"] = details
	}
	c.HTML(appErr.HTTPCode, page, data)
	c.Abort()
}

// Render отдает HTML-страницу; шапке нужны email и роль из AuthGate
func (h *BaseHandler) Render(c *gin.Context, status int, page string, data gin.H) {
	c.HTML(status, page, withSession(c, data))
}

func withSession(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if email := c.GetString(contextkeys.UserEmailKey); email != "" {
		data["user_email"] = email
		data["role"] = c.GetString(contextkeys.UserRoleKey)
	}
	// шаблоны обращаются к .errors через index, nil там недопустим
	if _, ok := data["errors"]; !ok {
		data["errors"] = map[string]string{}
	}
	return data
}

// Redirect - 303 See Other после успешной отправки формы
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// CurrentUserID - id из AuthGate; пустой id означает ошибку конфигурации маршрутов
func (h *BaseHandler) CurrentUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
		return "", false
	}
	return userID, true
}
