package handlers

import (
	"io"
	"net/http"

	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	maxUploadSize int64
}

func NewUserHandler(base *BaseHandler, userService services.UserService, maxUploadSize int64) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		maxUploadSize: maxUploadSize,
	}
}

// GetMe godoc
// @Summary Текущий пользователь
// @Description Возвращает id, email и аватар; читается через кеш Redis
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CurrentUserResponse
// @Failure 400 {object} apperrors.ErrorResponse "Пользователь деактивирован"
// @Failure 429 {object} apperrors.ErrorResponse "Слишком много запросов"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetCurrentUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadDefaultAvatar godoc
// @Summary Загрузить аватар
// @Description Изображение (jpeg, png, gif, webp) уменьшается и сохраняется в хранилище
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Изображение"
// @Success 201 {object} dto.AvatarResponse
// @Failure 400 {object} apperrors.ErrorResponse "Файл не передан или не читается"
// @Failure 403 {object} apperrors.ErrorResponse "Нужна роль admin"
// @Failure 413 {object} apperrors.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} apperrors.ErrorResponse "Неподдерживаемый тип"
// @Router /users/default-avatar [post]
func (h *UserHandler) UploadDefaultAvatar(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File is required"))
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	// размер из заголовка multipart не доверяем, читаем не больше лимита + 1 байт
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge)
		return
	}

	url, err := h.userService.UploadAvatar(c.Request.Context(), h.GetDB(c), userID, data)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AvatarResponse{AvatarURL: url})
}
