package handlers

import (
	"net/http"

	"contacts_backend/internal/models"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func toUserDTOs(users []models.User) []dto.UserDTO {
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserDTO(&users[i]))
	}
	return out
}

// GET /admin/users?q=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	q := c.Query("q")
	users, err := h.adminService.ListUsers(c.Request.Context(), h.GetDB(c), q)
	if err != nil {
		h.RenderError(c, "admin_users.html", gin.H{"title": "Users", "q": q}, err)
		return
	}

	h.Render(c, http.StatusOK, "admin_users.html", gin.H{
		"title": "Users",
		"q":     q,
		"users": toUserDTOs(users),
	})
}

// ListUsersAPI godoc
// @Summary Список пользователей
// @Description Только для роли admin; q ищет по email и имени
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Строка поиска"
// @Success 200 {array} dto.UserDTO
// @Failure 401 {object} apperrors.ErrorResponse "Нет токена"
// @Failure 403 {object} apperrors.ErrorResponse "Нужна роль admin"
// @Router /admin/users/api [get]
func (h *AdminHandler) ListUsersAPI(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context(), h.GetDB(c), c.Query("q"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserDTOs(users))
}

// GET /admin/users/:id/edit
func (h *AdminHandler) EditUserPage(c *gin.Context) {
	user, err := h.adminService.GetUser(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			Redirect(c, "/admin/users")
			return
		}
		h.RenderError(c, "admin_users.html", gin.H{"title": "Users"}, err)
		return
	}

	h.Render(c, http.StatusOK, "admin_user_edit.html", gin.H{
		"title":     "Edit user",
		"edit_user": dto.NewUserDTO(user),
	})
}

// UpdateUser godoc
// @Summary Изменить пользователя
// @Description Роль и флаги активности/подтверждения; свою роль admin и активность изменить нельзя
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param role formData string true "user или admin"
// @Param is_active formData string false "on - активен"
// @Param is_verified formData string false "on - email подтвержден"
// @Success 200 {object} dto.UserDTO
// @Success 303 "Редирект на /admin/users (форма)"
// @Failure 400 {object} apperrors.ErrorResponse "Недопустимая роль или операция над собой"
// @Failure 404 {object} apperrors.ErrorResponse "Пользователь не найден"
// @Router /admin/users/{id}/edit [post]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req dto.AdminUpdateUserRequest
	if err := h.Bind(c, &req); err != nil {
		h.renderEditError(c, id, req.ToUpdate(), err)
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), h.GetDB(c), actorID, id, req.ToUpdate())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) && !WantsJSON(c) {
			Redirect(c, "/admin/users")
			return
		}
		h.renderEditError(c, id, req.ToUpdate(), err)
		return
	}

	if WantsJSON(c) {
		c.JSON(http.StatusOK, dto.NewUserDTO(user))
		return
	}
	Redirect(c, "/admin/users")
}

// renderEditError повторно показывает форму с тем, что ввел администратор
func (h *AdminHandler) renderEditError(c *gin.Context, id string, upd dto.AdminUserUpdate, err error) {
	form := dto.UserDTO{ID: id, Role: upd.Role, IsActive: upd.IsActive, IsVerified: upd.IsVerified}
	if user, getErr := h.adminService.GetUser(c.Request.Context(), h.GetDB(c), id); getErr == nil {
		form.Email = user.Email
		form.FullName = user.FullName
	}
	h.RenderError(c, "admin_user_edit.html", gin.H{"title": "Edit user", "edit_user": form}, err)
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Description Контакты пользователя удаляются вместе с ним; удалить себя нельзя
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Success 204 "Удален (JSON-клиент)"
// @Success 303 "Редирект на /admin/users"
// @Failure 400 {object} apperrors.ErrorResponse "Попытка удалить себя"
// @Failure 404 {object} apperrors.ErrorResponse "Пользователь не найден"
// @Router /admin/users/{id}/delete [post]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	err := h.adminService.DeleteUser(c.Request.Context(), h.GetDB(c), actorID, c.Param("id"))
	if WantsJSON(c) {
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	if err != nil && !apperrors.Is(err, apperrors.ErrUserNotFound) {
		h.RenderError(c, "admin_users.html", gin.H{"title": "Users"}, err)
		return
	}
	Redirect(c, "/admin/users")
}
