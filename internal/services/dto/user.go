package dto

import (
	"time"

	"contacts_backend/internal/models"
)

// CurrentUserResponse - ответ GET /users/me
type CurrentUserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// UserDTO - пользователь в админке
type UserDTO struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	FullName   string          `json:"full_name"`
	Role       models.UserRole `json:"role"`
	IsActive   bool            `json:"is_active"`
	IsVerified bool            `json:"is_verified"`
	AvatarURL  string          `json:"avatar_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
}

// AdminUpdateUserRequest - форма редактирования пользователя; чекбоксы приходят как "on"
type AdminUpdateUserRequest struct {
	Role       string `form:"role" json:"role" validate:"required,is-user-role"`
	IsActive   string `form:"is_active" json:"is_active"`
	IsVerified string `form:"is_verified" json:"is_verified"`
}

// AdminUserUpdate - нормализованное изменение пользователя для сервиса
type AdminUserUpdate struct {
	Role       models.UserRole
	IsActive   bool
	IsVerified bool
}

func (r *AdminUpdateUserRequest) ToUpdate() AdminUserUpdate {
	return AdminUserUpdate{
		Role:       models.UserRole(r.Role),
		IsActive:   isChecked(r.IsActive),
		IsVerified: isChecked(r.IsVerified),
	}
}

func isChecked(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// AvatarResponse - ответ загрузки аватара
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
