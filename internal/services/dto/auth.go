package dto

// RegisterRequest - форма регистрации
type RegisterRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
	FullName string `form:"full_name" json:"full_name" validate:"omitempty,max=255"`
}

// LoginRequest - форма входа
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// TokenRequest - форма POST /auth/token; username принимается как синоним email (OAuth2 password flow)
type TokenRequest struct {
	Email    string `form:"email" validate:"required_without=Username,omitempty,email"`
	Username string `form:"username" validate:"omitempty,email"`
	Password string `form:"password" validate:"required"`
}

// Login возвращает email из любого из двух полей
func (r *TokenRequest) Login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// ResendConfirmationRequest - email можно не передавать, тогда берется из email_verify_token cookie
type ResendConfirmationRequest struct {
	Email string `form:"email" json:"email" validate:"omitempty,email"`
}

// PasswordResetRequest - запрос письма со ссылкой сброса
type PasswordResetRequest struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// PasswordResetConfirm - новый пароль по токену из письма
type PasswordResetConfirm struct {
	Token       string `form:"token" json:"token" validate:"required"`
	Email       string `form:"email" json:"email" validate:"omitempty,email"`
	NewPassword string `form:"new_password" json:"new_password" validate:"required,min=6"`
}

// TokenResponse - ответ POST /auth/token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SessionTokens - пара токенов после успешного входа
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}
