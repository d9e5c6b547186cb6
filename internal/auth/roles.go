package auth

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// HasRole - роль в подписанном claim совпадает с требуемой
func HasRole(claims *Claims, role string) bool {
	return claims != nil && claims.Role == role
}

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return HasRole(claims, RoleAdmin)
}
