package contextkeys

// Ключи gin.Context, которые выставляет middleware аутентификации.
// Строковые, потому что gin.Context.Set принимает string.
const (
	UserIDKey    = "userID"
	UserRoleKey  = "role"
	UserEmailKey = "email"

	// DBContextKey - *gorm.DB, привязанный к запросу (DBMiddleware)
	DBContextKey = "db"

	// FreshAccessTokenKey - access-токен, выпущенный в этом же запросе при тихом refresh
	FreshAccessTokenKey = "freshAccessToken"
)
