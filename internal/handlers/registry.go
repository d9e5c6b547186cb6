package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	ContactHandler *ContactHandler
	AdminHandler   *AdminHandler
	HealthHandler  *HealthHandler
}
