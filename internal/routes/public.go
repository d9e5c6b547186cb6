package routes

import (
	"contacts_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes - страницы и формы, доступные без сессии (см. middleware.PublicPaths)
func SetupPublicRoutes(r *gin.Engine, authHandler *handlers.AuthHandler, guards Guards) {
	r.GET("/", authHandler.Index)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/verify-info", authHandler.VerifyInfo)

	// logout публичный: просроченная сессия тоже должна уметь стереть свои cookie
	r.POST("/logout", authHandler.Logout)

	auth := r.Group("/auth")
	{
		auth.POST("/token", authHandler.IssueToken)
		auth.GET("/confirm-email", authHandler.ConfirmEmail)
	}

	users := r.Group("/users")
	{
		users.POST("/resend-confirmation", guards.ResendLimit, authHandler.ResendConfirmation)
		users.GET("/request-password-reset", authHandler.RequestPasswordResetPage)
		users.POST("/request-password-reset", authHandler.RequestPasswordReset)
		users.GET("/reset-password", authHandler.ResetPasswordPage)
		users.POST("/reset-password", authHandler.ResetPassword)
	}
}
