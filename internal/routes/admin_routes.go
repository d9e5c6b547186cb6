package routes

import (
	"contacts_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(r *gin.Engine, adminHandler *handlers.AdminHandler, guards Guards) {
	admin := r.Group("/admin")
	admin.Use(guards.AdminOnly)
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/api", adminHandler.ListUsersAPI)
		admin.GET("/users/:id/edit", adminHandler.EditUserPage)
		admin.POST("/users/:id/edit", adminHandler.UpdateUser)
		admin.POST("/users/:id/delete", adminHandler.DeleteUser)
	}
}
