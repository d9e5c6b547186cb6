package routes

import (
	"contacts_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupCommonRoutes - маршруты любого вошедшего пользователя
func SetupCommonRoutes(
	r *gin.Engine,
	userHandler *handlers.UserHandler,
	contactHandler *handlers.ContactHandler,
	guards Guards,
) {
	users := r.Group("/users")
	{
		users.GET("/me", guards.MeLimit, userHandler.GetMe)
		users.POST("/default-avatar", guards.AdminOnly, userHandler.UploadDefaultAvatar)
	}

	contacts := r.Group("/contacts")
	{
		contacts.GET("", contactHandler.ListContacts)
		contacts.GET("/add", contactHandler.AddContactPage)
		contacts.POST("/add", contactHandler.AddContact)
		contacts.GET("/edit/:id", contactHandler.EditContactPage)
		contacts.POST("/edit/:id", contactHandler.EditContact)
		contacts.GET("/delete/:id", contactHandler.DeleteContact)
		contacts.GET("/birthdays/upcoming", contactHandler.UpcomingBirthdays)
	}
}
