package routes

import (
	"net/http"

	_ "contacts_backend/docs"
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Guards - middleware, которые навешиваются на отдельные маршруты.
// AuthGate подключается глобально в app и сам пропускает публичные пути.
type Guards struct {
	AdminOnly   gin.HandlerFunc
	MeLimit     gin.HandlerFunc
	ResendLimit gin.HandlerFunc
}

// RegisterRoutes регистрирует все HTTP маршруты.
// uploadsDir - каталог локального хранилища аватаров; пустой, если файлы лежат в S3/MinIO.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guards Guards,
	uploadsDir string,
) {
	ginRouter.StaticFS("/static", http.FS(web.Static()))
	if uploadsDir != "" {
		ginRouter.Static("/uploads", uploadsDir)
	}

	ginRouter.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)

	SetupPublicRoutes(ginRouter, appHandlers.AuthHandler, guards)
	SetupCommonRoutes(ginRouter, appHandlers.UserHandler, appHandlers.ContactHandler, guards)
	SetupAdminRoutes(ginRouter, appHandlers.AdminHandler, guards)

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
