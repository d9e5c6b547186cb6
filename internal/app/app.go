package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/config"
	"contacts_backend/internal/email"
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/imageprocessor"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/routes"
	"contacts_backend/internal/services"
	"contacts_backend/internal/storage"
	"contacts_backend/internal/validator"
	"contacts_backend/internal/web"
	"contacts_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second

	mailWorkers   = 2
	mailQueueSize = 100
)

// Container - зависимости приложения, собираются один раз в Run и передаются явно
type Container struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client // nil - кеш и лимиты выключены
	Storage storage.Storage
	Mailer  *email.Mailer
	Tokens  *auth.TokenService
	Worker  *workers.BackgroundWorker // nil - фоновые задачи в отдельных горутинах
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("production")
		logger.Fatal("Invalid configuration", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer container.Close()

	if err := database.AutoMigrate(container.DB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	serviceContainer := initializeServices(container)

	if err := seedFirstAdmin(ctx, container, serviceContainer); err != nil {
		// без администратора админку не открыть - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, err := SetupRouter(container, serviceContainer)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received interruption signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	serverErr := g.Wait()

	// письма, поставленные в очередь до остановки, досылаются
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := container.Worker.Stop(drainCtx); err != nil {
		logger.Warn("Background tasks did not finish in time", "error", err)
	}

	if serverErr != nil {
		logger.Error("Server stopped with error", "error", serverErr)
		return
	}
	logger.Info("Shutdown complete")
}

// NewContainer подключает БД, Redis, хранилище и почту по конфигурации
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		Env:          cfg.Server.Env,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		// кеш best-effort: без Redis приложение работает, только медленнее
		logger.Warn("Redis unavailable, cache and rate limits are disabled", "error", err)
		redisClient = nil
	} else if redisClient == nil {
		logger.Warn("REDIS_URL is not set, cache and rate limits are disabled")
	}

	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	smtpConfig := &email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if !smtpConfig.IsConfigured() {
		logger.Warn("SMTP is not configured, emails will be written to the log")
	}
	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	mailer := email.NewMailer(email.NewProvider(smtpConfig), templates, cfg.Server.PublicURL, cfg.VerificationTTL())

	tokens, err := auth.NewTokenService(auth.Secrets{
		Access:  cfg.JWT.SecretKey,
		Refresh: cfg.JWT.RefreshSecretKey,
		Email:   cfg.JWT.EmailSecretKey,
	})
	if err != nil {
		return nil, err
	}

	worker := workers.NewBackgroundWorker(mailWorkers, mailQueueSize)
	worker.Start()

	return &Container{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Storage: storageInstance,
		Mailer:  mailer,
		Tokens:  tokens,
		Worker:  worker,
	}, nil
}

// Close освобождает соединения с БД и Redis
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
	if err := database.Close(c.DB); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}

func (c *Container) cookies() middleware.CookieConfig {
	return middleware.CookieConfig{
		Secure:     !c.Config.Server.InsecureCookies,
		AccessTTL:  c.Config.AccessTTL(),
		RefreshTTL: c.Config.RefreshTTL(),
	}
}

func (c *Container) userCache() *cache.UserCache {
	return cache.NewUserCache(c.Redis, c.Config.UserCacheTTL(), c.Config.RedisOpTimeout())
}

// SetupRouter собирает gin.Engine: шаблоны, глобальные middleware и маршруты
func SetupRouter(c *Container, serviceContainer *services.ServiceContainer) (*gin.Engine, error) {
	appHandlers := initializeHandlers(c, serviceContainer)

	ginRouter, err := initializeGinRouter(c)
	if err != nil {
		return nil, err
	}

	limiter := cache.NewRateLimiter(c.Redis, c.Config.RateLimit.Requests, c.Config.RateLimitWindow(), c.Config.RedisOpTimeout())
	guards := routes.Guards{
		AdminOnly:   middleware.RequireRole(c.Tokens, models.UserRoleAdmin),
		MeLimit:     middleware.RateLimit(limiter, "users_me"),
		ResendLimit: middleware.RateLimit(limiter, "resend_confirmation"),
	}

	uploadsDir := ""
	if local, ok := c.Storage.(*storage.LocalStorage); ok {
		uploadsDir = local.BasePath()
	}

	routes.RegisterRoutes(ginRouter, appHandlers, guards, uploadsDir)
	return ginRouter, nil
}

func initializeServices(c *Container) *services.ServiceContainer {
	cfg := c.Config
	dbTimeout := cfg.DatabaseOpTimeout()
	userCache := c.userCache()

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	contactRepo := repositories.NewContactRepository()

	// --- Инициализация сервисов ---
	images := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.AllowedTypes)

	authService := services.NewAuthService(userRepo, c.Tokens, c.Mailer, userCache, services.AuthConfig{
		AccessTTL:       cfg.AccessTTL(),
		RefreshTTL:      cfg.RefreshTTL(),
		VerificationTTL: cfg.VerificationTTL(),
		DBTimeout:       dbTimeout,
		AdminEmail:      cfg.Admin.Email,
		AdminPassword:   cfg.Admin.Password,
	})
	if c.Worker != nil {
		authService.UseRunner(c.Worker.Submit)
	}
	userService := services.NewUserService(userRepo, userCache, c.Storage, images, cfg.Upload.AvatarSize, dbTimeout)
	contactService := services.NewContactService(contactRepo, dbTimeout)
	adminService := services.NewAdminService(userRepo, userCache, dbTimeout)

	return &services.ServiceContainer{
		AuthService:    authService,
		UserService:    userService,
		ContactService: contactService,
		AdminService:   adminService,
	}
}

func initializeHandlers(c *Container, svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, svc.AuthService, c.Tokens, c.cookies()),
		UserHandler:    handlers.NewUserHandler(baseHandler, svc.UserService, c.Config.Upload.MaxSize),
		ContactHandler: handlers.NewContactHandler(baseHandler, svc.ContactService),
		AdminHandler:   handlers.NewAdminHandler(baseHandler, svc.AdminService),
		HealthHandler:  handlers.NewHealthHandler(c.DB, c.Redis),
	}
}

func initializeGinRouter(c *Container) (*gin.Engine, error) {
	if !c.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(c.Config.CORS.Origins))
	router.Use(middleware.DBMiddleware(c.DB))
	router.Use(middleware.AuthGate(middleware.GateConfig{
		Tokens:    c.Tokens,
		Users:     repositories.NewUserRepository(),
		Cookies:   c.cookies(),
		DBTimeout: c.Config.DatabaseOpTimeout(),
	}))
	return router, nil
}

// seedFirstAdmin создает администратора из SECRET_ADMIN_EMAIL / SECRET_ADMIN, если его еще нет
func seedFirstAdmin(ctx context.Context, c *Container, svc *services.ServiceContainer) error {
	if c.Config.Admin.Email == "" || c.Config.Admin.Password == "" {
		logger.Warn("SECRET_ADMIN_EMAIL or SECRET_ADMIN is not set. Skipping admin seeding.")
		return nil
	}
	return svc.AuthService.SeedAdmin(ctx, c.DB)
}
