package server

import (
	"crypto/sha256"
	"encoding/base64"

	"warbler/internal/config"
	"warbler/internal/handlers"
	"warbler/internal/middleware"
	"warbler/internal/monitoring"
	"warbler/internal/repositories"
	"warbler/internal/services"
	"warbler/internal/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App bundles the Fiber app with the services behind it.
type App struct {
	*fiber.App
	AuthService    *services.AuthService
	UserService    *services.UserService
	MessageService *services.MessageService
	Sessions       *sessions.Manager
}

// New wires repositories, services, handlers and middleware into a Fiber
// app. publisher may be nil, which disables domain events.
func New(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) *App {
	userRepo := repositories.NewGORMUserRepository(db)
	messageRepo := repositories.NewGORMMessageRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, publisher)
	userService := services.NewUserService(userRepo, publisher)
	messageService := services.NewMessageService(messageRepo, userRepo, publisher)
	sessionManager := sessions.NewManager(cfg.SessionExpiration)

	app := fiber.New(fiber.Config{
		AppName:   "warbler",
		Immutable: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: logrus.StandardLogger().Writer(),
	}))
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: CookieKey(cfg.SecretKey),
	}))
	app.Use(monitoring.Instrument())
	app.Use(middleware.CurrentUser(sessionManager, authService, userService))

	loginRequired := middleware.LoginRequired(sessionManager)

	handlers.NewHomeHandler(messageService, sessionManager).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, sessionManager).RegisterRoutes(app)
	handlers.NewUserHandler(userService, messageService, sessionManager).RegisterRoutes(app, loginRequired)
	handlers.NewMessageHandler(messageService).RegisterRoutes(app, loginRequired)
	app.Get("/metrics", monitoring.Handler())

	return &App{
		App:            app,
		AuthService:    authService,
		UserService:    userService,
		MessageService: messageService,
		Sessions:       sessionManager,
	}
}

// CookieKey derives the 32-byte base64 cookie encryption key from secret.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
