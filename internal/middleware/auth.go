package middleware

import (
	"errors"
	"strings"

	"warbler/internal/models"
	"warbler/internal/monitoring"
	"warbler/internal/repositories"
	"warbler/internal/services"
	"warbler/internal/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const currentUserKey = "current_user"

// UnauthorizedMessage is flashed when a login-only page is requested anonymously.
const UnauthorizedMessage = "Access unauthorized."

// CurrentUser resolves the requesting user from a Bearer token or the
// session cookie and stores it in the Fiber context. Anonymous requests
// pass through untouched.
func CurrentUser(sessionManager *sessions.Manager, authService *services.AuthService, userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			userID uint
			ok     bool
		)

		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}
			id, err := authService.UserIDFromToken(parts[1])
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid or expired token",
					"error":   err.Error(),
				})
			}
			userID, ok = id, true
		} else {
			id, found, err := sessionManager.CurrentUserID(c)
			if err != nil {
				logrus.WithError(err).Error("Failed to read session")
				return fiber.ErrInternalServerError
			}
			userID, ok = id, found
		}

		if !ok {
			return c.Next()
		}

		user, err := userService.GetUser(userID)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to load current user")
				return fiber.ErrInternalServerError
			}
			// the account is gone; drop the stale session
			if logoutErr := sessionManager.Logout(c); logoutErr != nil {
				logrus.WithError(logoutErr).Warn("Failed to clear stale session")
			}
			return c.Next()
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// LoginRequired redirects anonymous requests to the home page with an
// "Access unauthorized." flash.
func LoginRequired(sessionManager *sessions.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if User(c) != nil {
			return c.Next()
		}

		monitoring.UnauthorizedAccess.WithLabelValues(c.Route().Path).Inc()
		if err := sessionManager.Flash(c, "danger", UnauthorizedMessage); err != nil {
			logrus.WithError(err).Error("Failed to store flash")
			return fiber.ErrInternalServerError
		}
		return c.Redirect("/")
	}
}

// User returns the authenticated user stored by CurrentUser, or nil.
func User(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
