package handlers

import (
	"time"

	"warbler/internal/middleware"
	"warbler/internal/services"
	"warbler/internal/sessions"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler renders the landing page and the health check.
type HomeHandler struct {
	messageService *services.MessageService
	sessions       *sessions.Manager
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(messageService *services.MessageService, sessionManager *sessions.Manager) *HomeHandler {
	return &HomeHandler{
		messageService: messageService,
		sessions:       sessionManager,
	}
}

// RegisterRoutes registers the home and health routes.
func (h *HomeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/health", h.HandleHealth)
}

// HandleHome shows the timeline for a logged-in user and the anonymous
// landing page otherwise. Pending flashes are drained either way.
func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	flashes, err := h.sessions.PopFlashes(c)
	if err != nil {
		return respondError(c, "Could not read session", err)
	}

	user := middleware.User(c)
	if user == nil {
		return c.JSON(fiber.Map{
			"message": "What's Happening? New to Warbler? Sign up now!",
			"flashes": flashes,
		})
	}

	messages, err := h.messageService.Timeline(user.ID)
	if err != nil {
		return respondError(c, "Could not load timeline", err)
	}
	liked, err := h.messageService.LikedBy(user.ID)
	if err != nil {
		return respondError(c, "Could not load likes", err)
	}
	likedIDs := make([]uint, 0, len(liked))
	for _, m := range liked {
		likedIDs = append(likedIDs, m.ID)
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"messages": messages,
		"likes":    likedIDs,
		"flashes":  flashes,
	})
}

// HandleHealth reports liveness.
func (h *HomeHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
