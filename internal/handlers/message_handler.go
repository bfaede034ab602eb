package handlers

import (
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/monitoring"
	"warbler/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MessageHandler handles message HTTP requests.
type MessageHandler struct {
	messageService *services.MessageService
	validate       *validator.Validate
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the message routes.
func (h *MessageHandler) RegisterRoutes(router fiber.Router, loginRequired fiber.Handler) {
	messageRoutes := router.Group("/messages")
	messageRoutes.Post("/new", loginRequired, h.HandleCreate)
	messageRoutes.Get("/:id", h.HandleShow)
	messageRoutes.Post("/:id/delete", loginRequired, h.HandleDelete)
}

// MessageRequest represents the new message form.
type MessageRequest struct {
	Text string `json:"text" form:"text" validate:"required"`
}

// HandleCreate posts a message as the current user. Length is left to the
// storage layer, which rejects anything over the limit.
func (h *MessageHandler) HandleCreate(c *fiber.Ctx) error {
	var req MessageRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	current := middleware.User(c)
	if _, err := h.messageService.CreateMessage(current.ID, req.Text); err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Messages are limited to %d characters", models.MaxMessageLength),
				"error":   err.Error(),
			})
		}
		return respondError(c, "Could not create message", err)
	}
	monitoring.MessagesPosted.Inc()
	return c.Redirect(fmt.Sprintf("/users/%d", current.ID))
}

// HandleShow shows a single message.
func (h *MessageHandler) HandleShow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	message, err := h.messageService.GetMessage(id)
	if err != nil {
		return respondError(c, "Message not found", err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// HandleDelete deletes a message owned by the current user.
func (h *MessageHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	current := middleware.User(c)
	if err := h.messageService.DeleteMessage(current.ID, id); err != nil {
		return respondError(c, "Could not delete message", err)
	}
	return c.Redirect(fmt.Sprintf("/users/%d", current.ID))
}
