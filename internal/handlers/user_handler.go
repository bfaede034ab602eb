package handlers

import (
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/monitoring"
	"warbler/internal/services"
	"warbler/internal/sessions"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler serves profiles and the follow graph.
type UserHandler struct {
	userService    *services.UserService
	messageService *services.MessageService
	sessions       *sessions.Manager
	validate       *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, messageService *services.MessageService, sessionManager *sessions.Manager) *UserHandler {
	return &UserHandler{
		userService:    userService,
		messageService: messageService,
		sessions:       sessionManager,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the user routes. loginRequired guards every
// route that needs an authenticated user.
func (h *UserHandler) RegisterRoutes(router fiber.Router, loginRequired fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleList)
	userRoutes.Post("/follow/:follow_id", loginRequired, h.HandleFollow)
	userRoutes.Post("/stop-following/:follow_id", loginRequired, h.HandleStopFollowing)
	userRoutes.Post("/profile", loginRequired, h.HandleProfile)
	userRoutes.Post("/delete", loginRequired, h.HandleDelete)
	userRoutes.Post("/add_like/:msg_id", loginRequired, h.HandleAddLike)
	userRoutes.Get("/:id", h.HandleShow)
	userRoutes.Get("/:id/following", loginRequired, h.HandleFollowing)
	userRoutes.Get("/:id/followers", loginRequired, h.HandleFollowers)
	userRoutes.Get("/:id/likes", loginRequired, h.HandleLikes)
}

// ProfileRequest represents the profile edit form.
type ProfileRequest struct {
	Username       string `json:"username" form:"username" validate:"omitempty,max=100"`
	Email          string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	ImageURL       string `json:"image_url" form:"image_url" validate:"omitempty,url"`
	HeaderImageURL string `json:"header_image_url" form:"header_image_url" validate:"omitempty,url"`
	Bio            string `json:"bio" form:"bio"`
	Location       string `json:"location" form:"location" validate:"omitempty,max=100"`
	Password       string `json:"password" form:"password" validate:"required"`
}

// HandleList lists users, filtered by ?q= on username.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		return respondError(c, "Could not list users", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleShow shows a profile and its messages.
func (h *UserHandler) HandleShow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	user, err := h.userService.GetUserWithGraph(id)
	if err != nil {
		return respondError(c, "User not found", err)
	}
	messages, err := h.messageService.ListByUser(id)
	if err != nil {
		return respondError(c, "Could not load messages", err)
	}
	return c.JSON(fiber.Map{
		"user":            user,
		"messages":        messages,
		"following_count": len(user.Following),
		"followers_count": len(user.Followers),
	})
}

// HandleFollowing lists the users that :id follows.
func (h *UserHandler) HandleFollowing(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return respondError(c, "User not found", err)
	}
	following, err := h.userService.Following(id)
	if err != nil {
		return respondError(c, "Could not load following", err)
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"following": following,
	})
}

// HandleFollowers lists the users following :id.
func (h *UserHandler) HandleFollowers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return respondError(c, "User not found", err)
	}
	followers, err := h.userService.Followers(id)
	if err != nil {
		return respondError(c, "Could not load followers", err)
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"followers": followers,
	})
}

// HandleLikes lists the messages :id has liked.
func (h *UserHandler) HandleLikes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, err)
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return respondError(c, "User not found", err)
	}
	likes, err := h.messageService.LikedBy(id)
	if err != nil {
		return respondError(c, "Could not load likes", err)
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"likes": likes,
	})
}

// HandleFollow makes the current user follow :follow_id.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	followID, err := paramID(c, "follow_id")
	if err != nil {
		return badID(c, err)
	}

	current := middleware.User(c)
	if err := h.userService.Follow(current.ID, followID); err != nil {
		return respondError(c, "Could not follow user", err)
	}
	monitoring.FollowsCreated.Inc()
	return c.Redirect(fmt.Sprintf("/users/%d/following", current.ID))
}

// HandleStopFollowing makes the current user unfollow :follow_id.
func (h *UserHandler) HandleStopFollowing(c *fiber.Ctx) error {
	followID, err := paramID(c, "follow_id")
	if err != nil {
		return badID(c, err)
	}

	current := middleware.User(c)
	if err := h.userService.StopFollowing(current.ID, followID); err != nil {
		return respondError(c, "Could not unfollow user", err)
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", current.ID))
}

// HandleProfile updates the current user's profile.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	current := middleware.User(c)
	user, err := h.userService.UpdateProfile(current.ID, req.Password, services.ProfileUpdate{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	})
	if err != nil {
		if statusFor(err) == fiber.StatusForbidden {
			if flashErr := h.sessions.Flash(c, "danger", "Wrong password, please try again."); flashErr != nil {
				logrus.WithError(flashErr).Warn("Failed to store flash")
			}
		}
		return respondError(c, "Could not update profile", err)
	}
	return c.Redirect(fmt.Sprintf("/users/%d", user.ID))
}

// HandleDelete removes the current user's account and logs out.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	current := middleware.User(c)
	if err := h.userService.Delete(current.ID); err != nil {
		return respondError(c, "Could not delete account", err)
	}
	if err := h.sessions.Logout(c); err != nil {
		return respondError(c, "Could not end session", err)
	}
	return c.Redirect("/")
}

// HandleAddLike toggles the current user's like on :msg_id.
func (h *UserHandler) HandleAddLike(c *fiber.Ctx) error {
	msgID, err := paramID(c, "msg_id")
	if err != nil {
		return badID(c, err)
	}

	current := middleware.User(c)
	if _, err := h.messageService.ToggleLike(current.ID, msgID); err != nil {
		return respondError(c, "Could not like message", err)
	}
	return c.Redirect("/")
}
