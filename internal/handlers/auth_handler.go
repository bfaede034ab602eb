package handlers

import (
	"fmt"

	"warbler/internal/monitoring"
	"warbler/internal/services"
	"warbler/internal/sessions"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles signup, login, logout and API tokens.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *sessions.Manager
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionManager *sessions.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessionManager,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
	router.Post("/api/token", h.HandleToken)
}

// SignupRequest represents the signup form.
type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleSignup creates an account and logs it in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.Signup(req.Username, req.Email, req.Password, req.ImageURL)
	if err != nil {
		if statusFor(err) == fiber.StatusConflict {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username or email already taken",
				"error":   err.Error(),
			})
		}
		return respondError(c, "Could not sign up", err)
	}
	monitoring.SignupSuccess.Inc()

	if err := h.sessions.Login(c, user.ID); err != nil {
		return respondError(c, "Could not start session", err)
	}
	return c.Redirect("/")
}

// HandleLogin checks credentials and stores the user in the session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, ok, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		monitoring.LoginFailure.WithLabelValues("error").Inc()
		return respondError(c, "Could not log in", err)
	}
	if !ok {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		logrus.WithField("username", req.Username).Info("Invalid login attempt")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials.",
		})
	}
	monitoring.LoginSuccess.Inc()

	if err := h.sessions.Login(c, user.ID); err != nil {
		return respondError(c, "Could not start session", err)
	}
	if err := h.sessions.Flash(c, "success", fmt.Sprintf("Hello, %s!", user.Username)); err != nil {
		logrus.WithError(err).Warn("Failed to store flash")
	}
	return c.Redirect("/")
}

// HandleLogout clears the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return respondError(c, "Could not end session", err)
	}
	if err := h.sessions.Flash(c, "success", "You have successfully logged out."); err != nil {
		logrus.WithError(err).Warn("Failed to store flash")
	}
	return c.Redirect("/")
}

// HandleToken exchanges credentials for a JWT usable as a Bearer token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, ok, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		return respondError(c, "Could not authenticate", err)
	}
	if !ok {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials.",
		})
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, "Could not issue token", err)
	}
	monitoring.LoginSuccess.Inc()
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
