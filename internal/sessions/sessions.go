package sessions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// CurrUserKey is the session key holding the logged-in user's id.
	CurrUserKey = "curr_user"
	flashesKey  = "_flashes"
	cookieName  = "warbler_session"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Manager wraps a Fiber session store with Warbler's login and flash helpers.
type Manager struct {
	store *session.Store
}

// NewManager creates a Manager backed by Fiber's in-memory storage.
func NewManager(expiration time.Duration) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Expiration:     expiration,
			KeyLookup:      "cookie:" + cookieName,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
			KeyGenerator:   uuid.NewString,
		}),
	}
}

// Login stores userID in a session with a fresh id; pending flashes move
// to the new id. Every helper loads and saves the session on its own
// because a saved fiber session must not be reused.
func (m *Manager) Login(c *fiber.Ctx, userID uint) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(CurrUserKey, userID)
	id := sess.ID()
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	// later lookups in this request must resolve the new id, not the
	// one the client sent
	c.Request().Header.SetCookie(cookieName, id)
	return nil
}

// Logout forgets the logged-in user but keeps pending flashes.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Delete(CurrUserKey)
	return sess.Save()
}

// CurrentUserID returns the logged-in user's id, if any.
func (m *Manager) CurrentUserID(c *fiber.Ctx) (uint, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load session: %w", err)
	}
	id, ok := sess.Get(CurrUserKey).(uint)
	if !ok || id == 0 {
		return 0, false, nil
	}
	return id, true, nil
}

// Flash queues a message for the next page.
func (m *Manager) Flash(c *fiber.Ctx, category, message string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	flashes := decodeFlashes(sess.Get(flashesKey))
	flashes = append(flashes, Flash{Category: category, Message: message})

	encoded, err := json.Marshal(flashes)
	if err != nil {
		return fmt.Errorf("failed to encode flashes: %w", err)
	}
	sess.Set(flashesKey, string(encoded))
	return sess.Save()
}

// PopFlashes returns and clears the queued messages.
func (m *Manager) PopFlashes(c *fiber.Ctx) ([]Flash, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	raw := sess.Get(flashesKey)
	if raw == nil {
		return []Flash{}, nil
	}
	sess.Delete(flashesKey)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return decodeFlashes(raw), nil
}

func decodeFlashes(raw interface{}) []Flash {
	flashes := []Flash{}
	s, ok := raw.(string)
	if !ok || s == "" {
		return flashes
	}
	if err := json.Unmarshal([]byte(s), &flashes); err != nil {
		return []Flash{}
	}
	return flashes
}
