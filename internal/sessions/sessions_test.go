package sessions_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warbler/internal/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(m *sessions.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		if err := m.Login(c, 7); err != nil {
			return err
		}
		return m.Flash(c, "success", "Hello, testuser!")
	})
	app.Get("/visit", func(c *fiber.Ctx) error {
		return m.Flash(c, "info", "Welcome, stranger")
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		return m.Logout(c)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, ok, err := m.CurrentUserID(c)
		if err != nil {
			return err
		}
		flashes, err := m.PopFlashes(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "logged_in": ok, "flashes": flashes})
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestManager_LoginFlashLogout(t *testing.T) {
	app := newTestApp(sessions.NewManager(time.Hour))

	resp := get(t, app, "/whoami", nil)
	body := readBody(t, resp)
	assert.Contains(t, body, `"logged_in":false`)

	resp = get(t, app, "/login", nil)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	body = readBody(t, get(t, app, "/whoami", cookies))
	assert.Contains(t, body, `"id":7`)
	assert.Contains(t, body, `"logged_in":true`)
	assert.Contains(t, body, "Hello, testuser!")

	// flashes are shown once
	body = readBody(t, get(t, app, "/whoami", cookies))
	assert.NotContains(t, body, "Hello, testuser!")
	assert.Contains(t, body, `"flashes":[]`)

	get(t, app, "/logout", cookies).Body.Close()
	body = readBody(t, get(t, app, "/whoami", cookies))
	assert.Contains(t, body, `"logged_in":false`)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "warbler_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestManager_LoginRotatesSessionID(t *testing.T) {
	app := newTestApp(sessions.NewManager(time.Hour))

	anonymous := sessionCookie(t, get(t, app, "/visit", nil))
	loggedIn := sessionCookie(t, get(t, app, "/login", []*http.Cookie{anonymous}))
	assert.NotEqual(t, anonymous.Value, loggedIn.Value)

	body := readBody(t, get(t, app, "/whoami", []*http.Cookie{loggedIn}))
	assert.Contains(t, body, `"logged_in":true`)
	assert.Contains(t, body, "Welcome, stranger")
	assert.Contains(t, body, "Hello, testuser!")

	// the pre-login id no longer grants anything
	body = readBody(t, get(t, app, "/whoami", []*http.Cookie{anonymous}))
	assert.Contains(t, body, `"logged_in":false`)
	assert.NotContains(t, body, "Hello, testuser!")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err := io.Copy(buf, resp.Body)
	require.NoError(t, err)
	return buf.String()
}
