package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/auth"
	"storefront/models"
)

type stubAuth map[string]auth.Session

func (s stubAuth) Authenticate(token string) (auth.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return auth.Session{}, auth.ErrUnauthorized
}

func gatedApp() *fiber.App {
	app := fiber.New()
	authn := stubAuth{
		"admin-token": {UserID: "1", Role: models.RoleAdmin},
		"user-token":  {UserID: "2", Role: models.RoleUser},
	}
	app.Get("/me", RequireAuth(authn), func(c *fiber.Ctx) error {
		s, _ := SessionFrom(c)
		return c.SendString(s.UserID)
	})
	app.Get("/admin", RequireAuth(authn), RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRequireAuth(t *testing.T) {
	app := gatedApp()

	for _, header := range []string{"", "admin-token", "Bearer nope", "Basic admin-token"} {
		status, body := call(t, app, "/me", header)
		assert.Equal(t, fiber.StatusUnauthorized, status, header)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, body)
	}

	status, body := call(t, app, "/me", "Bearer user-token")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "2", body)
}

func TestRequireAdmin(t *testing.T) {
	app := gatedApp()

	status, _ := call(t, app, "/admin", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := call(t, app, "/admin", "Bearer user-token")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.JSONEq(t, `{"message":"Forbidden"}`, body)

	status, body = call(t, app, "/admin", "Bearer admin-token")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(requestid.New(), Logging(logger))
	app.Get("/teapot", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "down") })

	status, _ := call(t, app, "/teapot", "")
	assert.Equal(t, fiber.StatusTeapot, status)
	status, _ = call(t, app, "/boom", "")
	assert.Equal(t, fiber.StatusBadGateway, status)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "/teapot", first["path"])
	assert.EqualValues(t, fiber.StatusTeapot, first["status"])
	assert.NotEmpty(t, first["request_id"])
	assert.Equal(t, "INFO", first["level"])

	assert.EqualValues(t, fiber.StatusBadGateway, second["status"])
	assert.Equal(t, "ERROR", second["level"])
}

func TestMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "200"))
	call(t, app, "/items/1", "")
	call(t, app, "/items/2", "")
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "200"))
	assert.Equal(t, before+2, after)

	RecordOperation("test.op", nil)
	RecordOperation("test.op", assert.AnError)
	assert.Equal(t, 1.0, testutil.ToFloat64(operations.WithLabelValues("test.op", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(operations.WithLabelValues("test.op", "error")))
}

func TestMetrics_LabelsSurviveBufferReuse(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/reuse/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/reuse/items", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Delete("/reuse/items/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})

	for i := 0; i < 5; i++ {
		for _, req := range []struct{ method, path string }{
			{fiber.MethodGet, "/reuse/items/1"},
			{fiber.MethodPost, "/reuse/items"},
			{fiber.MethodDelete, "/reuse/items/22"},
			{fiber.MethodPut, "/reuse/nowhere/" + strings.Repeat("x", i)},
			{fiber.MethodGet, "/reuse/unknown-" + strings.Repeat("y", i)},
		} {
			resp, err := app.Test(httptest.NewRequest(req.method, req.path, nil))
			require.NoError(t, err)
			resp.Body.Close()
		}
	}

	_, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err, "label sets must stay consistent across requests")

	assert.Equal(t, 5.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/reuse/items/:id", "200")))
	assert.Equal(t, 5.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/reuse/items", "201")))
	assert.Equal(t, 5.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "/reuse/items/:id", "404")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("PUT", unmatchedRoute, "404")), 5.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")), 5.0)
}
