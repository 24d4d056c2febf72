package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &rec))
		out = append(out, rec)
	}
	return out
}

func TestCtxHandler_StampsRequestValues(t *testing.T) {
	buf := captureLogger(t)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(42))

	Logger.With("component", "test").InfoContext(ctx, "hello")

	recs := lines(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "req-1", recs[0]["request_id"])
	assert.EqualValues(t, 42, recs[0]["user_id"])
	assert.Equal(t, "test", recs[0]["component"])
	assert.NotContains(t, recs[0], "trace_id")
}

func TestStructuredLogger_LevelFollowsStatus(t *testing.T) {
	buf := captureLogger(t)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "abc")
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNotFound) })
	app.Get("/boom", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusInternalServerError) })
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing", "/boom", "/health/live"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	recs := lines(t, buf)
	require.Len(t, recs, 4)
	want := []string{"INFO", "WARN", "ERROR", "DEBUG"}
	for i, rec := range recs {
		assert.Equal(t, want[i], rec["level"], rec["path"])
		assert.Equal(t, "abc", rec["request_id"])
	}
}

func TestNewLogger_Level(t *testing.T) {
	ctx := context.Background()
	assert.True(t, NewLogger("test", "debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("test", "").Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("prod", "error").Enabled(ctx, slog.LevelWarn))
}
