package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkshelf/internal/config"
	"inkshelf/internal/database"
	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "inkshelf-test-secret-0123456789abcdef"

type testEnv struct {
	db  *gorm.DB
	srv *Server
	app *fiber.App
}

func testConfig(flags string) *config.Config {
	return &config.Config{
		JWTSecret:                      testJWTSecret,
		Port:                           "0",
		Env:                            "test",
		FeatureFlags:                   flags,
		ModerationWarningThreshold:     1,
		ModerationTempBanThreshold:     3,
		ModerationPermaBanThreshold:    5,
		ModerationTempBanDurations:     "7,14,30",
		ModerationStrikeExpirationDays: 90,
	}
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := testConfig(flags)
	middleware.InitMiddleware(cfg)

	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	srv, err := newServer(cfg, db, nil, nil)
	require.NoError(t, err)

	return &testEnv{db: db, srv: srv, app: srv.App()}
}

func (e *testEnv) seedUser(t *testing.T, username string, admin bool) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "pw", IsAdmin: admin}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *testEnv) seedBook(t *testing.T, slug string, chapters int) models.Book {
	t.Helper()
	b := models.Book{Title: slug, Slug: slug, Chapters: &chapters}
	require.NoError(t, e.db.Create(&b).Error)
	return b
}

func (e *testEnv) reload(t *testing.T, id uint) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.First(&u, id).Error)
	return u
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// do sends a request as userID (0 for anonymous) and returns the response and raw body.
func (e *testEnv) do(t *testing.T, method, path string, userID uint, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t, "")

	resp, raw := env.do(t, http.MethodGet, "/health/live", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", decode[map[string]any](t, raw)["status"])

	// Redis is required for readiness.
	resp, raw = env.do(t, http.MethodGet, "/health/ready", 0, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[map[string]any](t, raw)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestAuthAndAdminGuards(t *testing.T) {
	env := newTestEnv(t, "")
	reader := env.seedUser(t, "reader", false)

	resp, _ := env.do(t, http.MethodGet, "/api/library", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/admin/reports", reader.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A valid token for a deleted account is refused.
	resp, _ = env.do(t, http.MethodGet, "/api/library", 999, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBanGuard(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)

	resp, _ := env.do(t, http.MethodPost, "/api/admin/users/"+strconv.Itoa(int(reader.ID))+"/ban", admin.ID,
		map[string]any{"reason": "repeated spam"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("blocks protected routes", func(t *testing.T) {
		resp, raw := env.do(t, http.MethodGet, "/api/library", reader.ID, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decode[map[string]any](t, raw)
		assert.Equal(t, models.CodeBanned, body["code"])
		assert.Equal(t, "repeated spam", body["ban_reason"])
		assert.Equal(t, true, body["is_permanent"])
		assert.Equal(t, "permanent", body["ban_time_remaining"])
	})

	t.Run("own ban status stays readable", func(t *testing.T) {
		resp, raw := env.do(t, http.MethodGet, "/api/users/me/ban-status", reader.ID, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]any](t, raw)
		assert.Equal(t, true, body["is_banned"])
		assert.Equal(t, true, body["is_permanent"])
	})

	t.Run("expired temp ban is lifted on request", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Minute)
		require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", reader.ID).
			Update("banned_until", past).Error)

		resp, _ := env.do(t, http.MethodGet, "/api/library", reader.ID, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		u := env.reload(t, reader.ID)
		assert.False(t, u.IsBanned)
		assert.Nil(t, u.BannedUntil)
		assert.Nil(t, u.BanReason)
	})
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t, "")
	reader := env.seedUser(t, "reader", false)

	resp, _ := env.do(t, http.MethodGet, "/api/ws", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/ws?token="+tokenFor(t, reader.ID), 0, nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestFeatureFlagsEndpoint(t *testing.T) {
	env := newTestEnv(t, "auto_strikes=on,activity_feed=off")
	admin := env.seedUser(t, "admin", true)

	type flagsBody struct {
		UserID    uint              `json:"user_id"`
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}

	resp, raw := env.do(t, http.MethodGet, "/api/admin/feature-flags", admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[flagsBody](t, raw)
	assert.Equal(t, admin.ID, body.UserID)
	assert.Equal(t, "on", body.Raw["auto_strikes"])
	assert.True(t, body.Evaluated["auto_strikes"])
	assert.False(t, body.Evaluated["activity_feed"])

	resp, raw = env.do(t, http.MethodGet, "/api/admin/feature-flags?user_id=77", admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 77, decode[flagsBody](t, raw).UserID)

	resp, _ = env.do(t, http.MethodGet, "/api/admin/feature-flags?user_id=x", admin.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
