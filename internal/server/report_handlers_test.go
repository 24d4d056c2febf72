package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkshelf/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFlow(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reporter := env.seedUser(t, "reporter", false)
	target := env.seedUser(t, "target", false)

	resp, raw := env.do(t, http.MethodPost, "/api/reports", reporter.ID, map[string]any{
		"target_type": "User", "target_id": target.ID, "reason": "harassment",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	report := decode[models.ModerationReport](t, raw)
	assert.Equal(t, models.ReportTargetUser, report.TargetType)

	resp, _ = env.do(t, http.MethodPost, "/api/reports", reporter.ID, map[string]any{
		"target_type": "user", "target_id": reporter.ID, "reason": "me",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/reports", reporter.ID, map[string]any{
		"target_type": "post", "target_id": 1, "reason": "spam",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/admin/reports?status=open", admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reports := decode[[]models.ModerationReport](t, raw)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Reporter)
	assert.Equal(t, "reporter", reports[0].Reporter.Username)

	resolvePath := fmt.Sprintf("/api/admin/reports/%d/resolve", report.ID)

	resp, _ = env.do(t, http.MethodPost, resolvePath, admin.ID, map[string]any{"status": "open"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, resolvePath, admin.ID, map[string]any{
		"status": "resolved", "strike": map[string]any{"reason": "harassment", "severity": "bogus"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPost, resolvePath, admin.ID, map[string]any{
		"status":          "resolved",
		"resolution_note": "confirmed in logs",
		"strike":          map[string]any{"reason": "harassment", "severity": "moderate"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	body := decode[map[string]map[string]any](t, raw)
	assert.Equal(t, models.ReportStatusResolved, body["report"]["status"])
	assert.EqualValues(t, 1, body["strike"]["strike_count"])
	assert.Equal(t, 1, env.reload(t, target.ID).StrikeCount)

	resp, _ = env.do(t, http.MethodPost, resolvePath, admin.ID, map[string]any{"status": "dismissed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/reports/777/resolve", admin.ID, map[string]any{"status": "dismissed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScreenContent(t *testing.T) {
	env := newTestEnv(t, "auto_strikes=on")
	reader := env.seedUser(t, "reader", false)

	resp, raw := env.do(t, http.MethodPost, "/api/moderation/screen", reader.ID, map[string]any{
		"content_type": "review", "content_id": "r-1", "text": "A gentle, moving story.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, true, decode[map[string]any](t, raw)["allowed"])

	resp, raw = env.do(t, http.MethodPost, "/api/moderation/screen", reader.ID, map[string]any{
		"content_type": "comment", "text": "this plot is bullshit",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	out := decode[map[string]any](t, raw)
	assert.Equal(t, false, out["allowed"])
	assert.Equal(t, "inappropriate_language", out["reason"])
	strike, ok := out["strike"].(map[string]any)
	require.True(t, ok, string(raw))
	assert.Equal(t, "warning", strike["action"])
	assert.Equal(t, 1, env.reload(t, reader.ID).StrikeCount)

	resp, _ = env.do(t, http.MethodPost, "/api/moderation/screen", reader.ID, map[string]any{"text": "hello"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminModeratedContentHistory(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)

	for _, text := range []string{"First impressions are good.", "this plot is bullshit"} {
		resp, raw := env.do(t, http.MethodPost, "/api/moderation/screen", reader.ID, map[string]any{
			"content_type": "review", "text": text,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	}

	path := fmt.Sprintf("/api/admin/users/%d/moderated-content", reader.ID)
	resp, raw := env.do(t, http.MethodGet, path, admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	rows := decode[[]map[string]any](t, raw)
	require.Len(t, rows, 2)
	allowed := map[any]int{}
	for _, row := range rows {
		allowed[row["allowed"]]++
		assert.Equal(t, "review", row["content_type"])
	}
	assert.Equal(t, map[any]int{true: 1, false: 1}, allowed)

	resp, raw = env.do(t, http.MethodGet, path+"?limit=1", admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Len(t, decode[[]map[string]any](t, raw), 1)

	resp, _ = env.do(t, http.MethodGet, "/api/admin/users/9999/moderated-content", admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, path, reader.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
