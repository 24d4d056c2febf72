package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"inkshelf/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStrikeEscalation(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)
	strikesPath := fmt.Sprintf("/api/admin/users/%d/strikes", reader.ID)

	var actions []string
	for i := 0; i < 3; i++ {
		resp, raw := env.do(t, http.MethodPost, strikesPath, admin.ID, map[string]any{
			"reason": "spam", "severity": "minor", "notes": fmt.Sprintf("strike %d", i+1),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		body := decode[map[string]any](t, raw)
		actions = append(actions, body["action"].(string))
		assert.EqualValues(t, i+1, body["strike_count"])
	}
	assert.Equal(t, []string{"warning", "warning", "temp_ban"}, actions)

	u := env.reload(t, reader.ID)
	assert.True(t, u.IsBanned)
	require.NotNil(t, u.BannedUntil)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), *u.BannedUntil, time.Minute)
	require.NotNil(t, u.BannedByUserID)
	assert.Equal(t, admin.ID, *u.BannedByUserID)

	resp, raw := env.do(t, http.MethodGet, strikesPath, admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	strikes := decode[[]models.Strike](t, raw)
	require.Len(t, strikes, 3)
	assert.Equal(t, "strike 3", strikes[0].Notes)
	require.NotNil(t, strikes[0].IssuedByUserID)
	assert.Equal(t, admin.ID, *strikes[0].IssuedByUserID)

	resp, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d/ban-status", reader.ID), admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[map[string]any](t, raw)
	assert.Equal(t, true, status["is_banned"])
	assert.Equal(t, false, status["is_permanent"])
	assert.Contains(t, status["ban_time_remaining"], "day")

	t.Run("removing a strike keeps the ban", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", strikesPath, strikes[0].ID), admin.ID, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		u := env.reload(t, reader.ID)
		assert.Equal(t, 2, u.StrikeCount)
		assert.True(t, u.IsBanned)
	})

	t.Run("strike of another user is not found", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d/strikes/%d", admin.ID, strikes[1].ID), admin.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("recalculate", func(t *testing.T) {
		require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", reader.ID).Update("strike_count", 9).Error)
		resp, raw := env.do(t, http.MethodPost, strikesPath+"/recalculate", admin.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, decode[map[string]any](t, raw)["strike_count"])
	})

	t.Run("clear then unban", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, strikesPath, admin.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		u := env.reload(t, reader.ID)
		assert.Zero(t, u.StrikeCount)
		assert.True(t, u.IsBanned)

		resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/unban", reader.ID), admin.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, env.reload(t, reader.ID).IsBanned)
	})
}

func TestIssueStrikeValidation(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Bad Reason", fmt.Sprintf("/api/admin/users/%d/strikes", reader.ID), map[string]any{"reason": "rude", "severity": "minor"}, http.StatusBadRequest},
		{"Bad Severity", fmt.Sprintf("/api/admin/users/%d/strikes", reader.ID), map[string]any{"reason": "spam", "severity": "huge"}, http.StatusBadRequest},
		{"Bad ID", "/api/admin/users/abc/strikes", map[string]any{"reason": "spam", "severity": "minor"}, http.StatusBadRequest},
		{"Unknown User", "/api/admin/users/999/strikes", map[string]any{"reason": "spam", "severity": "minor"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := env.do(t, http.MethodPost, tt.path, admin.ID, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAdminBanUser(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)
	banPath := fmt.Sprintf("/api/admin/users/%d/ban", reader.ID)

	resp, _ := env.do(t, http.MethodPost, banPath, admin.ID, map[string]any{"duration_days": 0, "reason": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, banPath, admin.ID, map[string]any{"duration_days": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/ban", admin.ID), admin.ID, map[string]any{"reason": "oops"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, banPath, admin.ID, map[string]any{"duration_days": 3, "reason": "cool off"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, false, decode[map[string]any](t, raw)["is_permanent"])
	u := env.reload(t, reader.ID)
	require.NotNil(t, u.BannedUntil)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 3), *u.BannedUntil, time.Minute)

	// A permanent ban replaces the temporary one.
	resp, _ = env.do(t, http.MethodPost, banPath, admin.ID, map[string]any{"reason": "ban evasion"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	u = env.reload(t, reader.ID)
	assert.True(t, u.IsPermanentlyBanned())
	require.NotNil(t, u.BanReason)
	assert.Equal(t, "ban evasion", *u.BanReason)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/users/999/unban", admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminBannedUsersList(t *testing.T) {
	env := newTestEnv(t, "")
	admin := env.seedUser(t, "admin", true)
	reader := env.seedUser(t, "reader", false)
	env.seedUser(t, "bystander", false)

	resp, raw := env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/ban", reader.ID), admin.ID, map[string]any{
		"reason": "spam wave",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodGet, "/api/admin/users/banned", admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	users := decode[[]map[string]any](t, raw)
	require.Len(t, users, 1)
	assert.Equal(t, "reader", users[0]["username"])
	assert.Equal(t, "spam wave", users[0]["ban_reason"])
	assert.NotContains(t, users[0], "password")

	resp, _ = env.do(t, http.MethodGet, "/api/admin/users/banned", reader.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
