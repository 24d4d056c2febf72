package service

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/observability"
	"inkshelf/internal/repository"
)

// ActivityEntry is one item for the activity trail.
type ActivityEntry struct {
	UserID       uint
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     map[string]interface{}
}

// ActivityLogger writes the activity trail. Writes are best-effort: a
// failure is logged and counted, never returned.
type ActivityLogger struct {
	repo repository.ActivityRepository
}

// NewActivityLogger returns a logger backed by repo. A nil repo disables logging.
func NewActivityLogger(repo repository.ActivityRepository) *ActivityLogger {
	return &ActivityLogger{repo: repo}
}

// Log records entry.
func (l *ActivityLogger) Log(ctx context.Context, entry ActivityEntry) {
	if l == nil || l.repo == nil {
		return
	}

	var meta datatypes.JSON
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			l.fail(ctx, entry, err)
			return
		}
		meta = datatypes.JSON(raw)
	}

	err := l.repo.Create(ctx, &models.ActivityLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Metadata:     meta,
	})
	if err != nil {
		l.fail(ctx, entry, err)
	}
}

// List returns the user's trail, newest first.
func (l *ActivityLogger) List(ctx context.Context, userID uint, limit, offset int) ([]models.ActivityLog, error) {
	if l == nil || l.repo == nil {
		return []models.ActivityLog{}, nil
	}
	return l.repo.ListByUser(ctx, userID, limit, offset)
}

func (l *ActivityLogger) fail(ctx context.Context, entry ActivityEntry, err error) {
	observability.ActivityLogFailures.Inc()
	middleware.Logger.WarnContext(ctx, "failed to write activity log",
		"user_id", entry.UserID,
		"action", entry.Action,
		"error", err,
	)
}
