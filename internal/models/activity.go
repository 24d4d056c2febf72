package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log actions.
const (
	ActivityLibraryAdded    = "library.added"
	ActivityLibraryRemoved  = "library.removed"
	ActivityStatusChanged   = "library.status_changed"
	ActivityChapterUpdated  = "library.chapter_updated"
	ActivityVolumeUpdated   = "library.volume_updated"
	ActivityRatingUpdated   = "library.rating_updated"
	ActivityNotesUpdated    = "library.notes_updated"
	ActivityResourceLibrary = "library_entry"
)

// ActivityLog is a best-effort audit trail of user actions.
type ActivityLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index:idx_activity_user_created,priority:1" json:"user_id"`
	Action       string         `gorm:"size:64;not null" json:"action"`
	ResourceType string         `gorm:"size:32" json:"resource_type"`
	ResourceID   string         `gorm:"size:64" json:"resource_id"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time      `gorm:"index:idx_activity_user_created,priority:2" json:"created_at"`
}
