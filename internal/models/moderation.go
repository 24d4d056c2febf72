package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report target types.
const (
	ReportTargetUser    = "user"
	ReportTargetReview  = "review"
	ReportTargetComment = "comment"
)

// Report statuses.
const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// ModerationReport is a user-filed complaint awaiting admin review.
type ModerationReport struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ReporterID       uint       `gorm:"not null;index" json:"reporter_id"`
	TargetType       string     `gorm:"size:32;not null;index" json:"target_type"`
	TargetID         uint       `gorm:"not null" json:"target_id"`
	ReportedUserID   *uint      `gorm:"index" json:"reported_user_id,omitempty"`
	Reason           string     `gorm:"size:255;not null" json:"reason"`
	Details          string     `gorm:"type:text" json:"details,omitempty"`
	Status           string     `gorm:"size:16;not null;default:open;index" json:"status"`
	ResolvedByUserID *uint      `json:"resolved_by_user_id,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote   string     `gorm:"type:text" json:"resolution_note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Reporter       *User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ReportedUser   *User `gorm:"foreignKey:ReportedUserID" json:"reported_user,omitempty"`
	ResolvedByUser *User `gorm:"foreignKey:ResolvedByUserID" json:"resolved_by_user,omitempty"`
}

// Content screening actions.
const (
	ContentActionAllowed      = "allowed"
	ContentActionRejected     = "rejected"
	ContentActionStrikeIssued = "strike_issued"
)

// ModeratedContent records the outcome of screening one piece of user text.
type ModeratedContent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ContentType string    `gorm:"size:32;not null" json:"content_type"`
	ContentID   string    `gorm:"size:64" json:"content_id,omitempty"`
	Excerpt     string    `gorm:"size:280" json:"excerpt"`
	Allowed     bool      `gorm:"not null" json:"allowed"`
	Reason      string    `gorm:"size:64" json:"reason,omitempty"`
	Action      string    `gorm:"size:32;not null" json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps the plural snake_case name stable.
func (ModeratedContent) TableName() string {
	return "moderated_contents"
}

// BeforeCreate assigns a random identifier when none was set.
func (m *ModeratedContent) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
