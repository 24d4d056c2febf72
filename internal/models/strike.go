package models

import (
	"time"

	"github.com/google/uuid"
)

// StrikeReason classifies a moderation violation.
type StrikeReason string

const (
	StrikeReasonProfanity  StrikeReason = "profanity"
	StrikeReasonHateSpeech StrikeReason = "hate_speech"
	StrikeReasonSpam       StrikeReason = "spam"
	StrikeReasonHarassment StrikeReason = "harassment"
	StrikeReasonOther      StrikeReason = "other"
)

// Valid reports whether r is a known reason.
func (r StrikeReason) Valid() bool {
	switch r {
	case StrikeReasonProfanity, StrikeReasonHateSpeech, StrikeReasonSpam, StrikeReasonHarassment, StrikeReasonOther:
		return true
	}
	return false
}

// StrikeSeverity grades a violation.
type StrikeSeverity string

const (
	StrikeSeverityMinor    StrikeSeverity = "minor"
	StrikeSeverityModerate StrikeSeverity = "moderate"
	StrikeSeveritySevere   StrikeSeverity = "severe"
)

// Valid reports whether s is a known severity.
func (s StrikeSeverity) Valid() bool {
	switch s {
	case StrikeSeverityMinor, StrikeSeverityModerate, StrikeSeveritySevere:
		return true
	}
	return false
}

// Strike is one entry in a user's append-only violation log.
// A nil IssuedByUserID marks an automatic strike; a nil ExpiresAt never expires.
type Strike struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"not null;index:idx_strikes_user_created,priority:1" json:"user_id"`
	Reason             StrikeReason   `gorm:"size:32;not null" json:"reason"`
	Severity           StrikeSeverity `gorm:"size:16;not null" json:"severity"`
	IssuedByUserID     *uint          `json:"issued_by_user_id,omitempty"`
	ReportID           *uint          `gorm:"index" json:"report_id,omitempty"`
	ModeratedContentID *uuid.UUID     `gorm:"type:uuid" json:"moderated_content_id,omitempty"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`
	ExpiresAt          *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt          time.Time      `gorm:"index:idx_strikes_user_created,priority:2" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsActive reports whether the strike still counts toward escalation at now.
func (s *Strike) IsActive(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
