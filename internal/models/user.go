// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a reader account. The moderation columns hold the
// denormalized strike counter and the current ban state.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	IsAdmin   bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StrikeCount    int        `gorm:"not null;default:0" json:"strike_count"`
	LastStrikeAt   *time.Time `json:"last_strike_at,omitempty"`
	IsBanned       bool       `gorm:"not null;default:false;index" json:"is_banned"`
	BannedUntil    *time.Time `gorm:"index" json:"banned_until,omitempty"`
	BanReason      *string    `gorm:"size:500" json:"ban_reason,omitempty"`
	BannedByUserID *uint      `json:"banned_by_user_id,omitempty"`
	BannedAt       *time.Time `json:"banned_at,omitempty"`
}

// IsPermanentlyBanned reports a ban without an expiry.
func (u *User) IsPermanentlyBanned() bool {
	return u.IsBanned && u.BannedUntil == nil
}

// BanExpired reports whether a temporary ban has run out at now.
func (u *User) BanExpired(now time.Time) bool {
	return u.IsBanned && u.BannedUntil != nil && !now.Before(*u.BannedUntil)
}

// ClearedBanColumns is the column set that lifts a ban.
func ClearedBanColumns() map[string]interface{} {
	return map[string]interface{}{
		"is_banned":         false,
		"banned_until":      nil,
		"ban_reason":        nil,
		"banned_by_user_id": nil,
		"banned_at":         nil,
	}
}
