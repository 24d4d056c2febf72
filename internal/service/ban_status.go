package service

import (
	"fmt"
	"time"

	"inkshelf/internal/models"
)

// BanStatus is the effective ban view of a user at a point in time.
type BanStatus struct {
	IsBanned         bool       `json:"is_banned"`
	IsPermanent      bool       `json:"is_permanent"`
	BanReason        *string    `json:"ban_reason"`
	BannedUntil      *time.Time `json:"banned_until"`
	BanTimeRemaining string     `json:"ban_time_remaining"`
	StrikeCount      int        `json:"strike_count"`

	// Lapsed is set when the stored row still says banned but the ban has run out.
	Lapsed bool `json:"-"`
}

// EffectiveBanStatus computes the ban view without touching storage. A
// temporary ban whose end is at or before now reads as not banned.
func EffectiveBanStatus(user *models.User, now time.Time) BanStatus {
	status := BanStatus{StrikeCount: user.StrikeCount}
	if !user.IsBanned {
		return status
	}
	if user.BanExpired(now) {
		status.Lapsed = true
		return status
	}

	status.IsBanned = true
	status.IsPermanent = user.BannedUntil == nil
	status.BanReason = user.BanReason
	status.BannedUntil = user.BannedUntil
	status.BanTimeRemaining = FormatBanTimeRemaining(user.BannedUntil, now)
	return status
}

// FormatBanTimeRemaining renders the time left on a ban for display.
// A nil until means permanent.
func FormatBanTimeRemaining(until *time.Time, now time.Time) string {
	if until == nil {
		return "permanent"
	}
	left := until.Sub(now)
	if left <= 0 {
		return ""
	}

	days := int(left / (24 * time.Hour))
	hours := int(left%(24*time.Hour)) / int(time.Hour)
	minutes := int(left%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%d %s %d %s", days, plural(days, "day", "days"), hours, plural(hours, "hour", "hours"))
	case hours > 0:
		return fmt.Sprintf("%d %s %d %s", hours, plural(hours, "hour", "hours"), minutes, plural(minutes, "minute", "minutes"))
	case minutes > 0:
		return fmt.Sprintf("%d %s", minutes, plural(minutes, "minute", "minutes"))
	default:
		return "less than a minute"
	}
}
