// Package service contains the moderation and library business logic.
package service

import (
	"fmt"

	"inkshelf/internal/config"
)

// EscalationAction is the enforcement outcome of a strike.
type EscalationAction string

const (
	ActionNone    EscalationAction = "none"
	ActionWarning EscalationAction = "warning"
	ActionTempBan EscalationAction = "temp_ban"
	ActionPermBan EscalationAction = "perm_ban"
)

// rank orders actions by severity.
func (a EscalationAction) rank() int {
	switch a {
	case ActionWarning:
		return 1
	case ActionTempBan:
		return 2
	case ActionPermBan:
		return 3
	}
	return 0
}

// Thresholds configures strike escalation. StrikeExpirationDays of 0 means
// strikes never expire.
type Thresholds struct {
	WarningThreshold     int
	TempBanThreshold     int
	PermaBanThreshold    int
	TempBanDurations     []int
	StrikeExpirationDays int
}

// DefaultThresholds mirrors the config defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WarningThreshold:     1,
		TempBanThreshold:     3,
		PermaBanThreshold:    5,
		TempBanDurations:     []int{7, 14, 30},
		StrikeExpirationDays: 90,
	}
}

// ThresholdsFromConfig reads the MODERATION_* keys.
func ThresholdsFromConfig(cfg *config.Config) (Thresholds, error) {
	durations, err := cfg.TempBanDurations()
	if err != nil {
		return Thresholds{}, err
	}
	t := Thresholds{
		WarningThreshold:     cfg.ModerationWarningThreshold,
		TempBanThreshold:     cfg.ModerationTempBanThreshold,
		PermaBanThreshold:    cfg.ModerationPermaBanThreshold,
		TempBanDurations:     durations,
		StrikeExpirationDays: cfg.ModerationStrikeExpirationDays,
	}
	return t, t.Validate()
}

// Validate enforces warning <= tempBan <= permaBan and positive durations.
func (t Thresholds) Validate() error {
	if t.WarningThreshold < 0 {
		return fmt.Errorf("warning threshold must not be negative, got %d", t.WarningThreshold)
	}
	if t.WarningThreshold > t.TempBanThreshold || t.TempBanThreshold > t.PermaBanThreshold {
		return fmt.Errorf("thresholds must satisfy warning <= temp ban <= perma ban (got %d, %d, %d)",
			t.WarningThreshold, t.TempBanThreshold, t.PermaBanThreshold)
	}
	if len(t.TempBanDurations) == 0 {
		return fmt.Errorf("at least one temp ban duration is required")
	}
	for _, d := range t.TempBanDurations {
		if d <= 0 {
			return fmt.Errorf("temp ban durations must be positive, got %d", d)
		}
	}
	if t.StrikeExpirationDays < 0 {
		return fmt.Errorf("strike expiration days must not be negative")
	}
	return nil
}

// Escalation is the decision for one post-increment strike count.
type Escalation struct {
	Action  EscalationAction
	Days    int
	Message string
}

// Escalate maps an active strike count to an action. The first matching
// threshold wins, checked from most to least severe. Temp ban length grows
// with each strike past the threshold and is capped at the last duration.
func Escalate(count int, t Thresholds) Escalation {
	switch {
	case count >= t.PermaBanThreshold:
		return Escalation{
			Action:  ActionPermBan,
			Message: fmt.Sprintf("Account permanently banned after %d strikes", count),
		}
	case count >= t.TempBanThreshold:
		idx := min(count-t.TempBanThreshold, len(t.TempBanDurations)-1)
		days := t.TempBanDurations[idx]
		return Escalation{
			Action:  ActionTempBan,
			Days:    days,
			Message: fmt.Sprintf("Account temporarily banned for %d %s (%d strikes)", days, plural(days, "day", "days"), count),
		}
	case count >= t.WarningThreshold:
		remaining := t.TempBanThreshold - count
		return Escalation{
			Action: ActionWarning,
			Message: fmt.Sprintf("Warning: %d %s remaining before a temporary ban",
				remaining, plural(remaining, "strike", "strikes")),
		}
	default:
		return Escalation{Action: ActionNone, Message: "Strike recorded"}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
