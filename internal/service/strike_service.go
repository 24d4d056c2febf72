package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkshelf/internal/cache"
	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/notifications"
	"inkshelf/internal/observability"
)

// EventPublisher pushes moderation events to one user.
type EventPublisher interface {
	PublishEvent(ctx context.Context, userID uint, ev notifications.Event) error
}

// StrikeOptions carries the optional provenance of a strike.
type StrikeOptions struct {
	IssuedBy           *uint
	ReportID           *uint
	ModeratedContentID *uuid.UUID
	Notes              string
}

// BanResult is the outcome of AddStrike.
type BanResult struct {
	Success     bool             `json:"success"`
	Action      EscalationAction `json:"action"`
	Message     string           `json:"message"`
	StrikeCount int              `json:"strike_count"`
	BanUntil    *time.Time       `json:"ban_until,omitempty"`
	Strike      *models.Strike   `json:"strike,omitempty"`
}

// StrikeService owns strikes and the ban columns on users.
type StrikeService struct {
	db         *gorm.DB
	thresholds Thresholds
	publisher  EventPublisher
	now        func() time.Time
}

// NewStrikeService builds a strike service. publisher may be nil.
func NewStrikeService(db *gorm.DB, thresholds Thresholds, publisher EventPublisher) *StrikeService {
	return &StrikeService{
		db:         db,
		thresholds: thresholds,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AddStrike records a strike, bumps the user's counter and applies the
// escalation for the new count, all in one transaction.
func (s *StrikeService) AddStrike(ctx context.Context, userID uint, reason models.StrikeReason, severity models.StrikeSeverity, opts StrikeOptions) (*BanResult, error) {
	if !reason.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid strike reason %q", reason))
	}
	if !severity.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid strike severity %q", severity))
	}

	span, ctx := observability.NewSpan(ctx, "strike.add",
		attribute.Int64("user.id", int64(userID)),
		attribute.String("strike.reason", string(reason)),
	)
	defer span.End()

	now := s.now()
	var (
		result  *BanResult
		strike  models.Strike
		applied bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		strike = models.Strike{
			UserID:             userID,
			Reason:             reason,
			Severity:           severity,
			IssuedByUserID:     opts.IssuedBy,
			ReportID:           opts.ReportID,
			ModeratedContentID: opts.ModeratedContentID,
			Notes:              opts.Notes,
			ExpiresAt:          s.expiresAt(now),
			CreatedAt:          now,
		}
		if err := tx.Create(&strike).Error; err != nil {
			return models.NewInternalError(err)
		}

		count := user.StrikeCount + 1
		esc := Escalate(count, s.thresholds)
		result = &BanResult{
			Success:     true,
			Action:      esc.Action,
			Message:     esc.Message,
			StrikeCount: count,
			Strike:      &strike,
		}

		updates := map[string]interface{}{
			"strike_count":   count,
			"last_strike_at": now,
		}
		switch esc.Action {
		case ActionPermBan:
			banReason := fmt.Sprintf("Automatic permanent ban: %d active strikes", count)
			mergeColumns(updates, banColumns(nil, banReason, opts.IssuedBy, now))
			applied = true
		case ActionTempBan:
			until := now.AddDate(0, 0, esc.Days)
			if existingBanOutlasts(user, until, now) {
				keptBan(result, user, now)
				break
			}
			banReason := fmt.Sprintf("Automatic temporary ban: %d active strikes", count)
			mergeColumns(updates, banColumns(&until, banReason, opts.IssuedBy, now))
			result.BanUntil = &until
			applied = true
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.StrikesIssued.WithLabelValues(string(reason), string(severity)).Inc()
	observability.EscalationActions.WithLabelValues(string(result.Action)).Inc()
	cache.InvalidateUser(ctx, userID)

	middleware.Logger.InfoContext(ctx, "strike issued",
		"user_id", userID,
		"strike_id", strike.ID,
		"reason", reason,
		"severity", severity,
		"strike_count", result.StrikeCount,
		"action", result.Action,
	)

	s.publish(ctx, userID, notifications.EventStrikeReceived, map[string]interface{}{
		"strike_id":    strike.ID,
		"reason":       reason,
		"severity":     severity,
		"strike_count": result.StrikeCount,
		"action":       result.Action,
		"message":      result.Message,
	})
	if applied {
		s.publishBanned(ctx, userID, result.BanUntil, result.Message)
	}
	return result, nil
}

// TempBan bans a user until now+days, replacing any existing ban.
func (s *StrikeService) TempBan(ctx context.Context, userID uint, days int, reason string, bannedBy *uint) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, models.NewValidationError("ban duration must be at least one day")
	}
	now := s.now()
	until := now.AddDate(0, 0, days)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		return updateUser(tx, userID, banColumns(&until, reason, bannedBy, now))
	})
	if err != nil {
		return time.Time{}, err
	}

	cache.InvalidateUser(ctx, userID)
	middleware.Logger.InfoContext(ctx, "user temporarily banned", "user_id", userID, "days", days, "banned_by", bannedBy)
	s.publishBanned(ctx, userID, &until, reason)
	return until, nil
}

// PermaBan bans a user with no expiry.
func (s *StrikeService) PermaBan(ctx context.Context, userID uint, reason string, bannedBy *uint) error {
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		return updateUser(tx, userID, banColumns(nil, reason, bannedBy, now))
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	middleware.Logger.InfoContext(ctx, "user permanently banned", "user_id", userID, "banned_by", bannedBy)
	s.publishBanned(ctx, userID, nil, reason)
	return nil
}

// Unban clears every ban column. Unbanning a user who is not banned succeeds.
func (s *StrikeService) Unban(ctx context.Context, userID uint) error {
	var wasBanned bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		wasBanned = user.IsBanned
		return updateUser(tx, userID, models.ClearedBanColumns())
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	if wasBanned {
		s.afterLift(ctx, []uint{userID}, "admin")
	}
	return nil
}

// CheckBanStatus returns the effective ban view. A temporary ban that has
// run out is cleared in storage as a side effect.
func (s *StrikeService) CheckBanStatus(ctx context.Context, userID uint) (*BanStatus, error) {
	db := s.db.WithContext(ctx)
	user, err := findUser(db, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := EffectiveBanStatus(user, now)
	if !status.Lapsed {
		return &status, nil
	}

	res := db.Model(&models.User{}).
		Where("id = ? AND is_banned = ? AND banned_until IS NOT NULL AND banned_until <= ?", userID, true, now).
		Updates(models.ClearedBanColumns())
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateUser(ctx, userID)
		s.afterLift(ctx, []uint{userID}, "expired_on_read")
	}

	// Re-read: another writer may have re-banned between the two statements.
	user, err = findUser(db, userID)
	if err != nil {
		return nil, err
	}
	status = EffectiveBanStatus(user, now)
	return &status, nil
}

// ReconcileExpiredBans clears every temporary ban that has run out and
// returns how many users were unbanned.
func (s *StrikeService) ReconcileExpiredBans(ctx context.Context) (int64, error) {
	now := s.now()
	var ids []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := "is_banned = ? AND banned_until IS NOT NULL AND banned_until <= ?"
		if err := tx.Model(&models.User{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(expired, true, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id IN ?", ids).
			Where(expired, true, now).
			Updates(models.ClearedBanColumns()).Error
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	for _, id := range ids {
		cache.InvalidateUser(ctx, id)
	}
	s.afterLift(ctx, ids, "reconcile")
	return int64(len(ids)), nil
}

// GetActiveStrikes lists unexpired strikes, newest first.
func (s *StrikeService) GetActiveStrikes(ctx context.Context, userID uint) ([]models.Strike, error) {
	db := s.db.WithContext(ctx)
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	var strikes []models.Strike
	err := activeStrikes(db, userID, s.now()).
		Order("created_at DESC, id DESC").
		Find(&strikes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return strikes, nil
}

// GetAllStrikes lists every strike including expired ones, newest first.
func (s *StrikeService) GetAllStrikes(ctx context.Context, userID uint) ([]models.Strike, error) {
	db := s.db.WithContext(ctx)
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	var strikes []models.Strike
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&strikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return strikes, nil
}

// RecalculateStrikeCount resets the counter to the number of active
// strikes. It never changes ban state.
func (s *StrikeService) RecalculateStrikeCount(ctx context.Context, userID uint) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		var err error
		count, err = s.recalculate(tx, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	cache.InvalidateUser(ctx, userID)
	return count, nil
}

// RecalculateAllStrikeCounts runs RecalculateStrikeCount for every user and
// returns how many users were processed.
func (s *StrikeService) RecalculateAllStrikeCounts(ctx context.Context) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := s.RecalculateStrikeCount(ctx, id); err != nil {
			return 0, fmt.Errorf("recalculate user %d: %w", id, err)
		}
	}
	return len(ids), nil
}

// RemoveStrike deletes one of the user's strikes and recalculates the counter.
func (s *StrikeService) RemoveStrike(ctx context.Context, strikeID, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", strikeID, userID).Delete(&models.Strike{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Strike", strikeID)
		}
		_, err := s.recalculate(tx, userID)
		return err
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	middleware.Logger.InfoContext(ctx, "strike removed", "user_id", userID, "strike_id", strikeID)
	return nil
}

// ClearAllStrikes deletes every strike and zeroes the counter. Ban state is untouched.
func (s *StrikeService) ClearAllStrikes(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Strike{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return updateUser(tx, userID, map[string]interface{}{
			"strike_count":   0,
			"last_strike_at": nil,
		})
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	middleware.Logger.InfoContext(ctx, "strikes cleared", "user_id", userID)
	return nil
}

func (s *StrikeService) recalculate(tx *gorm.DB, userID uint) (int, error) {
	var n int64
	if err := activeStrikes(tx, userID, s.now()).Model(&models.Strike{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if err := updateUser(tx, userID, map[string]interface{}{"strike_count": n}); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *StrikeService) expiresAt(now time.Time) *time.Time {
	if s.thresholds.StrikeExpirationDays <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, s.thresholds.StrikeExpirationDays)
	return &t
}

func (s *StrikeService) afterLift(ctx context.Context, ids []uint, source string) {
	if len(ids) == 0 {
		return
	}
	observability.BansLifted.WithLabelValues(source).Add(float64(len(ids)))
	for _, id := range ids {
		middleware.Logger.InfoContext(ctx, "ban lifted", "user_id", id, "source", source)
		s.publish(ctx, id, notifications.EventAccountUnbanned, nil)
	}
}

func (s *StrikeService) publishBanned(ctx context.Context, userID uint, until *time.Time, reason string) {
	payload := map[string]interface{}{
		"permanent": until == nil,
		"reason":    reason,
	}
	if until != nil {
		payload["banned_until"] = until
	}
	s.publish(ctx, userID, notifications.EventAccountBanned, payload)
}

func (s *StrikeService) publish(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, userID, notifications.NewEvent(eventType, payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish moderation event",
			"user_id", userID, "event", eventType, "error", err)
	}
}

func activeStrikes(db *gorm.DB, userID uint, now time.Time) *gorm.DB {
	return db.Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now)
}

// existingBanOutlasts reports whether the user already holds a ban that ends
// no earlier than until. Escalation never shortens a ban.
func existingBanOutlasts(user *models.User, until, now time.Time) bool {
	if !user.IsBanned || user.BanExpired(now) {
		return false
	}
	return user.BannedUntil == nil || !user.BannedUntil.Before(until)
}

// keptBan rewrites an escalation result to describe the ban already in force.
func keptBan(result *BanResult, user *models.User, now time.Time) {
	result.BanUntil = user.BannedUntil
	if user.BannedUntil == nil {
		result.Action = ActionPermBan
		result.Message = fmt.Sprintf("Account remains permanently banned (%d strikes)", result.StrikeCount)
		return
	}
	result.Message = fmt.Sprintf("Account remains banned for %s (%d strikes)",
		FormatBanTimeRemaining(user.BannedUntil, now), result.StrikeCount)
}

func banColumns(until *time.Time, reason string, bannedBy *uint, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"is_banned":         true,
		"banned_until":      until,
		"ban_reason":        reason,
		"banned_by_user_id": bannedBy,
		"banned_at":         now,
	}
}

func mergeColumns(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}

func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func findUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func updateUser(tx *gorm.DB, userID uint, cols map[string]interface{}) error {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(cols).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
