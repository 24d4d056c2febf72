package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkshelf/internal/featureflags"
	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/observability"
)

const excerptLength = 280

// ModerateContentInput is one piece of user text to screen.
type ModerateContentInput struct {
	UserID      uint
	ContentType string
	ContentID   string
	Text        string
}

// ModerationOutcome is the verdict on screened text.
type ModerationOutcome struct {
	Allowed   bool       `json:"allowed"`
	Reason    string     `json:"reason,omitempty"`
	Message   string     `json:"message,omitempty"`
	ContentID uuid.UUID  `json:"moderated_content_id"`
	Strike    *BanResult `json:"strike,omitempty"`
}

// ModerationService screens user text and turns violations into strikes.
type ModerationService struct {
	db      *gorm.DB
	filter  *ContentFilter
	strikes *StrikeService
	flags   *featureflags.Manager
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB, filter *ContentFilter, strikes *StrikeService, flags *featureflags.Manager) *ModerationService {
	return &ModerationService{db: db, filter: filter, strikes: strikes, flags: flags}
}

// ModerateContent screens text, records the verdict and, when automatic
// strikes are enabled for the author, issues a strike for a strikeable violation.
func (s *ModerationService) ModerateContent(ctx context.Context, in ModerateContentInput) (*ModerationOutcome, error) {
	db := s.db.WithContext(ctx)
	if _, err := findUser(db, in.UserID); err != nil {
		return nil, err
	}

	violation := s.filter.Check(in.Text)
	record := &models.ModeratedContent{
		UserID:      in.UserID,
		ContentType: strings.TrimSpace(in.ContentType),
		ContentID:   in.ContentID,
		Excerpt:     excerpt(in.Text, excerptLength),
		Allowed:     violation == ViolationNone,
		Reason:      string(violation),
		Action:      models.ContentActionAllowed,
	}
	if !record.Allowed {
		record.Action = models.ContentActionRejected
	}
	if err := db.Create(record).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	outcome := &ModerationOutcome{
		Allowed:   record.Allowed,
		Reason:    record.Reason,
		Message:   violation.Message(),
		ContentID: record.ID,
	}

	reason, severity, strikeable := violation.Strike()
	if strikeable && s.flags.Enabled(featureflags.AutoStrikes, in.UserID) {
		result, err := s.strikes.AddStrike(ctx, in.UserID, reason, severity, StrikeOptions{
			ModeratedContentID: &record.ID,
			Notes:              fmt.Sprintf("Automatic: %s in %s", violation, record.ContentType),
		})
		if err != nil {
			return nil, err
		}
		outcome.Strike = result
		record.Action = models.ContentActionStrikeIssued
		if err := db.Model(record).Update("action", record.Action).Error; err != nil {
			middleware.Logger.WarnContext(ctx, "failed to mark moderated content",
				"content_id", record.ID, "error", err)
		}
	}

	observability.ContentScreenings.WithLabelValues(record.Action).Inc()
	if !record.Allowed {
		middleware.Logger.InfoContext(ctx, "content rejected",
			"user_id", in.UserID,
			"content_type", record.ContentType,
			"reason", record.Reason,
			"action", record.Action,
		)
	}
	return outcome, nil
}

// ListModeratedContent returns a user's screening history, newest first.
func (s *ModerationService) ListModeratedContent(ctx context.Context, userID uint, limit, offset int) ([]models.ModeratedContent, error) {
	db := s.db.WithContext(ctx)
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	var rows []models.ModeratedContent
	if err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func excerpt(text string, n int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n-1]) + "…"
}
