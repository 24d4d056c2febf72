package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/notifications"
)

// CreateReportInput is a user-filed report. ReportedUserID names the author
// of a review or comment; for user targets it is the target itself.
type CreateReportInput struct {
	TargetType     string `json:"target_type"`
	TargetID       uint   `json:"target_id"`
	ReportedUserID *uint  `json:"reported_user_id,omitempty"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
}

// StrikeRequest asks for a strike as part of resolving a report.
type StrikeRequest struct {
	Reason   models.StrikeReason   `json:"reason"`
	Severity models.StrikeSeverity `json:"severity"`
	Notes    string                `json:"notes"`
}

// ResolveReportInput is the admin's verdict on a report.
type ResolveReportInput struct {
	Status         string         `json:"status"`
	ResolutionNote string         `json:"resolution_note"`
	Strike         *StrikeRequest `json:"strike,omitempty"`
}

// ResolveReportResult is the resolved report and the strike it produced, if any.
type ResolveReportResult struct {
	Report *models.ModerationReport `json:"report"`
	Strike *BanResult               `json:"strike,omitempty"`
}

// ReportService handles user reports and their admin resolution.
type ReportService struct {
	db        *gorm.DB
	strikes   *StrikeService
	publisher EventPublisher
	now       func() time.Time
}

// NewReportService returns a new ReportService. publisher may be nil.
func NewReportService(db *gorm.DB, strikes *StrikeService, publisher EventPublisher) *ReportService {
	return &ReportService{
		db:        db,
		strikes:   strikes,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create files a report. Reports against users require the user to exist
// and may not target the reporter.
func (s *ReportService) Create(ctx context.Context, reporterID uint, in CreateReportInput) (*models.ModerationReport, error) {
	db := s.db.WithContext(ctx)

	reported := in.ReportedUserID
	if in.TargetType == models.ReportTargetUser {
		id := in.TargetID
		reported = &id
	}
	if reported != nil {
		if *reported == reporterID {
			return nil, models.NewValidationError("You cannot report yourself")
		}
		if _, err := findUser(db, *reported); err != nil {
			return nil, err
		}
	}

	report := &models.ModerationReport{
		ReporterID:     reporterID,
		TargetType:     in.TargetType,
		TargetID:       in.TargetID,
		ReportedUserID: reported,
		Reason:         strings.TrimSpace(in.Reason),
		Details:        strings.TrimSpace(in.Details),
		Status:         models.ReportStatusOpen,
	}
	if err := db.Create(report).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "moderation report created",
		"report_id", report.ID,
		"target_type", report.TargetType,
		"target_id", report.TargetID,
	)
	return report, nil
}

// List returns reports, newest first, optionally filtered.
func (s *ReportService) List(ctx context.Context, status, targetType string, limit, offset int) ([]models.ModerationReport, error) {
	query := s.db.WithContext(ctx).Model(&models.ModerationReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}

	var reports []models.ModerationReport
	if err := query.
		Preload("Reporter").
		Preload("ReportedUser").
		Preload("ResolvedByUser").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

// Resolve closes an open report. A strike request on a resolved (not
// dismissed) report issues a strike against the reported user first.
func (s *ReportService) Resolve(ctx context.Context, reportID, adminID uint, in ResolveReportInput) (*ResolveReportResult, error) {
	db := s.db.WithContext(ctx)

	report, err := s.get(db, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusOpen {
		return nil, models.NewConflictError("Report has already been closed")
	}

	result := &ResolveReportResult{}
	if in.Strike != nil && in.Status == models.ReportStatusResolved {
		if report.ReportedUserID == nil {
			return nil, models.NewValidationError("Report has no reported user to strike")
		}
		result.Strike, err = s.strikes.AddStrike(ctx, *report.ReportedUserID, in.Strike.Reason, in.Strike.Severity, StrikeOptions{
			IssuedBy: &adminID,
			ReportID: &report.ID,
			Notes:    in.Strike.Notes,
		})
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	res := db.Model(&models.ModerationReport{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusOpen).
		Updates(map[string]interface{}{
			"status":              in.Status,
			"resolved_by_user_id": adminID,
			"resolved_at":         now,
			"resolution_note":     strings.TrimSpace(in.ResolutionNote),
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewConflictError("Report has already been closed")
	}

	if result.Report, err = s.get(db, reportID); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "moderation report closed",
		"report_id", reportID, "status", in.Status, "admin_id", adminID, "strike", result.Strike != nil)

	if s.publisher != nil {
		ev := notifications.NewEvent(notifications.EventReportResolved, map[string]interface{}{
			"report_id": reportID,
			"status":    in.Status,
		})
		if err := s.publisher.PublishEvent(ctx, report.ReporterID, ev); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish report event", "report_id", reportID, "error", err)
		}
	}
	return result, nil
}

func (s *ReportService) get(db *gorm.DB, reportID uint) (*models.ModerationReport, error) {
	var report models.ModerationReport
	err := db.Preload("Reporter").
		Preload("ReportedUser").
		Preload("ResolvedByUser").
		First(&report, reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ModerationReport", reportID)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}
