package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"inkshelf/internal/models"
)

const (
	maxReportReasonLength  = 255
	maxReportDetailsLength = 2000
	maxBanReasonLength     = 500
	maxScreenTextLength    = 10000
	maxBanDays             = 3650
)

var reportTargets = map[string]struct{}{
	models.ReportTargetUser:    {},
	models.ReportTargetReview:  {},
	models.ReportTargetComment: {},
}

// ValidateReport checks a user-filed report.
func ValidateReport(targetType string, targetID uint, reason, details string) error {
	if _, ok := reportTargets[targetType]; !ok {
		return fmt.Errorf("target_type must be user, review, or comment")
	}
	if targetID == 0 {
		return fmt.Errorf("target_id is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason is required")
	}
	if utf8.RuneCountInString(reason) > maxReportReasonLength {
		return fmt.Errorf("reason must be at most %d characters", maxReportReasonLength)
	}
	if utf8.RuneCountInString(details) > maxReportDetailsLength {
		return fmt.Errorf("details must be at most %d characters", maxReportDetailsLength)
	}
	return nil
}

// ValidateReportResolution checks the admin's verdict on a report.
func ValidateReportResolution(status string) error {
	if status != models.ReportStatusResolved && status != models.ReportStatusDismissed {
		return fmt.Errorf("status must be resolved or dismissed")
	}
	return nil
}

// ValidateStrike checks an admin-issued strike.
func ValidateStrike(reason models.StrikeReason, severity models.StrikeSeverity) error {
	if !reason.Valid() {
		return fmt.Errorf("reason must be one of profanity, hate_speech, spam, harassment, other")
	}
	if !severity.Valid() {
		return fmt.Errorf("severity must be one of minor, moderate, severe")
	}
	return nil
}

// ValidateBan checks an admin ban request. A nil duration means permanent.
func ValidateBan(durationDays *int, reason string) error {
	if durationDays != nil && (*durationDays <= 0 || *durationDays > maxBanDays) {
		return fmt.Errorf("duration_days must be between 1 and %d", maxBanDays)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason is required")
	}
	if utf8.RuneCountInString(reason) > maxBanReasonLength {
		return fmt.Errorf("reason must be at most %d characters", maxBanReasonLength)
	}
	return nil
}

// ValidateScreenText checks text submitted for content screening.
func ValidateScreenText(contentType, text string) error {
	if strings.TrimSpace(contentType) == "" {
		return fmt.Errorf("content_type is required")
	}
	if utf8.RuneCountInString(text) > maxScreenTextLength {
		return fmt.Errorf("text must be at most %d characters", maxScreenTextLength)
	}
	return nil
}
