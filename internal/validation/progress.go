// Package validation checks request payloads before they reach the services.
package validation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"inkshelf/internal/models"
	"inkshelf/internal/service"
)

// MaxNotesLength bounds library entry notes, in characters.
const MaxNotesLength = 2000

// MaxRating is the top of the rating scale.
const MaxRating = 10.0

// ValidateProgressPatch rejects ranges the progress engine does not handle.
// A null status is rejected; null chapter, volume, rating and notes clear the field.
func ValidateProgressPatch(p service.ProgressPatch) error {
	if p.Status.Set {
		if !p.Status.Valid {
			return fmt.Errorf("status cannot be null")
		}
		if !p.Status.Value.Valid() {
			return fmt.Errorf("status must be one of plan_to_read, reading, completed, on_hold, dropped")
		}
	}
	if p.CurrentChapter.Valid && p.CurrentChapter.Value < 0 {
		return fmt.Errorf("current_chapter must not be negative")
	}
	if p.CurrentVolume.Valid && p.CurrentVolume.Value < 0 {
		return fmt.Errorf("current_volume must not be negative")
	}
	if p.Rating.Valid {
		r := p.Rating.Value
		if math.IsNaN(r) || r < 0 || r > MaxRating {
			return fmt.Errorf("rating must be between 0 and %g", MaxRating)
		}
	}
	if p.Notes.Valid && utf8.RuneCountInString(p.Notes.Value) > MaxNotesLength {
		return fmt.Errorf("notes must be at most %d characters", MaxNotesLength)
	}
	return nil
}

// ValidateReadingStatus checks an optional status filter or starting status.
func ValidateReadingStatus(status models.ReadingStatus) error {
	if status == "" || status.Valid() {
		return nil
	}
	return fmt.Errorf("invalid status %q", status)
}
