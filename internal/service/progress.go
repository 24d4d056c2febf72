package service

import (
	"time"

	"inkshelf/internal/models"
)

// ProgressPatch is a partial update to a library entry. Each field is
// tri-state: absent, explicit null, or a value.
type ProgressPatch struct {
	Status         models.Optional[models.ReadingStatus] `json:"status" swaggertype:"string"`
	CurrentChapter models.Optional[int]                  `json:"current_chapter" swaggertype:"integer"`
	CurrentVolume  models.Optional[int]                  `json:"current_volume" swaggertype:"integer"`
	Rating         models.Optional[float64]              `json:"rating" swaggertype:"number"`
	Notes          models.Optional[string]               `json:"notes" swaggertype:"string"`
}

// IsEmpty reports whether no field was supplied.
func (p ProgressPatch) IsEmpty() bool {
	return !p.Status.Set && !p.CurrentChapter.Set && !p.CurrentVolume.Set && !p.Rating.Set && !p.Notes.Set
}

// Library entry columns touched by a progress update.
const (
	FieldStatus         = "status"
	FieldCurrentChapter = "current_chapter"
	FieldCurrentVolume  = "current_volume"
	FieldRating         = "rating"
	FieldNotes          = "notes"
	FieldStartDate      = "start_date"
	FieldFinishDate     = "finish_date"
	FieldLastReadAt     = "last_read_at"
)

// FieldChange is one column whose value differs after an update.
type FieldChange struct {
	Field string
	Old   interface{}
	New   interface{}
}

// ProgressResult is the outcome of ApplyProgressUpdate. Entry is a copy;
// the input entry is never modified.
type ProgressResult struct {
	Entry      *models.LibraryEntry
	Changes    []FieldChange
	AutoStatus bool
}

// Changed reports whether anything differs from the stored entry.
func (r ProgressResult) Changed() bool {
	return len(r.Changes) > 0
}

// Columns returns the changed columns in a form suitable for gorm Updates.
func (r ProgressResult) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, len(r.Changes))
	for _, c := range r.Changes {
		cols[c.Field] = c.New
	}
	return cols
}

// ApplyProgressUpdate derives the next state of entry from patch. Later steps
// may override values derived by earlier ones:
//
//  1. notes and rating are copied, rating 0 meaning clear
//  2. chapter and volume are staged, chapter going through NormalizeChapter
//  3. progress flags are computed against the book totals
//  4. without an explicit status, progress may auto-assign completed or reading
//  5. last_read_at follows a progress change
//  6. the resolved status applies its date and progress side effects
//  7. an update that changes nothing returns the entry as stored
func ApplyProgressUpdate(entry *models.LibraryEntry, book *models.Book, patch ProgressPatch, now time.Time) ProgressResult {
	now = now.UTC()
	today := truncateToDate(now)
	next := *entry

	// 1. direct fields
	if patch.Notes.Set {
		next.Notes = patch.Notes.Ptr()
	}
	if patch.Rating.Set {
		if patch.Rating.Valid && patch.Rating.Value != 0 {
			next.Rating = patch.Rating.Ptr()
		} else {
			next.Rating = nil
		}
	}

	// 2. staged progress
	chapterProvided := patch.CurrentChapter.Set
	volumeProvided := patch.CurrentVolume.Set
	if chapterProvided {
		next.CurrentChapter = models.NormalizeChapter(patch.CurrentChapter.Ptr())
	}
	if volumeProvided {
		next.CurrentVolume = patch.CurrentVolume.Ptr()
	}

	// 3. progress flags
	progressUpdated := (chapterProvided && !intPtrEqual(next.CurrentChapter, entry.CurrentChapter)) ||
		(volumeProvided && !intPtrEqual(next.CurrentVolume, entry.CurrentVolume))
	hasProgress := intValue(next.CurrentChapter) > 0 || intValue(next.CurrentVolume) > 0
	progressAtMax := atTotal(next.CurrentChapter, book.Chapters) || atTotal(next.CurrentVolume, book.Volumes)

	// 4. status resolution
	statusExplicit := patch.Status.Set && patch.Status.Valid
	autoStatus := false
	resolved := entry.Status
	switch {
	case statusExplicit:
		resolved = patch.Status.Value
	case progressUpdated && progressAtMax:
		resolved, autoStatus = models.StatusCompleted, true
	case progressUpdated && hasProgress:
		resolved, autoStatus = models.StatusReading, true
	}
	next.Status = resolved

	// 5. last read
	lastReadSet := false
	if progressUpdated {
		if hasProgress {
			next.LastReadAt = &now
			lastReadSet = true
		} else {
			next.LastReadAt = nil
		}
	}

	// 6. status side effects
	if statusExplicit || autoStatus || resolved != entry.Status {
		switch resolved {
		case models.StatusPlanToRead:
			next.StartDate = nil
			next.FinishDate = nil
			next.LastReadAt = nil
			next.CurrentChapter = nil
			next.CurrentVolume = nil
		case models.StatusReading:
			if next.StartDate == nil {
				next.StartDate = &today
			}
			next.FinishDate = nil
		case models.StatusCompleted:
			if (autoStatus || !chapterProvided) && known(book.Chapters) {
				next.CurrentChapter = intPtr(*book.Chapters)
			}
			if (autoStatus || !volumeProvided) && known(book.Volumes) {
				next.CurrentVolume = intPtr(*book.Volumes)
			}
			if next.StartDate == nil {
				next.StartDate = &today
			}
			next.FinishDate = &today
			if !lastReadSet {
				next.LastReadAt = &now
			}
		case models.StatusOnHold, models.StatusDropped:
			next.FinishDate = nil
		}
	}

	// 7. diff
	changes := diffEntries(entry, &next)
	if len(changes) == 0 {
		return ProgressResult{Entry: entry}
	}
	return ProgressResult{Entry: &next, Changes: changes, AutoStatus: autoStatus}
}

func diffEntries(old, next *models.LibraryEntry) []FieldChange {
	var changes []FieldChange
	if old.Status != next.Status {
		changes = append(changes, FieldChange{FieldStatus, old.Status, next.Status})
	}
	if !intPtrEqual(old.CurrentChapter, next.CurrentChapter) {
		changes = append(changes, FieldChange{FieldCurrentChapter, old.CurrentChapter, next.CurrentChapter})
	}
	if !intPtrEqual(old.CurrentVolume, next.CurrentVolume) {
		changes = append(changes, FieldChange{FieldCurrentVolume, old.CurrentVolume, next.CurrentVolume})
	}
	if !ptrEqual(old.Rating, next.Rating) {
		changes = append(changes, FieldChange{FieldRating, old.Rating, next.Rating})
	}
	if !ptrEqual(old.Notes, next.Notes) {
		changes = append(changes, FieldChange{FieldNotes, old.Notes, next.Notes})
	}
	if !datePtrEqual(old.StartDate, next.StartDate) {
		changes = append(changes, FieldChange{FieldStartDate, old.StartDate, next.StartDate})
	}
	if !datePtrEqual(old.FinishDate, next.FinishDate) {
		changes = append(changes, FieldChange{FieldFinishDate, old.FinishDate, next.FinishDate})
	}
	if !timePtrEqual(old.LastReadAt, next.LastReadAt) {
		changes = append(changes, FieldChange{FieldLastReadAt, old.LastReadAt, next.LastReadAt})
	}
	return changes
}

// known treats a missing or zero total as unknown.
func known(total *int) bool {
	return total != nil && *total > 0
}

func atTotal(progress, total *int) bool {
	return known(total) && intValue(progress) >= *total
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func intPtr(v int) *int {
	return &v
}

func intPtrEqual(a, b *int) bool {
	return ptrEqual(a, b)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// datePtrEqual compares calendar dates; stored date columns may come back
// with a zone or time-of-day attached.
func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
