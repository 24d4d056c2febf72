package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/observability"
	"inkshelf/internal/repository"
)

// AddEntryInput is the payload for adding a book to a library.
type AddEntryInput struct {
	BookID uint                 `json:"book_id"`
	Status models.ReadingStatus `json:"status"`
}

// LibraryService manages library entries and their reading progress.
type LibraryService struct {
	db       *gorm.DB
	library  repository.LibraryRepository
	books    repository.BookRepository
	activity *ActivityLogger
	now      func() time.Time
}

// NewLibraryService builds a library service.
func NewLibraryService(db *gorm.DB, library repository.LibraryRepository, books repository.BookRepository, activity *ActivityLogger) *LibraryService {
	return &LibraryService{
		db:       db,
		library:  library,
		books:    books,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddEntry adds a book to the user's library. The status defaults to
// plan_to_read; any other starting status gets its usual date side effects.
func (s *LibraryService) AddEntry(ctx context.Context, userID uint, in AddEntryInput) (*models.LibraryEntry, error) {
	if in.Status == "" {
		in.Status = models.StatusPlanToRead
	}
	if !in.Status.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid status %q", in.Status))
	}

	book, err := s.books.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}

	entry := &models.LibraryEntry{UserID: userID, BookID: book.ID, Status: models.StatusPlanToRead}
	if in.Status != models.StatusPlanToRead {
		res := ApplyProgressUpdate(entry, book, ProgressPatch{Status: models.Some(in.Status)}, s.now())
		entry = res.Entry
	}

	if err := s.library.Create(ctx, entry); err != nil {
		return nil, err
	}
	entry.Book = book

	s.activity.Log(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActivityLibraryAdded,
		ResourceType: models.ActivityResourceLibrary,
		ResourceID:   strconv.FormatUint(uint64(book.ID), 10),
		Metadata:     map[string]interface{}{"book_id": book.ID, "status": entry.Status},
	})
	return entry, nil
}

// GetEntry returns one entry with its book.
func (s *LibraryService) GetEntry(ctx context.Context, userID, bookID uint) (*models.LibraryEntry, error) {
	return s.library.Get(ctx, userID, bookID)
}

// ListEntries lists the user's entries, optionally filtered by status.
func (s *LibraryService) ListEntries(ctx context.Context, userID uint, status models.ReadingStatus, limit, offset int) ([]models.LibraryEntry, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid status %q", status))
	}
	return s.library.ListByUser(ctx, userID, status, limit, offset)
}

// RemoveEntry deletes a book from the user's library.
func (s *LibraryService) RemoveEntry(ctx context.Context, userID, bookID uint) error {
	if err := s.library.Delete(ctx, userID, bookID); err != nil {
		return err
	}
	s.activity.Log(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActivityLibraryRemoved,
		ResourceType: models.ActivityResourceLibrary,
		ResourceID:   strconv.FormatUint(uint64(bookID), 10),
		Metadata:     map[string]interface{}{"book_id": bookID},
	})
	return nil
}

// UpdateEntry applies a progress patch under a row lock, persists only the
// changed columns and returns the stored entry with its book. Activity log
// entries are written after commit.
func (s *LibraryService) UpdateEntry(ctx context.Context, userID, bookID uint, patch ProgressPatch) (*models.LibraryEntry, error) {
	span, ctx := observability.NewSpan(ctx, "library.update_entry",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("book.id", int64(bookID)),
	)
	defer span.End()

	var result ProgressResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.LibraryEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("LibraryEntry", bookID)
			}
			return models.NewInternalError(err)
		}

		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Book", bookID)
			}
			return models.NewInternalError(err)
		}

		result = ApplyProgressUpdate(&entry, &book, patch, s.now())
		if !result.Changed() {
			return nil
		}
		if err := tx.Model(&models.LibraryEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Updates(result.Columns()).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if !result.Changed() {
		observability.ProgressUpdates.WithLabelValues("noop").Inc()
	} else {
		observability.ProgressUpdates.WithLabelValues("updated").Inc()
		span.AddAttributes(attribute.Int("progress.changes", len(result.Changes)))
		middleware.Logger.DebugContext(ctx, "library entry updated",
			"user_id", userID, "book_id", bookID, "changes", len(result.Changes), "auto_status", result.AutoStatus)
		s.logChanges(ctx, userID, bookID, result)
	}

	return s.library.Get(ctx, userID, bookID)
}

var activityForField = map[string]string{
	FieldStatus:         models.ActivityStatusChanged,
	FieldCurrentChapter: models.ActivityChapterUpdated,
	FieldCurrentVolume:  models.ActivityVolumeUpdated,
	FieldRating:         models.ActivityRatingUpdated,
	FieldNotes:          models.ActivityNotesUpdated,
}

func (s *LibraryService) logChanges(ctx context.Context, userID, bookID uint, result ProgressResult) {
	for _, change := range result.Changes {
		action, ok := activityForField[change.Field]
		if !ok {
			continue
		}
		meta := map[string]interface{}{
			"book_id": bookID,
			"from":    change.Old,
			"to":      change.New,
		}
		if change.Field == FieldStatus {
			meta["auto"] = result.AutoStatus
		}
		s.activity.Log(ctx, ActivityEntry{
			UserID:       userID,
			Action:       action,
			ResourceType: models.ActivityResourceLibrary,
			ResourceID:   strconv.FormatUint(uint64(bookID), 10),
			Metadata:     meta,
		})
	}
}
