package repository

import (
	"context"
	"fmt"

	"inkshelf/internal/models"

	"gorm.io/gorm"
)

// LibraryRepository defines persistence operations for library entries.
type LibraryRepository interface {
	Create(ctx context.Context, entry *models.LibraryEntry) error
	Get(ctx context.Context, userID, bookID uint) (*models.LibraryEntry, error)
	ListByUser(ctx context.Context, userID uint, status models.ReadingStatus, limit, offset int) ([]models.LibraryEntry, error)
	Delete(ctx context.Context, userID, bookID uint) error
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository returns a new LibraryRepository implementation.
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(ctx context.Context, entry *models.LibraryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Book is already in your library")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *libraryRepository) Get(ctx context.Context, userID, bookID uint) (*models.LibraryEntry, error) {
	var entry models.LibraryEntry
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&entry).Error
	if err != nil {
		return nil, mapLookupError(err, "LibraryEntry", bookID)
	}
	return &entry, nil
}

// ListByUser returns entries most recently updated first; an empty status lists all.
func (r *libraryRepository) ListByUser(ctx context.Context, userID uint, status models.ReadingStatus, limit, offset int) ([]models.LibraryEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []models.LibraryEntry
	if err := q.Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *libraryRepository) Delete(ctx context.Context, userID, bookID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.LibraryEntry{})
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("delete library entry: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("LibraryEntry", bookID)
	}
	return nil
}
