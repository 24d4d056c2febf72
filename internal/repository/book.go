package repository

import (
	"context"

	"inkshelf/internal/cache"
	"inkshelf/internal/models"

	"gorm.io/gorm"
)

// BookRepository defines persistence operations for catalogue books.
type BookRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository returns a new BookRepository implementation.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := cache.Aside(ctx, cache.BookKey(id), &book, cache.BookTTL, func() error {
		if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
			return mapLookupError(err, "Book", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Book with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}
