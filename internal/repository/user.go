package repository

import (
	"context"
	"time"

	"inkshelf/internal/cache"
	"inkshelf/internal/models"

	"gorm.io/gorm"
)

// UserRepository reads reader accounts. Moderation state changes go through
// the strike service, which evicts the cached copy after commit.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListIDs(ctx context.Context) ([]uint, error)
	ListBanned(ctx context.Context, now time.Time, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return mapLookupError(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapLookupError(err, "User", username)
	}
	return &user, nil
}

// ListIDs returns every live user ID for bulk maintenance.
func (r *userRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.User{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// ListBanned pages through users whose ban is in effect at now: permanent
// bans and temporary bans that have not run out yet. Most recent bans first.
func (r *userRepository) ListBanned(ctx context.Context, now time.Time, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_banned = ?", true).
		Where("banned_until IS NULL OR banned_until > ?", now).
		Order("banned_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
