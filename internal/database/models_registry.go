package database

import "inkshelf/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Book{},
		&models.LibraryEntry{},
		&models.Strike{},
		&models.ModerationReport{},
		&models.ModeratedContent{},
		&models.ActivityLog{},
	}
}
