package models

import (
	"time"

	"gorm.io/gorm"
)

// Book is the read-only catalogue record a library entry points at.
// Chapters and Volumes are nil when the total is unknown.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Author    string    `gorm:"size:255" json:"author,omitempty"`
	Format    string    `gorm:"size:32" json:"format,omitempty"`
	Chapters  *int      `json:"chapters"`
	Volumes   *int      `json:"volumes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReadingStatus is the tracking state of one book in a user's library.
type ReadingStatus string

const (
	StatusPlanToRead ReadingStatus = "plan_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
	StatusOnHold     ReadingStatus = "on_hold"
	StatusDropped    ReadingStatus = "dropped"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusPlanToRead, StatusReading, StatusCompleted, StatusOnHold, StatusDropped:
		return true
	}
	return false
}

// LibraryEntry tracks a user's reading progress for one book.
type LibraryEntry struct {
	UserID         uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID         uint          `gorm:"primaryKey;autoIncrement:false;index" json:"book_id"`
	Status         ReadingStatus `gorm:"size:16;not null;default:plan_to_read;index" json:"status"`
	CurrentChapter *int          `json:"current_chapter"`
	CurrentVolume  *int          `json:"current_volume"`
	Rating         *float64      `json:"rating"`
	StartDate      *time.Time    `gorm:"type:date" json:"start_date"`
	FinishDate     *time.Time    `gorm:"type:date" json:"finish_date"`
	Notes          *string       `gorm:"type:text" json:"notes"`
	LastReadAt     *time.Time    `json:"last_read_at"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NormalizeChapter maps chapter 0 to nil: a zero chapter means nothing has
// been read yet, not a prologue. Every write path goes through this.
func NormalizeChapter(ch *int) *int {
	if ch == nil || *ch == 0 {
		return nil
	}
	v := *ch
	return &v
}

// BeforeSave applies the chapter-zero policy on full-row saves.
func (e *LibraryEntry) BeforeSave(_ *gorm.DB) error {
	e.CurrentChapter = NormalizeChapter(e.CurrentChapter)
	return nil
}
