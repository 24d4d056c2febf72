// Package seed provides helpers to create demo readers, books and library
// entries. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"inkshelf/internal/models"
	"inkshelf/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password every seeded reader signs in with.
const DefaultPassword = "password123"

var (
	bookFormats = []string{"novel", "manga", "light_novel", "webtoon"}
	statuses    = []models.ReadingStatus{
		models.StatusPlanToRead,
		models.StatusReading,
		models.StatusReading,
		models.StatusCompleted,
		models.StatusOnHold,
		models.StatusDropped,
	}
	nonSlug = regexp.MustCompile(`[^a-z0-9]+`)
)

// Factory builds domain entities without persisting them. A fixed seed
// yields the same sequence of records.
type Factory struct {
	faker        *gofakeit.Faker
	passwordHash string
	seq          int
}

// NewFactory returns a Factory. seed 0 picks a time-based seed.
func NewFactory(seed int64, passwordHash string) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed), passwordHash: passwordHash}
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// BuildReader constructs a regular reader account.
func (f *Factory) BuildReader(overrides ...func(*models.User)) *models.User {
	n := f.next()
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), n)
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, f.faker.DomainName()),
		Password: f.passwordHash,
		Bio:      f.faker.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildBook constructs a catalogue entry. About one book in ten has an
// unknown chapter total; only manga and light novels carry volumes.
func (f *Factory) BuildBook(overrides ...func(*models.Book)) *models.Book {
	n := f.next()
	title := f.faker.BookTitle()
	format := f.faker.RandomString(bookFormats)
	book := &models.Book{
		Title:  title,
		Slug:   fmt.Sprintf("%s-%d", slugify(title), n),
		Author: f.faker.BookAuthor(),
		Format: format,
	}
	if f.faker.Number(1, 10) > 1 {
		chapters := f.faker.Number(5, 300)
		book.Chapters = &chapters
		if format == "manga" || format == "light_novel" {
			volumes := chapters/10 + 1
			book.Volumes = &volumes
		}
	}
	for _, override := range overrides {
		override(book)
	}
	return book
}

// BuildEntry constructs a library entry for user and book at a random
// point of progress. The state is derived through the progress rules so
// dates and status always agree with the chapter.
func (f *Factory) BuildEntry(user *models.User, book *models.Book, now time.Time) *models.LibraryEntry {
	added := now.AddDate(0, 0, -f.faker.Number(1, 120))
	entry := &models.LibraryEntry{
		UserID:    user.ID,
		BookID:    book.ID,
		Status:    models.StatusPlanToRead,
		CreatedAt: added,
		UpdatedAt: added,
	}

	status := statuses[f.faker.Number(0, len(statuses)-1)]
	var patch service.ProgressPatch
	switch status {
	case models.StatusPlanToRead:
		return entry
	case models.StatusCompleted:
		patch.Status = models.Some(models.StatusCompleted)
		if f.faker.Bool() {
			patch.Rating = models.Some(float64(f.faker.Number(10, 100)) / 10)
		}
	default:
		patch.CurrentChapter = models.Some(f.partialChapter(book))
		if status != models.StatusReading {
			patch.Status = models.Some(status)
		}
	}
	if f.faker.Number(1, 4) == 1 {
		patch.Notes = models.Some(f.faker.Sentence(8))
	}

	readAt := added.Add(time.Duration(f.faker.Number(1, 72)) * time.Hour)
	result := service.ApplyProgressUpdate(entry, book, patch, readAt)
	result.Entry.UpdatedAt = readAt
	return result.Entry
}

// partialChapter picks a chapter short of the book's last one.
func (f *Factory) partialChapter(book *models.Book) int {
	if book.Chapters == nil || *book.Chapters < 2 {
		return f.faker.Number(1, 40)
	}
	return f.faker.Number(1, *book.Chapters-1)
}

func slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "book"
	}
	return slug
}
