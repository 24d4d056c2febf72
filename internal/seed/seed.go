package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkshelf/internal/middleware"
	"inkshelf/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const batchSize = 200

// Options configures a seeding run.
type Options struct {
	NumReaders     int
	NumBooks       int
	EntriesPerUser int
	// RandSeed fixes the generated data; 0 picks a time-based seed.
	RandSeed int64
	// SkipBcrypt stores DefaultPassword in clear text. Tests only.
	SkipBcrypt bool
}

// DefaultOptions is a small demo data set.
func DefaultOptions() Options {
	return Options{NumReaders: 25, NumBooks: 120, EntriesPerUser: 12}
}

// Summary counts what a run created.
type Summary struct {
	Readers int
	Books   int
	Entries int
}

// Seeder persists generated data.
type Seeder struct {
	db   *gorm.DB
	opts Options
	now  func() time.Time
}

// NewSeeder binds a Seeder to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// Run creates books, readers and their library entries.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	hash, err := s.passwordHash()
	if err != nil {
		return nil, err
	}
	f := NewFactory(s.opts.RandSeed, hash)
	db := s.db.WithContext(ctx)

	books := make([]*models.Book, 0, s.opts.NumBooks)
	for i := 0; i < s.opts.NumBooks; i++ {
		books = append(books, f.BuildBook())
	}
	if len(books) > 0 {
		if err := db.CreateInBatches(books, batchSize).Error; err != nil {
			return nil, fmt.Errorf("failed to create books: %w", err)
		}
	}

	readers := make([]*models.User, 0, s.opts.NumReaders)
	for i := 0; i < s.opts.NumReaders; i++ {
		readers = append(readers, f.BuildReader())
	}
	if len(readers) > 0 {
		if err := db.CreateInBatches(readers, batchSize).Error; err != nil {
			return nil, fmt.Errorf("failed to create readers: %w", err)
		}
	}

	entries := s.buildEntries(f, readers, books)
	if len(entries) > 0 {
		if err := db.CreateInBatches(entries, batchSize).Error; err != nil {
			return nil, fmt.Errorf("failed to create library entries: %w", err)
		}
	}

	summary := &Summary{Readers: len(readers), Books: len(books), Entries: len(entries)}
	middleware.Logger.InfoContext(ctx, "seed completed",
		slog.Int("readers", summary.Readers),
		slog.Int("books", summary.Books),
		slog.Int("entries", summary.Entries),
	)
	return summary, nil
}

// buildEntries gives each reader a distinct set of books.
func (s *Seeder) buildEntries(f *Factory, readers []*models.User, books []*models.Book) []*models.LibraryEntry {
	perUser := s.opts.EntriesPerUser
	if perUser > len(books) {
		perUser = len(books)
	}
	now := s.now()
	entries := make([]*models.LibraryEntry, 0, len(readers)*perUser)
	order := make([]int, len(books))
	for i := range order {
		order[i] = i
	}
	for _, reader := range readers {
		f.faker.ShuffleInts(order)
		for _, idx := range order[:perUser] {
			entries = append(entries, f.BuildEntry(reader, books[idx], now))
		}
	}
	return entries
}

func (s *Seeder) passwordHash() (string, error) {
	if s.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	return string(hashed), nil
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	for _, model := range []interface{}{
		&models.ActivityLog{},
		&models.ModeratedContent{},
		&models.Strike{},
		&models.ModerationReport{},
		&models.LibraryEntry{},
		&models.Book{},
		&models.User{},
	} {
		// each model needs its own statement; a shared chain keeps the first table
		db := s.db.WithContext(ctx).Unscoped().Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
