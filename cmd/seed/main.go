// Command seed fills the database with demo readers, books and library entries.
package main

import (
	"context"
	"flag"
	"log"

	"inkshelf/internal/config"
	"inkshelf/internal/database"
	"inkshelf/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numReaders := flag.Int("readers", defaults.NumReaders, "Number of readers to create")
	numBooks := flag.Int("books", defaults.NumBooks, "Number of books to create")
	perUser := flag.Int("entries", defaults.EntriesPerUser, "Library entries per reader")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	shouldClean := flag.Bool("clean", false, "Delete all existing data before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d readers, %d books, %d entries each, clean=%v", *numReaders, *numBooks, *perUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumReaders:     *numReaders,
		NumBooks:       *numBooks,
		EntriesPerUser: *perUser,
		RandSeed:       *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Created %d readers, %d books and %d library entries", summary.Readers, summary.Books, summary.Entries)
	log.Printf("📧 All seeded readers have the password: %s", seed.DefaultPassword)
}
