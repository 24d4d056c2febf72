package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"inkshelf/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one applied migration.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

const migrationLogDDL = `CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migrator applies and reverts a fixed list of versioned SQL migrations,
// recording each applied version in migration_logs.
type Migrator struct {
	db         *gorm.DB
	registered []Migration
}

// NewMigrator returns a Migrator over the embedded migrations.
func NewMigrator(db *gorm.DB) *Migrator {
	return newMigrator(db, GetMigrations())
}

func newMigrator(db *gorm.DB, registered []Migration) *Migrator {
	return &Migrator{db: db, registered: registered}
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return NewMigrator(db).Up(ctx)
}

// RollbackMigration reverts one applied embedded migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return NewMigrator(db).Rollback(ctx, version)
}

// Applied lists applied versions in ascending order. A missing log table
// means nothing has been applied yet.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

// Up applies pending migrations in version order. Each script runs in its
// own transaction together with its log row.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.db.WithContext(ctx).Exec(migrationLogDDL).Error; err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if err := m.checkKnown(applied); err != nil {
		return err
	}

	for _, mig := range m.registered {
		if slices.Contains(applied, mig.Version) {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.String("migration", mig.String()))
		if err := m.step(ctx, mig.UpScript, func(tx *gorm.DB) error {
			return tx.Create(&MigrationLog{Version: mig.Version, Name: mig.Name}).Error
		}); err != nil {
			return fmt.Errorf("migration %s: %w", mig.String(), err)
		}
	}
	return nil
}

// Rollback runs the down script of an applied migration and forgets it.
func (m *Migrator) Rollback(ctx context.Context, version int) error {
	idx := slices.IndexFunc(m.registered, func(mig Migration) bool { return mig.Version == version })
	if idx < 0 {
		return fmt.Errorf("migration version %d not found", version)
	}
	mig := m.registered[idx]

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("Rolling back migration", slog.String("migration", mig.String()))
	if err := m.step(ctx, mig.DownScript, func(tx *gorm.DB) error {
		return tx.Where("version = ?", version).Delete(&MigrationLog{}).Error
	}); err != nil {
		return fmt.Errorf("rollback %s: %w", mig.String(), err)
	}
	return nil
}

func (m *Migrator) step(ctx context.Context, script string, record func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(script).Error; err != nil {
			return err
		}
		return record(tx)
	})
}

// checkKnown refuses to run against a database that has versions this
// binary does not ship, which usually means an older build.
func (m *Migrator) checkKnown(applied []int) error {
	var unknown []string
	for _, v := range applied {
		known := slices.ContainsFunc(m.registered, func(mig Migration) bool { return mig.Version == v })
		if !known {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("migration_logs contains unknown versions not present in code: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}
