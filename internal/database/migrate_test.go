package database

import (
	"context"
	"testing"

	"inkshelf/internal/config"
	"inkshelf/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations() []Migration {
	return []Migration{
		{
			Version:    1,
			Name:       "shelves",
			UpScript:   "CREATE TABLE shelves (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
			DownScript: "DROP TABLE shelves",
		},
		{
			Version:    2,
			Name:       "shelf_index",
			UpScript:   "CREATE INDEX idx_shelves_name ON shelves (name)",
			DownScript: "DROP INDEX idx_shelves_name",
		},
	}
}

func TestEmbeddedMigrationsAreOrderedAndPaired(t *testing.T) {
	list := GetMigrations()
	require.NotEmpty(t, list)
	for i, m := range list {
		assert.NotEmpty(t, m.UpScript, m.String())
		assert.NotEmpty(t, m.DownScript, m.String())
		if i > 0 {
			assert.Greater(t, m.Version, list[i-1].Version)
		}
	}
	assert.Equal(t, "000001_init", list[0].String())
	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestMigratorUp_AppliesPendingOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	require.NoError(t, newMigrator(db, testMigrations()).Up(ctx))
	assert.True(t, db.Migrator().HasTable("shelves"))

	applied, err := NewMigrator(db).Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)

	// second run is a no-op
	require.NoError(t, newMigrator(db, testMigrations()).Up(ctx))
}

func TestMigratorUp_RejectsUnknownAppliedVersions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, newMigrator(db, testMigrations()).Up(ctx))

	err := newMigrator(db, testMigrations()[:1]).Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002")
}

func TestMigratorUp_FailedScriptIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	broken := []Migration{{Version: 1, Name: "broken", UpScript: "CREATE TABLE (", DownScript: ""}}
	require.Error(t, newMigrator(db, broken).Up(ctx))

	applied, err := NewMigrator(db).Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigratorRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	list := testMigrations()
	require.NoError(t, newMigrator(db, list).Up(ctx))

	require.NoError(t, newMigrator(db, list).Rollback(ctx, 2))
	applied, err := NewMigrator(db).Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	err = newMigrator(db, list).Rollback(ctx, 2)
	assert.ErrorContains(t, err, "has not been applied")

	err = newMigrator(db, list).Rollback(ctx, 42)
	assert.ErrorContains(t, err, "not found")
}

func TestMigratorApplied_MissingTable(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	applied, err := NewMigrator(db).Applied(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{name: "hybrid dev", cfg: config.Config{Env: "development"}, wantSQL: true, wantAuto: true},
		{name: "hybrid prod", cfg: config.Config{Env: "production", DBSchemaMode: "hybrid"}, wantSQL: true},
		{name: "sql", cfg: config.Config{Env: "development", DBSchemaMode: "sql"}, wantSQL: true},
		{name: "auto dev", cfg: config.Config{Env: "development", DBSchemaMode: "auto"}, wantAuto: true},
		{name: "auto prod refused", cfg: config.Config{Env: "prod", DBSchemaMode: "auto"}, wantErr: true},
		{
			name:     "auto prod allowed",
			cfg:      config.Config{Env: "prod", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true},
			wantAuto: true,
		},
		{name: "unknown", cfg: config.Config{DBSchemaMode: "yolo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSchema(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.sql)
			assert.Equal(t, tt.wantAuto, plan.autoRun)
		})
	}
}

func TestApplySchema_AutoModeOnSQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{Env: "test", DBSchemaMode: SchemaModeAuto}

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	assert.True(t, db.Migrator().HasTable("strikes"))

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
}
