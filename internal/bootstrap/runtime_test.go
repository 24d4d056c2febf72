package bootstrap

import (
	"context"
	"testing"
	"time"

	"inkshelf/internal/config"
	"inkshelf/internal/database"
	"inkshelf/internal/models"
	"inkshelf/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func devConfig() *config.Config {
	return &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootUsername:  "root",
		DevRootEmail:     "Root@Example.com",
		DevRootPassword:  "correct horse",
	}
}

func TestEnsureDevRootAdmin_CreatesRoot(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)

	require.NoError(t, ensureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsAdmin)
	assert.Equal(t, "root@example.com", root.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("correct horse")))
}

func TestEnsureDevRootAdmin_PromotesAndUnbansExisting(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	reason := "spam"
	until := time.Now().UTC().Add(time.Hour)
	require.NoError(t, db.Create(&models.User{
		ID: 1, Username: "first", Email: "first@example.com", Password: "x",
		IsBanned: true, BannedUntil: &until, BanReason: &reason,
	}).Error)

	require.NoError(t, ensureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsAdmin)
	assert.False(t, root.IsBanned)
	assert.Nil(t, root.BanReason)
	// Credentials stay unless forced.
	assert.Equal(t, "first", root.Username)
	assert.Equal(t, "x", root.Password)
}

func TestEnsureDevRootAdmin_Guards(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)

	prod := devConfig()
	prod.Env = "production"
	require.NoError(t, ensureDevRootAdmin(context.Background(), prod, db))

	off := devConfig()
	off.DevBootstrapRoot = false
	require.NoError(t, ensureDevRootAdmin(context.Background(), off, db))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)

	noPassword := devConfig()
	noPassword.DevRootPassword = ""
	assert.Error(t, ensureDevRootAdmin(context.Background(), noPassword, db))
}

func TestSeedIfEmpty(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	require.NoError(t, db.Create(&models.Book{Title: "Existing", Slug: "existing"}).Error)

	require.NoError(t, seedIfEmpty(context.Background(), db))

	var n int64
	require.NoError(t, db.Model(&models.Book{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
