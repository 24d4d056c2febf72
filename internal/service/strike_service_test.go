package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkshelf/internal/models"
	"inkshelf/internal/notifications"
	"inkshelf/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[uint][]string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, userID uint, ev notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[uint][]string)
	}
	p.events[userID] = append(p.events[userID], ev.Type)
	return nil
}

func (p *recordingPublisher) typesFor(userID uint) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events[userID]...)
}

type strikeFixture struct {
	db    *gorm.DB
	svc   *StrikeService
	pub   *recordingPublisher
	clock time.Time
}

func newStrikeFixture(t *testing.T, th Thresholds) *strikeFixture {
	t.Helper()
	f := &strikeFixture{
		db:    testutil.NewSQLiteDB(t, &models.User{}, &models.Strike{}),
		pub:   &recordingPublisher{},
		clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewStrikeService(f.db, th, f.pub)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *strikeFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *strikeFixture) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *strikeFixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, id).Error)
	return &u
}

func scenarioThresholds() Thresholds {
	return Thresholds{
		WarningThreshold:     1,
		TempBanThreshold:     3,
		PermaBanThreshold:    6,
		TempBanDurations:     []int{7, 14},
		StrikeExpirationDays: 90,
	}
}

func TestStrikeService_EscalationScenario(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")

	want := []struct {
		action EscalationAction
		days   int
	}{
		{ActionWarning, 0},
		{ActionWarning, 0},
		{ActionTempBan, 7},
		{ActionTempBan, 14},
	}

	for i, w := range want {
		res, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, w.action, res.Action, "strike %d", i+1)
		assert.Equal(t, i+1, res.StrikeCount)
		if w.days > 0 {
			require.NotNil(t, res.BanUntil)
			assert.True(t, res.BanUntil.Equal(f.clock.AddDate(0, 0, w.days)))
		} else {
			assert.Nil(t, res.BanUntil)
		}
	}

	got := f.reload(t, u.ID)
	assert.Equal(t, 4, got.StrikeCount)
	assert.True(t, got.IsBanned)
	require.NotNil(t, got.BannedUntil)
	assert.True(t, got.BannedUntil.Equal(f.clock.AddDate(0, 0, 14)))
	require.NotNil(t, got.BanReason)
	assert.Equal(t, "Automatic temporary ban: 4 active strikes", *got.BanReason)
	assert.Nil(t, got.BannedByUserID)
	require.NotNil(t, got.LastStrikeAt)

	strikes, err := f.svc.GetActiveStrikes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, strikes, 4)
	for _, s := range strikes {
		require.NotNil(t, s.ExpiresAt)
		assert.True(t, s.ExpiresAt.Equal(f.clock.AddDate(0, 0, 90)))
	}

	assert.Contains(t, f.pub.typesFor(u.ID), notifications.EventAccountBanned)
}

func TestStrikeService_PermanentBanAtThreshold(t *testing.T) {
	th := scenarioThresholds()
	th.PermaBanThreshold = 3
	th.TempBanThreshold = 3
	f := newStrikeFixture(t, th)
	ctx := context.Background()
	u := f.seedUser(t, "troll")
	admin := f.seedUser(t, "admin")

	for i := 0; i < 2; i++ {
		_, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonHarassment, models.StrikeSeverityModerate, StrikeOptions{})
		require.NoError(t, err)
	}
	res, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonHateSpeech, models.StrikeSeveritySevere, StrikeOptions{IssuedBy: &admin.ID, Notes: "slur"})
	require.NoError(t, err)
	assert.Equal(t, ActionPermBan, res.Action)
	assert.Nil(t, res.BanUntil)

	got := f.reload(t, u.ID)
	assert.True(t, got.IsPermanentlyBanned())
	require.NotNil(t, got.BannedByUserID)
	assert.Equal(t, admin.ID, *got.BannedByUserID)

	st, err := f.svc.CheckBanStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, st.IsPermanent)
	assert.Equal(t, "permanent", st.BanTimeRemaining)
}

func TestStrikeService_EscalationKeepsLongerBan(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "banned")

	require.NoError(t, f.svc.PermaBan(ctx, u.ID, "manual", nil))
	var res *BanResult
	for i := 0; i < 3; i++ {
		var err error
		res, err = f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
		require.NoError(t, err)
	}

	assert.Equal(t, ActionPermBan, res.Action)
	assert.Nil(t, res.BanUntil)
	assert.Equal(t, "Account remains permanently banned (3 strikes)", res.Message)

	got := f.reload(t, u.ID)
	assert.True(t, got.IsPermanentlyBanned())
	require.NotNil(t, got.BanReason)
	assert.Equal(t, "manual", *got.BanReason)
	assert.Equal(t, 3, got.StrikeCount)
}

func TestStrikeService_EscalationKeepsLongerTempBan(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "cooling")

	until, err := f.svc.TempBan(ctx, u.ID, 30, "manual", nil)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
		require.NoError(t, err)
	}

	res, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionTempBan, res.Action)
	require.NotNil(t, res.BanUntil)
	assert.True(t, res.BanUntil.Equal(until), "got %v", res.BanUntil)
	assert.Equal(t, "Account remains banned for 30 days 0 hours (3 strikes)", res.Message)

	got := f.reload(t, u.ID)
	require.NotNil(t, got.BannedUntil)
	assert.True(t, got.BannedUntil.Equal(until))
}

func TestStrikeService_ExpiredTempBanIsLiftedOnRead(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")

	until, err := f.svc.TempBan(ctx, u.ID, 1, "cool off", nil)
	require.NoError(t, err)
	assert.True(t, until.Equal(f.clock.AddDate(0, 0, 1)))

	st, err := f.svc.CheckBanStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, st.IsBanned)
	assert.Equal(t, "1 day 0 hours", st.BanTimeRemaining)

	f.advance(24 * time.Hour)
	st, err = f.svc.CheckBanStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, st.IsBanned)
	assert.Nil(t, st.BanReason)

	got := f.reload(t, u.ID)
	assert.False(t, got.IsBanned)
	assert.Nil(t, got.BannedUntil)
	assert.Nil(t, got.BanReason)
	assert.Nil(t, got.BannedAt)
	assert.Equal(t, []string{notifications.EventAccountBanned, notifications.EventAccountUnbanned}, f.pub.typesFor(u.ID))
}

func TestStrikeService_TempBanOverwritesAndUnban(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")
	admin := f.seedUser(t, "admin")

	_, err := f.svc.TempBan(ctx, u.ID, 0, "nope", nil)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	require.NoError(t, f.svc.PermaBan(ctx, u.ID, "first", &admin.ID))
	_, err = f.svc.TempBan(ctx, u.ID, 3, "second", &admin.ID)
	require.NoError(t, err)

	got := f.reload(t, u.ID)
	assert.False(t, got.IsPermanentlyBanned())
	require.NotNil(t, got.BannedUntil)
	assert.Equal(t, "second", *got.BanReason)

	require.NoError(t, f.svc.Unban(ctx, u.ID))
	require.NoError(t, f.svc.Unban(ctx, u.ID))
	got = f.reload(t, u.ID)
	assert.False(t, got.IsBanned)
	assert.Nil(t, got.BannedByUserID)
}

func TestStrikeService_UnknownUser(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()

	_, err := f.svc.AddStrike(ctx, 404, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
	assert.True(t, models.IsNotFound(err))
	_, err = f.svc.CheckBanStatus(ctx, 404)
	assert.True(t, models.IsNotFound(err))
	_, err = f.svc.GetActiveStrikes(ctx, 404)
	assert.True(t, models.IsNotFound(err))
	_, err = f.svc.GetAllStrikes(ctx, 404)
	assert.True(t, models.IsNotFound(err))
	_, err = f.svc.TempBan(ctx, 404, 1, "x", nil)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(f.svc.PermaBan(ctx, 404, "x", nil)))
	assert.True(t, models.IsNotFound(f.svc.Unban(ctx, 404)))
	assert.True(t, models.IsNotFound(f.svc.ClearAllStrikes(ctx, 404)))
	_, err = f.svc.RecalculateStrikeCount(ctx, 404)
	assert.True(t, models.IsNotFound(err))

	var n int64
	require.NoError(t, f.db.Model(&models.Strike{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStrikeService_RejectsUnknownReason(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	u := f.seedUser(t, "reader")

	_, err := f.svc.AddStrike(context.Background(), u.ID, "rudeness", models.StrikeSeverityMinor, StrikeOptions{})
	assert.True(t, models.HasCode(err, models.CodeValidation))
	_, err = f.svc.AddStrike(context.Background(), u.ID, models.StrikeReasonSpam, "extreme", StrikeOptions{})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestStrikeService_ExpiryAndRecalculation(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")

	_, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)
	f.advance(60 * 24 * time.Hour)
	_, err = f.svc.AddStrike(ctx, u.ID, models.StrikeReasonProfanity, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)

	f.advance(31 * 24 * time.Hour)

	active, err := f.svc.GetActiveStrikes(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.StrikeReasonProfanity, active[0].Reason)

	all, err := f.svc.GetAllStrikes(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.StrikeReasonProfanity, all[0].Reason)

	assert.Equal(t, 2, f.reload(t, u.ID).StrikeCount)
	n, err := f.svc.RecalculateStrikeCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, f.reload(t, u.ID).StrikeCount)
}

func TestStrikeService_RecalculateNeverEscalates(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")

	for i := 0; i < 3; i++ {
		require.NoError(t, f.db.Create(&models.Strike{UserID: u.ID, Reason: models.StrikeReasonSpam, Severity: models.StrikeSeverityMinor, CreatedAt: f.clock}).Error)
	}
	n, err := f.svc.RecalculateStrikeCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, f.reload(t, u.ID).IsBanned)
}

func TestStrikeService_RemoveStrike(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	other := f.seedUser(t, "other")

	res, err := f.svc.AddStrike(ctx, owner.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)
	_, err = f.svc.AddStrike(ctx, owner.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)

	err = f.svc.RemoveStrike(ctx, res.Strike.ID, other.ID)
	assert.True(t, models.IsNotFound(err))
	assert.Equal(t, 2, f.reload(t, owner.ID).StrikeCount)

	require.NoError(t, f.svc.RemoveStrike(ctx, res.Strike.ID, owner.ID))
	assert.Equal(t, 1, f.reload(t, owner.ID).StrikeCount)

	assert.True(t, models.IsNotFound(f.svc.RemoveStrike(ctx, res.Strike.ID, owner.ID)))
}

func TestStrikeService_ClearAllStrikesKeepsBan(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "reader")

	for i := 0; i < 3; i++ {
		_, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonSpam, models.StrikeSeverityMinor, StrikeOptions{})
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.ClearAllStrikes(ctx, u.ID))

	got := f.reload(t, u.ID)
	assert.Zero(t, got.StrikeCount)
	assert.Nil(t, got.LastStrikeAt)
	assert.True(t, got.IsBanned)

	all, err := f.svc.GetAllStrikes(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStrikeService_ReconcileExpiredBans(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	short := f.seedUser(t, "short")
	long := f.seedUser(t, "long")
	perm := f.seedUser(t, "perm")

	_, err := f.svc.TempBan(ctx, short.ID, 1, "a", nil)
	require.NoError(t, err)
	_, err = f.svc.TempBan(ctx, long.ID, 30, "b", nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.PermaBan(ctx, perm.ID, "c", nil))

	n, err := f.svc.ReconcileExpiredBans(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.advance(2 * 24 * time.Hour)
	n, err = f.svc.ReconcileExpiredBans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.False(t, f.reload(t, short.ID).IsBanned)
	assert.True(t, f.reload(t, long.ID).IsBanned)
	assert.True(t, f.reload(t, perm.ID).IsBanned)

	n, err = f.svc.ReconcileExpiredBans(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStrikeService_RecalculateAll(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	a := f.seedUser(t, "a")
	f.seedUser(t, "b")

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", a.ID).Update("strike_count", 9).Error)

	n, err := f.svc.RecalculateAllStrikeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, f.reload(t, a.ID).StrikeCount)
}

func TestStrikeService_StrikeExpiresAtBoundary(t *testing.T) {
	f := newStrikeFixture(t, scenarioThresholds())
	ctx := context.Background()
	u := f.seedUser(t, "boundary")

	res, err := f.svc.AddStrike(ctx, u.ID, models.StrikeReasonOther, models.StrikeSeverityMinor, StrikeOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Strike.ExpiresAt)
	expiresAt := *res.Strike.ExpiresAt

	f.clock = expiresAt.Add(-time.Second)
	active, err := f.svc.GetActiveStrikes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	f.clock = expiresAt
	active, err = f.svc.GetActiveStrikes(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.False(t, res.Strike.IsActive(f.clock))

	all, err := f.svc.GetAllStrikes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
