package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalPayload struct {
	Rating  Optional[float64] `json:"rating"`
	Chapter Optional[int]     `json:"chapter"`
	Notes   Optional[string]  `json:"notes"`
}

func TestOptional_DistinguishesAbsentNullAndValue(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"rating": null, "chapter": 12}`), &p))

	assert.True(t, p.Rating.Set)
	assert.False(t, p.Rating.Valid)
	assert.Nil(t, p.Rating.Ptr())

	assert.True(t, p.Chapter.Set)
	assert.True(t, p.Chapter.Valid)
	require.NotNil(t, p.Chapter.Ptr())
	assert.Equal(t, 12, *p.Chapter.Ptr())

	assert.False(t, p.Notes.Set)
	assert.False(t, p.Notes.Valid)
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var p optionalPayload
	err := json.Unmarshal([]byte(`{"chapter": "twelve"}`), &p)
	assert.Error(t, err)
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(optionalPayload{
		Rating:  Some(8.5),
		Chapter: Null[int](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating": 8.5, "chapter": null, "notes": null}`, string(out))
}

func TestNormalizeChapter(t *testing.T) {
	zero, five := 0, 5
	assert.Nil(t, NormalizeChapter(nil))
	assert.Nil(t, NormalizeChapter(&zero))

	got := NormalizeChapter(&five)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)
	assert.NotSame(t, &five, got)
}

func TestLibraryEntry_BeforeSaveNullsChapterZero(t *testing.T) {
	zero := 0
	entry := &LibraryEntry{CurrentChapter: &zero}
	require.NoError(t, entry.BeforeSave(nil))
	assert.Nil(t, entry.CurrentChapter)
}

func TestUser_BanHelpers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	perm := User{IsBanned: true}
	assert.True(t, perm.IsPermanentlyBanned())
	assert.False(t, perm.BanExpired(now))

	expired := User{IsBanned: true, BannedUntil: &past}
	assert.True(t, expired.BanExpired(now))

	boundary := User{IsBanned: true, BannedUntil: &now}
	assert.True(t, boundary.BanExpired(now), "ban ending exactly now has expired")

	active := User{IsBanned: true, BannedUntil: &future}
	assert.False(t, active.BanExpired(now))
	assert.False(t, active.IsPermanentlyBanned())
}

func TestStrike_IsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.True(t, (&Strike{}).IsActive(now))
	assert.True(t, (&Strike{ExpiresAt: &future}).IsActive(now))
	assert.False(t, (&Strike{ExpiresAt: &past}).IsActive(now))
	assert.False(t, (&Strike{ExpiresAt: &now}).IsActive(now))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StrikeReasonHateSpeech.Valid())
	assert.False(t, StrikeReason("rudeness").Valid())
	assert.True(t, StrikeSeveritySevere.Valid())
	assert.False(t, StrikeSeverity("critical").Valid())
	assert.True(t, StatusOnHold.Valid())
	assert.False(t, ReadingStatus("paused").Valid())
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFoundError("User", 7))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.True(t, HasCode(NewConflictError("dup"), CodeConflict))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusOf(NewBannedError()))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("lookup: %w", NewNotFoundError("Book", 3))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, (&AppError{Code: "TEAPOT"}).HTTPStatus())
}
