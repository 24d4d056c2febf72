package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkshelf/internal/middleware"
)

const (
	UserKeyPrefix = "user:%d"
	BookKeyPrefix = "book:%d"
)

const (
	UserTTL = 5 * time.Minute
	BookTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BookKey(bookID uint) string {
	return fmt.Sprintf(BookKeyPrefix, bookID)
}

// Invalidate deletes key; failures are logged and swallowed.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateBook(ctx context.Context, bookID uint) {
	Invalidate(ctx, BookKey(bookID))
}
