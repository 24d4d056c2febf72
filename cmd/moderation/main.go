// Command moderation runs strike and ban maintenance against the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"inkshelf/internal/cache"
	"inkshelf/internal/config"
	"inkshelf/internal/database"
	"inkshelf/internal/notifications"
	"inkshelf/internal/service"
)

const usageText = `Usage:
  moderation reconcile-bans                 - Lift every temporary ban that has expired
  moderation recalc-strikes <user_id|all>   - Recount active strikes
  moderation strikes <user_id>              - List a user's strikes, newest first
  moderation clear-strikes <user_id>        - Delete all strikes of a user
  moderation ban-status <user_id>           - Show a user's effective ban status
  moderation ban <user_id> <days> <reason>  - Ban a user; 0 days bans permanently
  moderation unban <user_id>                - Lift a user's ban`

var errUsage = errors.New(usageText)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usageText)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	thresholds, err := service.ThresholdsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid moderation thresholds: %v", err)
	}

	// Connected clients still hear about unbans when Redis is up.
	var publisher service.EventPublisher
	cache.InitRedis(cfg.RedisURL)
	if rdb := cache.GetClient(); rdb != nil {
		publisher = notifications.NewNotifier(rdb)
		defer func() { _ = rdb.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	strikes := service.NewStrikeService(db, thresholds, publisher)
	if err := run(ctx, os.Args[1:], strikes, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(usageText)
			os.Exit(1)
		}
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, args []string, strikes *service.StrikeService, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "reconcile-bans":
		n, err := strikes.ReconcileExpiredBans(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Lifted %d expired bans\n", n)

	case "recalc-strikes":
		if len(args) < 2 {
			return errUsage
		}
		if args[1] == "all" {
			n, err := strikes.RecalculateAllStrikeCounts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Recalculated strike counts for %d users\n", n)
			return nil
		}
		userID, err := parseUserID(args[1])
		if err != nil {
			return err
		}
		count, err := strikes.RecalculateStrikeCount(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ User %d has %d active strikes\n", userID, count)

	case "strikes":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		list, err := strikes.GetAllStrikes(ctx, userID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintf(out, "User %d has no strikes\n", userID)
			return nil
		}
		now := time.Now().UTC()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREASON\tSEVERITY\tCREATED\tEXPIRES\tACTIVE")
		for _, s := range list {
			expires := "never"
			if s.ExpiresAt != nil {
				expires = s.ExpiresAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
				s.ID, s.Reason, s.Severity, s.CreatedAt.Format(time.RFC3339), expires, s.IsActive(now))
		}
		return w.Flush()

	case "clear-strikes":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		if err := strikes.ClearAllStrikes(ctx, userID); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Cleared all strikes for user %d\n", userID)

	case "ban-status":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		status, err := strikes.CheckBanStatus(ctx, userID)
		if err != nil {
			return err
		}
		if !status.IsBanned {
			fmt.Fprintf(out, "User %d is not banned (%d active strikes)\n", userID, status.StrikeCount)
			return nil
		}
		reason := ""
		if status.BanReason != nil {
			reason = *status.BanReason
		}
		fmt.Fprintf(out, "User %d is banned: %s (remaining: %s, %d active strikes)\n",
			userID, reason, status.BanTimeRemaining, status.StrikeCount)

	case "ban":
		if len(args) < 4 {
			return errUsage
		}
		userID, err := parseUserID(args[1])
		if err != nil {
			return err
		}
		days, err := strconv.Atoi(args[2])
		if err != nil || days < 0 {
			return fmt.Errorf("invalid ban duration %q", args[2])
		}
		reason := strings.Join(args[3:], " ")
		if days == 0 {
			if err := strikes.PermaBan(ctx, userID, reason, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Permanently banned user %d\n", userID)
			return nil
		}
		until, err := strikes.TempBan(ctx, userID, days, reason, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Banned user %d until %s\n", userID, until.Format(time.RFC3339))

	case "unban":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		if err := strikes.Unban(ctx, userID); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Unbanned user %d\n", userID)

	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	return nil
}

func userArg(args []string) (uint, error) {
	if len(args) < 2 {
		return 0, errUsage
	}
	return parseUserID(args[1])
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user ID %q", raw)
	}
	return uint(id), nil
}
