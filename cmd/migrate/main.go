// Command migrate inspects and changes the database schema.
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
	"syscall"

	"inkshelf/internal/config"
	"inkshelf/internal/database"

	"gorm.io/gorm"
)

const usageText = `usage: migrate <command>
  up               apply pending SQL migrations
  auto             run GORM automigrate for every persistent model
  status           show schema mode and pending migrations
  down <version>   roll back one applied migration`

var errUsage = errors.New(usageText)

type command func(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string, out io.Writer) error

var commands = map[string]command{
	"up":     migrateUp,
	"auto":   migrateAuto,
	"status": migrateStatus,
	"down":   migrateDown,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usageText)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintln(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, db, cfg, os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usageText)
			os.Exit(2)
		}
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func migrateUp(ctx context.Context, db *gorm.DB, _ *config.Config, _ []string, out io.Writer) error {
	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(out, "sql migrations applied")
	return nil
}

func migrateAuto(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string, out io.Writer) error {
	auto := *cfg
	auto.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, &auto); err != nil {
		return err
	}
	fmt.Fprintln(out, "automigrate complete")
	return nil
}

func migrateStatus(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string, out io.Writer) error {
	st, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "mode:      %s (%s)\n", st.Mode, st.Environment)
	fmt.Fprintf(out, "sql:       %t\n", st.WillRunSQL)
	fmt.Fprintf(out, "automigrate: %t\n", st.WillRunAutoMigrate)
	fmt.Fprintf(out, "applied:   %v\n", st.AppliedVersions)
	if len(st.PendingMigrations) == 0 {
		fmt.Fprintln(out, "pending:   none")
		return nil
	}
	for _, m := range st.PendingMigrations {
		fmt.Fprintf(out, "pending:   %s\n", m.String())
	}
	return nil
}

func migrateDown(ctx context.Context, db *gorm.DB, _ *config.Config, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	version, err := strconv.Atoi(args[0])
	if err != nil || version <= 0 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	if err := database.RollbackMigration(ctx, db, version); err != nil {
		return err
	}
	fmt.Fprintf(out, "rolled back %06d\n", version)
	return nil
}
