// Command main is the entry point for the inkshelf API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkshelf/internal/bootstrap"
	"inkshelf/internal/config"
	"inkshelf/internal/middleware"
	"inkshelf/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title inkshelf API
// @version 1.0
// @description Reading tracker API with library progress, content moderation, strikes and bans
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@inkshelf.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	seedDemo := flag.Bool("seed-demo", false, "Seed demo readers and books into an empty database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	flush, err := bootstrap.InitObservability(cfg, version)
	if err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedDemo: *seedDemo})
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("server shutdown error", "error", err)
		}
		flush(ctx)
	}()

	if err := srv.Start(); err != nil {
		middleware.Logger.Error("server stopped", "error", err)
		flush(context.Background())
		os.Exit(1)
	}
}
