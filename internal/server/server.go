// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "inkshelf/docs" // swagger docs
	"inkshelf/internal/bootstrap"
	"inkshelf/internal/config"
	"inkshelf/internal/database"
	"inkshelf/internal/featureflags"
	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/notifications"
	"inkshelf/internal/repository"
	"inkshelf/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const banStatusPath = "/api/users/me/ban-status"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	bookRepo    repository.BookRepository
	libraryRepo repository.LibraryRepository
	notifier    *notifications.Notifier
	hub         *notifications.Hub

	featureFlags      *featureflags.Manager
	strikeService     *service.StrikeService
	libraryService    *service.LibraryService
	moderationService *service.ModerationService
	reportService     *service.ReportService
	activityLogger    *service.ActivityLogger
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	return newServer(cfg, db, redisClient, middleware.InitMetrics("inkshelf-api"))
}

// newServer wires repositories and services. prom may be nil; the HTTP
// collectors register globally and can only be created once per process.
func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, prom *fiberprometheus.FiberPrometheus) (*Server, error) {
	thresholds, err := service.ThresholdsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation thresholds: %w", err)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       repository.NewUserRepository(db),
		bookRepo:       repository.NewBookRepository(db),
		libraryRepo:    repository.NewLibraryRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		hub:            notifications.NewHub(),
	}

	// A nil *Notifier must not end up inside the interface.
	var publisher service.EventPublisher
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		publisher = s.notifier
	}

	s.activityLogger = service.NewActivityLogger(repository.NewActivityRepository(db))
	s.strikeService = service.NewStrikeService(db, thresholds, publisher)
	s.libraryService = service.NewLibraryService(db, s.libraryRepo, s.bookRepo, s.activityLogger)
	s.reportService = service.NewReportService(db, s.strikeService, publisher)
	filter := service.NewContentFilter(
		config.TermList(cfg.ModerationProfanityTerms),
		config.TermList(cfg.ModerationHateTerms),
	)
	s.moderationService = service.NewModerationService(db, filter, s.strikeService, s.featureFlags)

	return s, nil
}

// StrikeService exposes the strike engine to the maintenance tooling.
func (s *Server) StrikeService() *service.StrikeService {
	return s.strikeService
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	if s.config.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public catalogue
	api.Get("/books/:id", s.GetBook)

	// Notification stream. Browsers cannot set headers on upgrade requests,
	// so the token may also come from the query string.
	api.Get("/ws", middleware.WebSocketAuthRequired, s.BanGuard(), s.upgradeRequired, s.NotificationsWebSocket())

	// Everything below requires a token and an account in good standing.
	protected := api.Group("", middleware.AuthRequired, s.BanGuard())

	users := protected.Group("/users")
	users.Get("/me/ban-status", s.GetMyBanStatus)
	users.Get("/me/activity", s.GetMyActivity)

	library := protected.Group("/library")
	library.Get("/", s.GetLibrary)
	library.Post("/", s.AddLibraryEntry)
	library.Get("/:bookId", s.GetLibraryEntry)
	library.Patch("/:bookId", s.UpdateLibraryEntry)
	library.Delete("/:bookId", s.DeleteLibraryEntry)

	protected.Post("/moderation/screen",
		middleware.RateLimit(s.redis, 30, time.Minute, "screen"), s.ScreenContent)
	protected.Post("/reports",
		middleware.RateLimit(s.redis, 10, 10*time.Minute, "reports"), s.CreateReport)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/reports", s.GetAdminReports)
	admin.Post("/reports/:id/resolve", s.ResolveAdminReport)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	adminUsers := admin.Group("/users")
	adminUsers.Get("/banned", s.GetBannedUsers)
	// Define specific /:id/:resource routes BEFORE the strike item route
	adminUsers.Post("/:id/strikes/recalculate", s.RecalculateUserStrikes)
	adminUsers.Get("/:id/strikes", s.GetUserStrikes)
	adminUsers.Post("/:id/strikes", s.IssueStrike)
	adminUsers.Delete("/:id/strikes", s.ClearUserStrikes)
	adminUsers.Delete("/:id/strikes/:strikeId", s.RemoveUserStrike)
	adminUsers.Post("/:id/ban", s.BanUser)
	adminUsers.Post("/:id/unban", s.UnbanUser)
	adminUsers.Get("/:id/ban-status", s.GetUserBanStatus)
	adminUsers.Get("/:id/moderated-content", s.GetUserModeratedContent)
}

// App builds the Fiber application with middleware and routes attached.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "inkshelf-api",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, err)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
	s.app = s.App()

	// Deliver published events to sockets connected to this instance.
	if s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring", "hub", s.hub.Name(), "error", err)
			}
		}()
	}

	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", "hub", s.hub.Name(), "error", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				middleware.Logger.Error("error closing database", "error", err)
			}
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// BanGuard rejects requests from banned users with 403 and the ban details.
// The status lookup clears a temporary ban that has run out, so an expired
// ban never blocks a request. Banned users may still read their own status.
func (s *Server) BanGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet && c.Path() == banStatusPath {
			return c.Next()
		}

		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return c.Next()
		}

		status, err := s.strikeService.CheckBanStatus(c.UserContext(), userID)
		if err != nil {
			if models.IsNotFound(err) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		if !status.IsBanned {
			return c.Next()
		}

		banned := models.NewBannedError()
		return c.Status(banned.HTTPStatus()).JSON(fiber.Map{
			"error":              banned.Message,
			"code":               banned.Code,
			"is_permanent":       status.IsPermanent,
			"ban_reason":         status.BanReason,
			"banned_until":       status.BannedUntil,
			"ban_time_remaining": status.BanTimeRemaining,
		})
	}
}
