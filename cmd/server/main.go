package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/config"
	"github.com/benjamibono/siam-may-sub000/internal/handler"
	"github.com/benjamibono/siam-may-sub000/internal/logger"
	appMiddleware "github.com/benjamibono/siam-may-sub000/internal/middleware"
	"github.com/benjamibono/siam-may-sub000/internal/repository"
	"github.com/benjamibono/siam-may-sub000/internal/service"
	"github.com/benjamibono/siam-may-sub000/pkg/crypto"
	"github.com/benjamibono/siam-may-sub000/pkg/payment"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zlog.Sync()
	handler.SetLogger(zlog)

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database error", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		zlog.Fatal("migration error", zap.Error(err))
	}
	zlog.Info("database connected and migrated")

	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		zlog.Fatal("encryption error", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	classRepo := repository.NewClassRepository(db)

	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, userRepo, enc, zlog)
	if err := authSvc.SeedAdmin(ctx); err != nil {
		zlog.Fatal("admin seed error", zap.Error(err))
	}

	membershipSvc := service.NewMembershipService(userRepo, paymentRepo, classRepo, zlog)
	classSvc := service.NewClassService(classRepo, membershipSvc)

	gateway := payment.NewMockGateway()
	paymentSvc := service.NewPaymentService(paymentRepo, userRepo, membershipSvc, gateway, zlog)

	scheduler := service.NewScheduler(membershipSvc, classRepo, zlog, cfg.CycleInterval)
	scheduler.Start(ctx)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(authSvc, membershipSvc)
	classHandler := handler.NewClassHandler(classSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	feesHandler := handler.NewFeesHandler()
	healthHandler := handler.NewHealthHandler(db)
	adminHandler := handler.NewAdminHandler(db, zlog)
	cronHandler := handler.NewCronHandler(scheduler, cfg.CronSecret)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery(zlog))
	r.Use(appMiddleware.Logger(zlog))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Public routes (no auth)
	r.Get("/health", healthHandler.Check)
	r.Get("/api/fees", feesHandler.List)
	r.Post("/api/payments/webhook", paymentHandler.Webhook)
	r.Post("/api/cron/membership", cronHandler.RefreshMemberships)
	r.Post("/api/cron/class-reset", cronHandler.ResetClasses)

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		// Auth
		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)

		// Membership
		r.Get("/api/profile/status", userHandler.ProfileStatus)

		// Classes
		r.Get("/api/classes", classHandler.List)
		r.Get("/api/classes/{id}", classHandler.Get)
		r.Post("/api/classes/{id}/enroll", classHandler.Enroll)
		r.Delete("/api/classes/{id}/enroll", classHandler.Unenroll)

		// Payments
		r.Get("/api/payments/mine", paymentHandler.ListMine)
		r.Post("/api/payments/checkout", paymentHandler.Checkout)

		// Staff routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.StaffOnly)

			r.Post("/api/classes", classHandler.Create)
			r.Put("/api/classes/{id}", classHandler.Update)
			r.Delete("/api/classes/{id}", classHandler.Delete)
			r.Get("/api/classes/{id}/roster", classHandler.Roster)

			r.Post("/api/payments", paymentHandler.Create)
			r.Delete("/api/payments/{id}", paymentHandler.Delete)
			r.Get("/api/users/{id}/payments", paymentHandler.ListByUser)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)

			r.Get("/api/users", userHandler.List)
			r.Post("/api/users", userHandler.Create)
			r.Get("/api/users/{id}", userHandler.Get)
			r.Delete("/api/users/{id}", userHandler.Delete)
			r.Put("/api/users/{id}/medical", userHandler.UpdateMedical)
			r.Get("/api/users/{id}/medical", userHandler.GetMedical)

			r.Get("/api/admin/stats", adminHandler.GetStats)
		})
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		zlog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	zlog.Info("server listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		zlog.Fatal("server error", zap.Error(err))
	}
}
