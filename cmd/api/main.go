package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/passguard/passguard-go/internal/applock"
	"github.com/passguard/passguard-go/internal/biometric"
	"github.com/passguard/passguard-go/internal/config"
	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/generator"
	"github.com/passguard/passguard-go/internal/handler"
	"github.com/passguard/passguard-go/internal/middleware"
	"github.com/passguard/passguard-go/internal/pin"
	"github.com/passguard/passguard-go/internal/service"
	"github.com/passguard/passguard-go/internal/storage/bolt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	src := crypto.NewRandomSource()

	genService := service.NewGeneratorService(generator.New(src))
	genHandler := handler.NewGeneratorHandler(genService)

	strengthService := service.NewStrengthService()
	strengthHandler := handler.NewStrengthHandler(strengthService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/generate", genHandler.HandleGenerate)
	r.Post("/api/v1/strength", strengthHandler.HandleCalculate)

	// Open the encrypted store and wire the auth subsystem. The stateless
	// generator and strength routes stay up even if the store is broken.
	store, err := bolt.Open(cfg.StorePath, cfg.StorePassphrase, src)
	if err != nil {
		slog.Warn("store unavailable, pin and lock routes disabled", "error", err)
	} else {
		defer store.Close()

		pins := pin.New(store, src, crypto.SHA256Digest{})
		capability := biometric.StaticCapability{
			Hardware: cfg.BiometricHardware,
			Enrolled: cfg.BiometricEnrolled,
		}
		lock := applock.New(store, pins, capability)
		if _, err := lock.Initialize(context.Background()); err != nil {
			slog.Error("initializing lock state", "error", err)
			os.Exit(1)
		}

		authService := service.NewAuthService(pins, lock, cfg.JWTSecret, cfg.JWTExpiry)
		authHandler := handler.NewAuthHandler(authService)

		lockService := service.NewLockService(lock)
		lockHandler := handler.NewLockHandler(lockService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(2, 5))
			r.Post("/api/v1/pin/setup", authHandler.HandleSetup)
			r.Post("/api/v1/pin/verify", authHandler.HandleVerify)
			r.Post("/api/v1/pin/change", authHandler.HandleChange)
			r.Post("/api/v1/pin/remove", authHandler.HandleRemove)
		})

		// Status and lifecycle transitions are reachable before unlock:
		// the UI needs them to decide whether to show the challenge.
		r.Get("/api/v1/pin", authHandler.HandleStatus)
		r.Get("/api/v1/lock/status", lockHandler.HandleStatus)
		r.Post("/api/v1/lock/foreground", lockHandler.HandleForeground)
		r.Post("/api/v1/lock/background", lockHandler.HandleBackground)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.JWTSecret))
			r.Post("/api/v1/lock", lockHandler.HandleLock)
			r.Get("/api/v1/lock/settings", lockHandler.HandleGetSettings)
			r.Put("/api/v1/lock/settings", lockHandler.HandleUpdateSettings)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
