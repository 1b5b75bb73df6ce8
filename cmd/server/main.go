package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"resource_hub/internal/api"
	"resource_hub/internal/app/service"
	"resource_hub/internal/common/security"
	"resource_hub/internal/domain/repository"
	"resource_hub/internal/domain/repository/memrepo"
	"resource_hub/internal/platform/cache"
	"resource_hub/internal/platform/config"
	"resource_hub/internal/platform/database"
	"resource_hub/internal/platform/events"
	"resource_hub/internal/platform/logger"
)

type repositories struct {
	users     repository.UserRepository
	resources repository.ResourceRepository
	requests  repository.RequestRepository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		envFile       string
		storeDriver   string
		migrate       bool
		adminUsername string
		adminPassword string
	)
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "env file to load before reading the environment (default: .env if present)")
	flagSet.StringVar(&storeDriver, "store", "postgres", "storage driver: postgres or memory")
	flagSet.BoolVar(&migrate, "migrate", false, "create the database schema before serving")
	flagSet.StringVar(&adminUsername, "admin-username", "", "create this admin account at startup if it does not exist")
	flagSet.StringVar(&adminPassword, "admin-password", "", "password for --admin-username")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// 1. Load Configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage
	var repos repositories
	switch storeDriver {
	case "postgres":
		db, err := database.Connect(ctx, cfg.DBConnStr, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if migrate {
			if err := database.Migrate(ctx, db, log); err != nil {
				return err
			}
		}
		repos = repositories{
			users:     repository.NewPgUserRepository(db),
			resources: repository.NewPgResourceRepository(db),
			requests:  repository.NewPgRequestRepository(db),
		}
	case "memory":
		log.Warn("Using in-memory store; data is lost on restart")
		store := memrepo.New()
		repos = repositories{users: store.Users(), resources: store.Resources(), requests: store.Requests()}
	default:
		return fmt.Errorf("unknown store driver %q", storeDriver)
	}

	// 3. Initialize Redis login throttle
	var throttle service.LoginThrottle
	rdb, err := cache.ConnectRedis(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, login throttling disabled")
	} else {
		defer rdb.Close()
		throttle = cache.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	}

	// 4. Initialize event publisher
	publisher, err := events.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// 5. Initialize Services
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)
	authService := service.NewAuthService(repos.users, tokens, throttle, log)
	services := api.Services{
		Auth:      authService,
		Users:     service.NewUserService(repos.users, log),
		Resources: service.NewResourceService(repos.resources, publisher, log),
		Requests:  service.NewRequestService(repos.requests, publisher, log),
	}

	if adminUsername != "" {
		created, err := authService.EnsureAdmin(ctx, adminUsername, adminPassword)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.WithFields(logrus.Fields{"username": adminUsername, "created": created}).Info("Admin account ensured")
	}

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	}, tokens, services, log)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.APIPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen on %s: %w", cfg.APIPort, err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}
