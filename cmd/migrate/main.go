package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"resource_hub/internal/app/service"
	"resource_hub/internal/common/security"
	"resource_hub/internal/domain/repository"
	"resource_hub/internal/platform/config"
	"resource_hub/internal/platform/database"
	"resource_hub/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, adminUsername, adminPassword string
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "env file to load before reading the environment")
	flagSet.StringVar(&adminUsername, "admin-username", "", "seed an admin account with this username")
	flagSet.StringVar(&adminPassword, "admin-password", "", "password for --admin-username")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if adminUsername != "" && adminPassword == "" {
		return errors.New("--admin-password is required with --admin-username")
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DBConnStr, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		return err
	}
	if adminUsername == "" {
		return nil
	}

	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)
	auth := service.NewAuthService(repository.NewPgUserRepository(db), tokens, nil, log)
	created, err := auth.EnsureAdmin(ctx, adminUsername, adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.WithFields(logrus.Fields{"username": adminUsername, "created": created}).Info("Admin account ensured")
	return nil
}
