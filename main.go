package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant/bot"
	"restaurant/config"
	"restaurant/db"
	"restaurant/internal/logging"
	"restaurant/services"
	"restaurant/storage"
	"restaurant/storage/postgres"
	"restaurant/storage/sqlite"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// `restaurant migrate` prepares the database and exits.
	migrateOnly := len(os.Args) > 1 && os.Args[1] == "migrate"

	store, err := openStore(ctx, cfg, log, migrateOnly || cfg.AutoMigrate)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer store.Close()

	catalog := services.NewCatalog(store)
	if cfg.SeedMenu || migrateOnly {
		if err := catalog.Seed(ctx); err != nil {
			log.WithError(err).Fatal("seed menu")
		}
	}
	if migrateOnly {
		log.Info("database ready")
		return
	}

	if cfg.Telegram.Token == "" {
		log.Fatal("TOKEN not set")
	}
	auth := services.NewAuth(store, log, 0)
	ledger := services.NewLedger(store, log)
	shell := bot.NewShell(auth, catalog, ledger, cfg.Session.IdleTimeout, log)

	b, err := bot.New(cfg.Telegram, shell, log)
	if err != nil {
		log.WithError(err).Fatal("bot")
	}
	b.Start(ctx)
}

// openStore connects to the configured backend. SQLite always migrates on
// open; PostgreSQL only when migrate is set.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger, migrate bool) (storage.Store, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := db.Open(ctx, db.ConnString(cfg.DB))
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if migrate {
			if err := db.ApplyMigrations(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return postgres.New(pool), nil
	default:
		return sqlite.Open(ctx, cfg.DB.SQLitePath)
	}
}
