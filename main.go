package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tamo-orders/bot"
	"tamo-orders/catalog"
	"tamo-orders/config"
	"tamo-orders/db"
	"tamo-orders/logger"
	"tamo-orders/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.App.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(ctx, cfg); err != nil {
			logger.L().Errorw("migrate", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	menu, err := catalog.Default()
	if err != nil {
		logger.L().Errorw("load catalog", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openLedgerStore(ctx, cfg)
	if err != nil {
		logger.L().Errorw("open ledger", "backend", cfg.Ledger.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	b, err := bot.New(cfg, menu, services.NewLedger(store))
	if err != nil {
		logger.L().Errorw("bot", "error", err)
		os.Exit(1)
	}

	logger.L().Infow("bot started", "backend", cfg.Ledger.Backend, "categories", len(menu.Categories()))
	b.Start(ctx)
	logger.L().Info("bot stopped")
}

// openLedgerStore picks the storage backend. The returned func releases it.
func openLedgerStore(ctx context.Context, cfg *config.Config) (services.LedgerStore, func(), error) {
	if cfg.Ledger.Backend != config.BackendPostgres {
		return services.NewCSVLedgerStore(cfg.Ledger.Path), func() {}, nil
	}

	pool, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	// Set AUTO_MIGRATE=1 (or "true") to create the table on a fresh database.
	if cfg.Ledger.AutoMigrate {
		if err := applyMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return services.NewPostgresLedgerStore(pool), pool.Close, nil
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if cfg.Ledger.Backend != config.BackendPostgres {
		return fmt.Errorf("migrate needs LEDGER_BACKEND=%s", config.BackendPostgres)
	}
	pool, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return applyMigrations(ctx, pool)
}
