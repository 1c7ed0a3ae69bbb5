package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	auction "auction-shop/internal/auctionService"
	"auction-shop/internal/auth"
	catalog "auction-shop/internal/catalogService"
	"auction-shop/internal/config"
	"auction-shop/internal/notify"
	prefs "auction-shop/internal/prefService"
	"auction-shop/internal/repository"
	"auction-shop/internal/repository/postgres"
	"auction-shop/internal/server"
	"auction-shop/internal/sweeper"
	"auction-shop/utils"
)

func main() {
	cfg := config.MustLoad()
	utils.SetLevel(cfg.LogLevel)

	auctionDB, catalogDB, prefDB := buildStorage(cfg)

	engine := auction.NewEngine(auctionDB)
	catalogStore := catalog.NewStore(catalogDB)
	prefStore := prefs.NewStore(prefDB, cfg.Defaults.Lang, cfg.Defaults.Theme)

	dispatcher := notify.NewDispatcher(buildNotifier(cfg), cfg.Telegram.AdminIDs)
	policy := auth.NewAdminList(cfg.Telegram.AdminIDs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep := sweeper.New(engine, dispatcher, cfg.Sweep.Interval)
	go sweep.Run(ctx)

	router := server.SetupRouter(server.Deps{
		Auctions:   engine,
		Catalog:    catalogStore,
		Prefs:      prefStore,
		Dispatcher: dispatcher,
		Policy:     policy,
	})

	addr := ":" + cfg.HTTPServer.Port
	utils.Info("starting auction shop server", map[string]any{
		"env":            cfg.Env,
		"addr":           addr,
		"storage":        cfg.Storage.Driver,
		"sweep_interval": cfg.Sweep.Interval.String(),
	})
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildStorage selects the configured repository backend
func buildStorage(cfg *config.Config) (repository.AuctionDB, repository.CatalogDB, repository.PreferenceDB) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewConnPool(&cfg.Storage.Postgres)
		if err != nil {
			utils.Fatal("failed to connect to postgres", map[string]any{"error": err.Error()})
		}
		storage, err := postgres.New(pool)
		if err != nil {
			utils.Fatal("failed to initialize postgres storage", map[string]any{"error": err.Error()})
		}
		return storage, storage, storage
	case "memory":
		repo := repository.NewMemoryRepo()
		return repo, repo, repo
	default:
		utils.Fatal("unknown storage driver", map[string]any{"driver": cfg.Storage.Driver})
		return nil, nil, nil
	}
}

// buildNotifier returns the Telegram notifier, or a logging stand-in when no
// bot token is configured
func buildNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.BotToken == "" {
		utils.Warn("no bot token configured, notifications will only be logged", nil)
		return notify.LogNotifier{}
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken)
	if err != nil {
		utils.Fatal("failed to authorize telegram bot", map[string]any{"error": err.Error()})
	}
	return notifier
}
