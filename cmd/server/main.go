package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tabmate/tabmate/internal/auth"
	"github.com/tabmate/tabmate/internal/config"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/recurring"
	"github.com/tabmate/tabmate/internal/reports"
	"github.com/tabmate/tabmate/internal/server"
	"github.com/tabmate/tabmate/internal/service"
	"github.com/tabmate/tabmate/internal/storage/sqlite"
	"github.com/tabmate/tabmate/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	hub := notify.NewHub()
	notifier := notify.Multi{notify.LogNotifier{}, hub}

	ledger := service.NewLedgerService(store)
	expenses := service.NewExpenseService(store, notifier, nil)

	deps := server.Deps{
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWT:           auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Groups:        service.NewGroupService(store),
		Expenses:      expenses,
		Settlements:   service.NewSettlementService(store, ledger, notifier),
		Ledger:        ledger,
		Budgets:       service.NewBudgetService(store, ledger),
		Recurring:     recurring.NewService(store),
		Reports:       reports.NewGenerator(store, ledger),
		Hub:           hub,
	}

	generator := recurring.NewGenerator(store, expenses)
	if err := generator.Start(); err != nil {
		slog.Error("Failed to start recurring scheduler", "error", err)
		os.Exit(1)
	}
	defer generator.Stop()

	srv, app := server.New(cfg, deps)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		slog.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Server starting", "address", srv.Addr())
	if err := app.Listen(srv.Addr()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
