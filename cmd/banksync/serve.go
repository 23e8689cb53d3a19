package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benx421/bank-sync/internal/events"
	"github.com/benx421/bank-sync/internal/handlers"
	"github.com/benx421/bank-sync/internal/service"
	"github.com/benx421/bank-sync/internal/supervisor"
)

// idempotencyRetention is how long stored idempotent responses are replayed.
const idempotencyRetention = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control API, scheduler and sync worker",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("starting bank sync",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"setting", cfg.Sync.Name,
		"schedule", cfg.Sync.Schedule,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.register(ctx); err != nil {
		return err
	}
	if err := a.recoverStaleRun(ctx); err != nil {
		return err
	}

	worker := service.NewWorker(a.engine, a.guard, cfg.Sync.QueueSize, cfg.Sync.RunTimeout, logger)
	syncService := service.NewSyncService(a.settings, a.guard, worker, a.auth, cfg.Sync.Name, logger)
	scheduler := service.NewScheduler(syncService, cfg.Sync.CheckInterval, logger)
	monitor := events.NewMonitor(a.pubsub, logger)

	janitor := service.NewJanitor(time.Hour, logger)
	janitor.Add("integration_logs", a.logs, cfg.Audit.Retention)
	janitor.Add("idempotency_keys", a.idempotency, idempotencyRetention)

	handler := handlers.NewHandler(syncService, a.logs, monitor, a.database, logger)
	router, err := handlers.NewRouter(handler, a.idempotency, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree("bank-sync", supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	}, logger)
	tree.AddSyncService(monitor)
	tree.AddSyncService(worker)
	tree.AddSyncService(scheduler)
	tree.AddSyncService(janitor)
	tree.AddAPIService(supervisor.NewHTTPServerService("control-api", server, cfg.Server.ShutdownTimeout))

	done := tree.ServeBackground(ctx)
	logger.Info("server listening", "address", server.Addr)

	if cfg.Sync.SyncOldOnStart {
		startHistorical(ctx, syncService, cfg.Sync.FromDate, cfg.Sync.ToDate, logger)
	}

	err = <-done
	logger.Info("shutting down")

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort
	for _, svc := range unstopped {
		logger.Warn("service did not stop in time", "service", svc.Name)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("supervisor exited", "error", err)
		return err
	}

	logger.Info("server exited")
	return nil
}
