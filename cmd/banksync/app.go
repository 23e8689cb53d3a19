package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dgraph-io/badger/v4"

	"github.com/benx421/bank-sync/internal/config"
	"github.com/benx421/bank-sync/internal/db"
	"github.com/benx421/bank-sync/internal/events"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/payments"
	"github.com/benx421/bank-sync/internal/repository"
	"github.com/benx421/bank-sync/internal/service"
	"github.com/benx421/bank-sync/internal/tokenstore"
)

const progressBuffer = 64

// app holds the collaborators shared by serve and sync.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	database *db.DB
	badger   *badger.DB
	pubsub   *gochannel.GoChannel

	settings    repository.SettingsRepository
	logs        repository.IntegrationLogRepository
	idempotency repository.IdempotencyRepository

	auth   *payments.Authenticator
	guard  *service.RunGuard
	engine *service.Engine
}

// newApp connects to the database, applies migrations and wires the sync
// engine. The caller must call close.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, database: database}

	if err := database.Migrate(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := a.openTokenStore()
	if err != nil {
		a.close()
		return nil, err
	}

	a.settings = repository.NewSettingsRepository(database)
	a.logs = repository.NewIntegrationLogRepository(database)
	a.idempotency = repository.NewIdempotencyRepository(database)

	creds := models.Credentials{
		BaseURL:  cfg.Payments.BaseURL,
		ClientID: cfg.Payments.ClientID,
		APIKey:   cfg.Payments.APIKey,
	}

	transport := http.DefaultTransport
	var audit payments.Recorder
	if cfg.Audit.Enabled {
		transport = &payments.RecordingTransport{
			Base:     http.DefaultTransport,
			Recorder: a.logs,
			Redactor: payments.NewRedactor(creds.APIKey, creds.ClientID),
			Logger:   logger,
		}
		audit = a.logs
	}

	a.auth = payments.NewAuthenticator(creds, &http.Client{Transport: transport}, cfg.Payments.RequestTimeout)
	tokens := payments.NewTokenCache(a.auth, store, payments.TokenCacheOptions{
		Key:          cfg.Sync.Name,
		TTL:          cfg.TokenCache.TTL,
		ExpiryBuffer: cfg.TokenCache.ExpiryBuffer,
	}, logger)

	client := payments.NewTransactionClient(payments.ClientConfig{
		BaseURL:           cfg.Payments.BaseURL,
		APIKey:            creds.APIKey,
		ClientID:          creds.ClientID,
		Timeout:           cfg.Payments.RequestTimeout,
		RetryBaseDelay:    cfg.Payments.RetryBaseDelay,
		MaxRetryDelay:     cfg.Payments.MaxRetryDelay,
		BreakerTimeout:    cfg.Payments.BreakerTimeout,
		RequestsPerSecond: cfg.Payments.RequestsPerSecond,
		Burst:             cfg.Payments.Burst,
		MaxRetries:        cfg.Payments.MaxRetries,
		BreakerFailures:   cfg.Payments.BreakerFailures,
	}, tokens, transport, logger)

	a.pubsub = events.NewGoChannel(progressBuffer, logger)
	a.guard = service.NewRunGuard(a.settings, logger)
	a.engine = service.NewEngine(service.EngineDeps{
		Tokens:    tokens,
		Lister:    client,
		Ledger:    repository.NewLedgerRepository(database),
		Settings:  a.settings,
		Guard:     a.guard,
		Mapper:    service.NewMapper(cfg.Sync.AccountMappings, cfg.Sync.DefaultAccount),
		Publisher: events.NewPublisher(a.pubsub),
		Audit:     audit,
	}, cfg.Payments.PageSize, logger)

	return a, nil
}

func (a *app) openTokenStore() (tokenstore.Store, error) {
	if a.cfg.TokenCache.Backend != "badger" {
		return tokenstore.NewMemoryStore(), nil
	}
	bdb, err := tokenstore.OpenBadger(a.cfg.TokenCache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	a.badger = bdb
	return tokenstore.NewBadgerStore(bdb), nil
}

// register creates or refreshes the integration setting from configuration.
func (a *app) register(ctx context.Context) error {
	schedule := models.Cadence(a.cfg.Sync.Schedule)
	if err := a.settings.Ensure(ctx, a.cfg.Sync.Name, a.cfg.Sync.Enabled, schedule); err != nil {
		return fmt.Errorf("failed to register integration setting: %w", err)
	}
	return nil
}

// recoverStaleRun fails a run whose process died without releasing it. A run
// still making progress in another process is left alone.
func (a *app) recoverStaleRun(ctx context.Context) error {
	return a.guard.Recover(ctx, a.cfg.Sync.Name, a.cfg.Sync.RunTimeout)
}

func (a *app) close() {
	var errs []error
	if a.pubsub != nil {
		errs = append(errs, a.pubsub.Close())
	}
	if a.badger != nil {
		errs = append(errs, a.badger.Close())
	}
	if a.database != nil {
		errs = append(errs, a.database.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("error during shutdown", "error", err)
	}
}
