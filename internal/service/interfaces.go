package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/payments"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// TokenProvider hands out a usable bearer token.
type TokenProvider interface {
	GetValidToken(ctx context.Context) (models.Token, error)
}

// TransactionLister reads one page of remote transactions.
type TransactionLister interface {
	ListPage(ctx context.Context, params payments.ListParams) (*models.TransactionPage, error)
}

// ProgressPublisher receives per-page progress and the final run summary.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event models.ProgressEvent) error
	PublishComplete(ctx context.Context, event models.ProgressEvent) error
}

// AuthTester checks the configured credentials and describes the outcome.
type AuthTester interface {
	TestAuthentication(ctx context.Context) (string, error)
}

// Runner executes one sync run to a terminal state. runID is the id the
// run's guard was acquired under.
type Runner interface {
	Execute(ctx context.Context, setting string, runID uuid.UUID, window models.SyncWindow) models.RunState
}

// JobQueue accepts sync jobs for background execution.
type JobQueue interface {
	Enqueue(job Job) error
}

// SyncController handles the operator-facing operations of a setting.
type SyncController interface {
	Start(ctx context.Context, window models.SyncWindow) (*StartResult, error)
	Restart(ctx context.Context, window models.SyncWindow) (*StartResult, error)
	Stop(ctx context.Context) error
	Status(ctx context.Context) (*models.Settings, error)
	TestAuthentication(ctx context.Context) (string, error)
}

// Ensure concrete types implement interfaces
var (
	_ TokenProvider     = (*payments.TokenCache)(nil)
	_ TransactionLister = (*payments.TransactionClient)(nil)
	_ AuthTester        = (*payments.Authenticator)(nil)
	_ Runner            = (*Engine)(nil)
	_ JobQueue          = (*Worker)(nil)
	_ SyncController    = (*SyncService)(nil)
)
