package db

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sync_settings (
		name              VARCHAR(140) PRIMARY KEY,
		enabled           BOOLEAN      NOT NULL DEFAULT FALSE,
		sync_schedule     VARCHAR(20)  NOT NULL DEFAULT 'Daily',
		status            VARCHAR(30)  NOT NULL DEFAULT 'Not Started',
		from_date         DATE,
		to_date           DATE,
		processed_records INTEGER      NOT NULL DEFAULT 0,
		total_records     INTEGER      NOT NULL DEFAULT 0,
		created_records   INTEGER      NOT NULL DEFAULT 0,
		error_records     INTEGER      NOT NULL DEFAULT 0,
		progress          NUMERIC(5,2) NOT NULL DEFAULT 0,
		last_sync_at      TIMESTAMPTZ,
		last_completed_at TIMESTAMPTZ,
		updated_at        TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE sync_settings ADD COLUMN IF NOT EXISTS run_id UUID`,
	`ALTER TABLE sync_settings ADD COLUMN IF NOT EXISTS stop_requested BOOLEAN NOT NULL DEFAULT FALSE`,
	`CREATE TABLE IF NOT EXISTS ledger_transactions (
		id               UUID          PRIMARY KEY,
		remote_source_id VARCHAR(255)  NOT NULL,
		date             DATE          NOT NULL,
		status           VARCHAR(20)   NOT NULL,
		bank_account     VARCHAR(140)  NOT NULL DEFAULT '',
		currency         VARCHAR(3)    NOT NULL,
		deposit          NUMERIC(20,2) NOT NULL DEFAULT 0,
		withdrawal       NUMERIC(20,2) NOT NULL DEFAULT 0,
		description      TEXT          NOT NULL DEFAULT '',
		reference_number VARCHAR(255)  NOT NULL DEFAULT '',
		transaction_type VARCHAR(60)   NOT NULL DEFAULT '',
		batch_id         VARCHAR(255)  NOT NULL DEFAULT '',
		source_id        VARCHAR(255)  NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_transactions_remote_source_id
		ON ledger_transactions(remote_source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_date
		ON ledger_transactions(date)`,
	`CREATE TABLE IF NOT EXISTS integration_logs (
		id              UUID         PRIMARY KEY,
		status          VARCHAR(10)  NOT NULL,
		status_code     INTEGER      NOT NULL DEFAULT 0,
		method          VARCHAR(10)  NOT NULL DEFAULT '',
		url             TEXT         NOT NULL DEFAULT '',
		request_headers JSONB        NOT NULL DEFAULT '{}',
		request_data    TEXT         NOT NULL DEFAULT '',
		response_data   TEXT         NOT NULL DEFAULT '',
		message         TEXT         NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_integration_logs_created_at
		ON integration_logs(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key             VARCHAR(255) NOT NULL,
		request_path    TEXT         NOT NULL,
		request_method  VARCHAR(10)  NOT NULL,
		response_status INTEGER      NOT NULL,
		response_body   TEXT         NOT NULL,
		created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		PRIMARY KEY (key, request_path)
	)`,
}

// Migrate creates the tables the service needs.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	db.logger.Info("migrations completed", "statements", len(schema))
	return nil
}
