package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RemoteStatus is the settlement state reported by the payments provider.
type RemoteStatus string

const (
	RemoteStatusPending RemoteStatus = "PENDING"
	RemoteStatusSettled RemoteStatus = "SETTLED"
)

// RemoteTransaction is one financial transaction as returned by the payments API.
// Fields the sync does not use are dropped during decoding.
type RemoteTransaction struct {
	CreatedAt       string       `json:"created_at"`
	SettledAt       string       `json:"settled_at,omitempty"`
	ID              string       `json:"id"`
	Currency        string       `json:"currency"`
	Status          RemoteStatus `json:"status"`
	BatchID         string       `json:"batch_id,omitempty"`
	SourceID        string       `json:"source_id,omitempty"`
	SourceType      string       `json:"source_type,omitempty"`
	TransactionType string       `json:"transaction_type,omitempty"`
	Description     string       `json:"description,omitempty"`
	FundingSourceID string       `json:"funding_source_id,omitempty"`
	Amount          json.Number  `json:"amount"`
	Net             json.Number  `json:"net,omitempty"`
	Fee             json.Number  `json:"fee,omitempty"`
}

// TransactionPage is one page of a paged transaction listing.
type TransactionPage struct {
	Items   []RemoteTransaction `json:"items"`
	HasMore bool                `json:"has_more"`
}

// LedgerStatus is the reconciliation state of a ledger row.
type LedgerStatus string

const (
	LedgerStatusPending LedgerStatus = "Pending"
	LedgerStatusSettled LedgerStatus = "Settled"
)

// LedgerTransaction is a bank-transaction record in the accounting store.
// RemoteSourceID is the dedup key; at most one row exists per value.
type LedgerTransaction struct {
	Date            time.Time    `db:"date"`
	CreatedAt       time.Time    `db:"created_at"`
	RemoteSourceID  string       `db:"remote_source_id"`
	Status          LedgerStatus `db:"status"`
	BankAccount     string       `db:"bank_account"`
	Currency        string       `db:"currency"`
	Deposit         string       `db:"deposit"`
	Withdrawal      string       `db:"withdrawal"`
	Description     string       `db:"description"`
	ReferenceNumber string       `db:"reference_number"`
	TransactionType string       `db:"transaction_type"`
	BatchID         string       `db:"batch_id"`
	SourceID        string       `db:"source_id"`
	ID              uuid.UUID    `db:"id"`
}

// IdempotencyKey tracks processed control requests so retries replay the stored response
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	RequestMethod  string    `db:"request_method"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
