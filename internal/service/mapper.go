package service

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
)

// ledgerNamespace seeds the deterministic ledger ids derived from remote ids.
var ledgerNamespace = uuid.MustParse("6f1e7c4a-3b2d-4e8f-9a61-0c5d2b7e8f13")

// AccountMap resolves a provider funding source id to a ledger bank account.
type AccountMap map[string]string

// Mapper converts remote transactions to ledger rows. It performs no I/O and
// the same input always yields the same output.
type Mapper struct {
	accounts       AccountMap
	defaultAccount string
}

// NewMapper creates a Mapper. defaultAccount is used for funding sources
// missing from accounts and may be empty.
func NewMapper(accounts AccountMap, defaultAccount string) *Mapper {
	copied := make(AccountMap, len(accounts))
	for k, v := range accounts {
		copied[k] = v
	}
	return &Mapper{accounts: copied, defaultAccount: defaultAccount}
}

// Map builds the ledger row for rt. Positive amounts become deposits and
// negative amounts withdrawals, both as absolute two-decimal strings.
func (m *Mapper) Map(rt models.RemoteTransaction) (*models.LedgerTransaction, error) {
	if strings.TrimSpace(rt.ID) == "" {
		return nil, ErrMissingRemoteID
	}

	amount, ok := new(big.Rat).SetString(rt.Amount.String())
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", rt.Amount.String())
	}

	date, err := parseCreatedDate(rt.CreatedAt)
	if err != nil {
		return nil, err
	}

	deposit, withdrawal := "0.00", "0.00"
	switch amount.Sign() {
	case 1:
		deposit = amount.FloatString(2)
	case -1:
		withdrawal = new(big.Rat).Abs(amount).FloatString(2)
	}

	status := models.LedgerStatusPending
	if rt.Status == models.RemoteStatusSettled {
		status = models.LedgerStatusSettled
	}

	description := rt.Description
	if description == "" {
		description = strings.TrimSpace(rt.TransactionType + " " + rt.SourceType)
	}

	return &models.LedgerTransaction{
		ID:              uuid.NewSHA1(ledgerNamespace, []byte(rt.ID)),
		RemoteSourceID:  rt.ID,
		Date:            date,
		Status:          status,
		BankAccount:     m.account(rt.FundingSourceID),
		Currency:        strings.ToUpper(rt.Currency),
		Deposit:         deposit,
		Withdrawal:      withdrawal,
		Description:     description,
		ReferenceNumber: rt.ID,
		TransactionType: rt.TransactionType,
		BatchID:         rt.BatchID,
		SourceID:        rt.SourceID,
	}, nil
}

func (m *Mapper) account(fundingSourceID string) string {
	if acc, ok := m.accounts[fundingSourceID]; ok && fundingSourceID != "" {
		return acc
	}
	return m.defaultAccount
}

// parseCreatedDate takes the calendar date of an ISO-8601 timestamp as the
// provider reports it, without shifting time zones.
func parseCreatedDate(createdAt string) (time.Time, error) {
	if len(createdAt) < len(time.DateOnly) {
		return time.Time{}, fmt.Errorf("invalid created_at %q", createdAt)
	}
	date, err := time.Parse(time.DateOnly, createdAt[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	return date, nil
}
