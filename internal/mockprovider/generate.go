package mockprovider

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
)

var fixtureNamespace = uuid.MustParse("0f0c6d3e-6a1b-4c55-9a53-5e7c1f2a9b10")

var (
	currencies     = []string{"USD", "USD", "USD", "EUR", "GBP"}
	fundingSources = []string{"fs_checking", "fs_savings", "fs_payroll"}
)

type txKind struct {
	sourceType      string
	transactionType string
	description     string
	sign            int
}

var kinds = []txKind{
	{"PAYMENT_ATTEMPT", "PAYMENT", "Card payment", 1},
	{"PAYMENT_ATTEMPT", "PAYMENT", "", 1},
	{"DEPOSIT", "DEPOSIT", "Incoming transfer", 1},
	{"REFUND", "REFUND", "Customer refund", -1},
	{"PAYOUT", "PAYOUT", "Payout to bank", -1},
	{"FEE", "FEE", "", -1},
}

// Generate builds n transactions spread over the 30 days before end. The
// same seed always yields the same set, including ids.
func Generate(n int, end time.Time, seed uint64) []models.RemoteTransaction {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	end = end.UTC().Truncate(time.Second)
	span := int64(30 * 24 * time.Hour / time.Second)

	out := make([]models.RemoteTransaction, 0, n)
	for i := range n {
		kind := kinds[rng.IntN(len(kinds))]
		createdAt := end.Add(-time.Duration(rng.Int64N(span)) * time.Second)

		cents := int64(100 + rng.IntN(150000))
		feeCents := cents * int64(rng.IntN(4)) / 100
		if kind.sign < 0 {
			cents, feeCents = -cents, 0
		}

		status := models.RemoteStatusSettled
		settledAt := createdAt.Add(time.Duration(1+rng.IntN(48)) * time.Hour).Format(time.RFC3339)
		if rng.IntN(5) == 0 {
			status, settledAt = models.RemoteStatusPending, ""
		}

		out = append(out, models.RemoteTransaction{
			ID:              uuid.NewSHA1(fixtureNamespace, fmt.Appendf(nil, "%d/%d", seed, i)).String(),
			CreatedAt:       createdAt.Format(time.RFC3339),
			SettledAt:       settledAt,
			Currency:        currencies[rng.IntN(len(currencies))],
			Status:          status,
			Amount:          money(cents),
			Fee:             money(feeCents),
			Net:             money(cents - feeCents),
			BatchID:         "batch_" + createdAt.Format("20060102"),
			SourceID:        fmt.Sprintf("src_%08x", rng.Uint32()),
			SourceType:      kind.sourceType,
			TransactionType: kind.transactionType,
			Description:     kind.description,
			FundingSourceID: fundingSources[rng.IntN(len(fundingSources))],
		})
	}
	return out
}

func money(cents int64) json.Number {
	return json.Number(strconv.FormatFloat(float64(cents)/100, 'f', 2, 64))
}
