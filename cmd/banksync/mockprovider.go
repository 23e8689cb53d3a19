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

	"github.com/benx421/bank-sync/internal/mockprovider"
	"github.com/benx421/bank-sync/internal/supervisor"
)

var mockSeed uint64

var mockProviderCmd = &cobra.Command{
	Use:   "mock-provider",
	Short: "Serve a local fake of the payments API",
	Long: `Serves /authentication/login and /financial_transactions on the
mock_provider port with generated transactions spread over the last 30 days.
Latency and random failures are injected per the mock_provider settings.`,
	RunE: runMockProvider,
}

func init() {
	mockProviderCmd.Flags().Uint64Var(&mockSeed, "seed", 1, "seed for the generated transactions")
	rootCmd.AddCommand(mockProviderCmd)
}

func runMockProvider(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	mp := &cfg.MockProvider

	provider := mockprovider.New(mp, logger)
	provider.Add(mockprovider.Generate(mp.Transactions, time.Now().UTC(), mockSeed)...)

	server := &http.Server{
		Addr:              ":" + mp.Port,
		Handler:           provider.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mock provider listening",
		"address", server.Addr,
		"transactions", provider.Len(),
		"failure_rate", mp.FailureRate,
		"client_id", mp.ClientID,
	)

	svc := supervisor.NewHTTPServerService("mock-provider", server, cfg.Server.ShutdownTimeout)
	if err := svc.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("mock provider stopped")
	return nil
}
