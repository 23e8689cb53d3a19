package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/payments"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Payments API credential commands",
}

var authTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Log in to the payments API with the configured credentials",
	RunE:  runAuthTest,
}

func init() {
	authCmd.AddCommand(authTestCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthTest(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	auth := payments.NewAuthenticator(models.Credentials{
		BaseURL:  cfg.Payments.BaseURL,
		ClientID: cfg.Payments.ClientID,
		APIKey:   cfg.Payments.APIKey,
	}, &http.Client{}, cfg.Payments.RequestTimeout)

	msg, err := auth.TestAuthentication(context.Background())
	cmd.Println(msg)
	return err
}
