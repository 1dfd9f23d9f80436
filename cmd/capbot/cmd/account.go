package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"capbot/market"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Fetch and display the account snapshot",
	Args:  cobra.NoArgs,
	RunE:  runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	conv, err := market.NewConverter(cfg.Account.Currency, "USD", cfg.Account.QuoteRate)
	if err != nil {
		return fmt.Errorf("converter: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	acct, err := buildBroker(cfg).GetAccount(ctx, cfg.Credentials.AccountID)
	if err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}

	fmt.Printf("Balance:     %.2f %s (%.2f %s)\n",
		acct.Balance, acct.Currency, conv.ToQuote(acct.Balance), conv.QuoteCurrency)
	fmt.Printf("Available:   %.2f %s\n", acct.Available, acct.Currency)
	fmt.Printf("Profit/Loss: %.2f %s\n", acct.ProfitLoss, acct.Currency)
	return nil
}
