package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"capbot/engine"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List open positions as the engine would reconcile them",
	Args:  cobra.NoArgs,
	RunE:  runPositions,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
}

func runPositions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	reported, err := buildBroker(cfg).GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("fetch positions: %w", err)
	}

	table := engine.Reconcile(buildUniverse(cfg), reported)
	if len(table) == 0 {
		fmt.Println("no open positions")
		return nil
	}

	fmt.Printf("%-8s %-5s %12s %12s %12s  %s\n", "SYMBOL", "DIR", "SIZE", "OPEN", "PROFIT", "DEAL")
	for _, p := range table {
		fmt.Printf("%-8s %-5s %12.4f %12.4f %12.2f  %s\n",
			p.Symbol, p.Direction, p.Size, p.OpenLevel, p.Profit, p.DealID)
	}
	return nil
}
