package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"capbot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query trade records from the SQLite journal.

Examples:
  capbot journal recent
  capbot journal day 2026-08-31
  capbot journal trade 01J7...`,
}

var journalRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalRecent,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades executed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <id>",
	Short: "Show one trade record",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRecentCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./capbot.sqlite", "path to SQLite journal DB")
	journalRecentCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of trades to list")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRecent(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades(journalLimit)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	start, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesBetween(start, start.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Printf("ID:         %s\n", rec.ID)
	fmt.Printf("Time:       %s\n", rec.Time.Format(time.RFC3339))
	fmt.Printf("Symbol:     %s (%s)\n", rec.Symbol, rec.Epic)
	fmt.Printf("Direction:  %s\n", rec.Direction)
	fmt.Printf("Size:       %.4f @ %.4f (leverage %.0f:1)\n", rec.Size, rec.EntryPrice, rec.Leverage)
	fmt.Printf("Stop:       %.4f\n", rec.StopLevel)
	fmt.Printf("Target:     %.4f\n", rec.ProfitLevel)
	fmt.Printf("Deal ref:   %s\n", rec.DealReference)
	fmt.Printf("Rationale:  %s\n", rec.Rationale)
	return nil
}

func printTrades(recs []journal.TradeRecord) {
	if len(recs) == 0 {
		fmt.Println("no trades")
		return
	}
	for _, r := range recs {
		fmt.Printf("%s  %-8s %-4s %10.4f @ %10.4f  ref=%s\n",
			r.Time.Format("2006-01-02 15:04:05"), r.Symbol, r.Direction, r.Size, r.EntryPrice, r.DealReference)
	}
}
