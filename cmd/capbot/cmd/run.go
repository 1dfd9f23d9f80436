package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"capbot/config"
	"capbot/engine"
	"capbot/journal"
	"capbot/logger"
	"capbot/market"
	botsignal "capbot/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop",
	Long: `Run the reconcile/decide/execute loop until interrupted.

Credentials come from the environment (CAPITAL_API_KEY,
CAPITAL_API_SECRET, CAPITAL_ACCOUNT_ID); everything else from the
config file or its defaults. With demo mode enabled (the default) an
in-memory broker is used and no real orders are placed.

Example:
  capbot run -f capbot.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Debug, cfg.Log.JSONFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	jrnl, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	conv, err := market.NewConverter(cfg.Account.Currency, "USD", cfg.Account.QuoteRate)
	if err != nil {
		return fmt.Errorf("converter: %w", err)
	}

	universe := buildUniverse(cfg)
	if universe.Len() == 0 {
		return fmt.Errorf("no asset class enabled")
	}

	src := botsignal.NewSimulated(cfg.Trading.StopPct, cfg.Trading.TargetPct, time.Now().UnixNano())

	eng := engine.New(engine.Config{
		AccountID:     cfg.Credentials.AccountID,
		RiskPerTrade:  cfg.Trading.RiskPerTrade,
		MaxOpenTrades: cfg.Trading.MaxOpenTrades,
		StopPct:       cfg.Trading.StopPct,
		TargetPct:     cfg.Trading.TargetPct,
		Interval:      cfg.Interval(),
		ErrorCooldown: cfg.ErrorCooldown(),
	}, buildBroker(cfg), src, jrnl, universe, conv)

	// The scheduler runs in the background; this goroutine only keeps
	// the process alive and forwards the interrupt as a stop request.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	eng.Stop()
	<-done
	return nil
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "none":
		return journal.Noop{}, nil
	default:
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
}
