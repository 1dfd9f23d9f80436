package cmd

import (
	"github.com/spf13/cobra"

	"capbot/broker"
	"capbot/broker/capital"
	"capbot/broker/sim"
	"capbot/config"
	"capbot/market"
)

var rootCmd = &cobra.Command{
	Use:   "capbot",
	Short: "A risk-sized trade execution engine for Capital.com margin accounts",
	Long: `Capbot runs a periodic trading loop against a margin broker.

Each cycle it fetches the account balance, reconciles open positions
against the broker, evaluates per-asset signals and submits at most one
risk-sized market order with attached stop and take-profit levels.

All local state is rebuilt from the broker on startup; nothing persists
across restarts except the trade journal.`,
	SilenceUsage: true,
}

var cfgPath string

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// demoBalance is the starting balance of the in-memory demo broker.
const demoBalance = 10000

func buildBroker(cfg *config.Config) broker.Broker {
	if cfg.Trading.Demo {
		return sim.New(demoBalance, cfg.Account.Currency)
	}
	return capital.NewClient(cfg.Credentials.APIKey, cfg.Credentials.APISecret, false)
}

// buildUniverse applies the per-class enable flags and leverage from
// config to the default instrument set.
func buildUniverse(cfg *config.Config) *market.Universe {
	full := market.DefaultAssets(cfg.Trading.CryptoLeverage, cfg.Trading.CommodityLeverage)

	var keep []market.Asset
	for _, a := range full.All() {
		switch a.Class {
		case market.Crypto:
			if cfg.Trading.EnableCrypto {
				keep = append(keep, a)
			}
		case market.Commodity:
			if cfg.Trading.EnableCommodities {
				keep = append(keep, a)
			}
		}
	}
	return market.NewUniverse(keep)
}
