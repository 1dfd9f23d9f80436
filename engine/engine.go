// Package engine owns the trading loop: per-cycle account fetch,
// position reconciliation against broker truth, signal evaluation and
// risk-sized order execution. The engine's position table is a cache of
// the broker listing, rebuilt every cycle, never mutated optimistically.
package engine

import (
	"context"
	"fmt"
	"time"

	"capbot/broker"
	"capbot/journal"
	"capbot/logger"
	"capbot/market"
	"capbot/pkg/id"
	"capbot/risk"
	"capbot/signal"
)

// Position is one reconciled open position, keyed by asset symbol in the
// engine's table. At most one per symbol.
type Position struct {
	Symbol    string
	DealID    string
	Direction broker.Direction
	Size      float64
	OpenLevel float64
	Profit    float64
}

// Config holds the engine's trading parameters, already validated by the
// config package.
type Config struct {
	AccountID     string
	RiskPerTrade  float64
	MaxOpenTrades int
	StopPct       float64 // fallback stop distance when a signal has no level
	TargetPct     float64
	Interval      time.Duration
	ErrorCooldown time.Duration
}

// submitPause separates consecutive submissions so exposure grows one
// auditable trade at a time and the broker's rate limits stay cold.
const submitPause = 2 * time.Second

// maxTradesPerCycle caps new submissions per cycle across all assets.
const maxTradesPerCycle = 1

type Engine struct {
	cfg     Config
	brk     broker.Broker
	source  signal.Source
	jrnl    journal.Journal
	assets  *market.Universe
	conv    *market.Converter

	positions map[string]Position
	cycle     int

	state *stateFlag
	sleep func(context.Context, time.Duration)
}

func New(cfg Config, brk broker.Broker, src signal.Source, jrnl journal.Journal, assets *market.Universe, conv *market.Converter) *Engine {
	return &Engine{
		cfg:       cfg,
		brk:       brk,
		source:    src,
		jrnl:      jrnl,
		assets:    assets,
		conv:      conv,
		positions: make(map[string]Position),
		state:     newStateFlag(),
		sleep:     sleepCtx,
	}
}

// Positions returns a copy of the current table.
func (e *Engine) Positions() map[string]Position {
	out := make(map[string]Position, len(e.positions))
	for k, v := range e.positions {
		out[k] = v
	}
	return out
}

// Cycle runs one full reconcile/decide/execute pass. An error return
// means the cycle aborted (transport failure); the scheduler applies the
// error cooldown. Per-asset problems are handled inside and never abort
// the pass.
func (e *Engine) Cycle(ctx context.Context) error {
	e.cycle++

	e.state.set(StateFetching)
	acct, err := e.brk.GetAccount(ctx, e.cfg.AccountID)
	if err != nil {
		// Unknown balance, not zero. Nothing below may run with a
		// guessed balance.
		return fmt.Errorf("fetch account: %w", err)
	}

	logger.Infow("account snapshot",
		"cycle", e.cycle,
		"balance", acct.Balance,
		"currency", acct.Currency,
		"quote_value", e.conv.ToQuote(acct.Balance),
		"quote_currency", e.conv.QuoteCurrency,
		"available", acct.Available,
		"profit_loss", acct.ProfitLoss,
	)

	if err := e.jrnl.RecordEquity(journal.EquitySnapshot{
		Time:       time.Now().UTC(),
		Balance:    acct.Balance,
		Available:  acct.Available,
		ProfitLoss: acct.ProfitLoss,
		Currency:   acct.Currency,
	}); err != nil {
		logger.Warnw("equity journal write failed", "err", err)
	}

	reported, err := e.brk.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("fetch positions: %w", err)
	}
	e.positions = Reconcile(e.assets, reported)

	e.state.set(StateDeciding)
	submitted := 0
	for _, asset := range e.assets.All() {
		sig, err := e.source.Evaluate(ctx, asset)
		if err != nil {
			// One asset's signal failing must not silence the rest.
			logger.Errorw("signal evaluation failed", "symbol", asset.Symbol, "err", err)
			continue
		}

		logger.Infow("signal",
			"symbol", asset.Symbol,
			"direction", sig.Direction.String(),
			"price", sig.Price,
			"confidence", sig.Confidence,
			"rationale", sig.Rationale,
		)

		if sig.Direction == signal.Hold {
			continue
		}
		if submitted >= maxTradesPerCycle {
			logger.Infow("trade skipped", "symbol", asset.Symbol, "reason", ReasonTradeBudget)
			continue
		}

		e.state.set(StateExecuting)
		res := e.Execute(ctx, &acct, asset, sig)
		switch res.Outcome {
		case Executed:
			submitted++
			logger.Infow("trade executed",
				"symbol", asset.Symbol,
				"direction", res.Trade.Direction,
				"size", res.Trade.Size,
				"entry", res.Trade.EntryPrice,
				"stop", res.Trade.StopLevel,
				"target", res.Trade.ProfitLevel,
				"deal_reference", res.Trade.DealReference,
			)
			e.sleep(ctx, submitPause)
		case Skipped:
			logger.Infow("trade skipped", "symbol", asset.Symbol, "reason", res.Reason)
		case Failed:
			// Reported, not retried: blind market-order retries risk
			// duplicate fills. Next cycle re-evaluates from fresh state.
			logger.Errorw("trade failed", "symbol", asset.Symbol, "err", res.Err)
		}
		e.state.set(StateDeciding)
	}

	return nil
}

// Execute runs the pre-trade checks in order, sizes the order and
// submits it. The position table is NOT updated on success; the fill
// appears through reconciliation next cycle.
func (e *Engine) Execute(ctx context.Context, acct *broker.AccountSnapshot, asset market.Asset, sig signal.Signal) Result {
	if sig.Direction == signal.Hold {
		return skipped(ReasonHold)
	}
	if _, open := e.positions[asset.Symbol]; open {
		return skipped(ReasonDuplicateExposure)
	}
	if len(e.positions) >= e.cfg.MaxOpenTrades {
		return skipped(ReasonExposureCap)
	}
	if acct == nil || acct.Balance <= 0 {
		return skipped(ReasonNoBalance)
	}

	sized, err := risk.Size(risk.Inputs{
		Balance:      acct.Balance,
		RiskFraction: e.cfg.RiskPerTrade,
		Leverage:     asset.Leverage,
		Price:        sig.Price,
		LotSize:      asset.LotSize,
	})
	if err != nil {
		return failed(fmt.Errorf("size %s: %w", asset.Symbol, err))
	}

	stop, target := e.orderLevels(sig)
	direction := broker.Buy
	if sig.Direction == signal.Short {
		direction = broker.Sell
	}

	conf, err := e.brk.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Epic:         asset.Epic,
		Direction:    direction,
		Size:         sized.Quantity,
		StopLevel:    stop,
		ProfitLevel:  target,
		CurrencyCode: asset.Currency,
	})
	if err != nil {
		return failed(fmt.Errorf("submit order %s: %w", asset.Symbol, err))
	}

	rec := journal.TradeRecord{
		ID:            id.New(),
		Symbol:        asset.Symbol,
		Epic:          asset.Epic,
		Direction:     string(direction),
		Size:          sized.Quantity,
		EntryPrice:    sig.Price,
		StopLevel:     stop,
		ProfitLevel:   target,
		Leverage:      asset.Leverage,
		DealReference: conf.DealReference,
		Rationale:     sig.Rationale,
		Time:          time.Now().UTC(),
	}
	if err := e.jrnl.RecordTrade(rec); err != nil {
		// The order is live; a journal hiccup must not look like a
		// failed execution.
		logger.Warnw("trade journal write failed", "symbol", asset.Symbol, "err", err)
	}

	return executed(rec)
}

// orderLevels returns the stop and take-profit for the signal. Levels
// the source provided are used when they sit on the correct side of the
// entry for the direction; anything else is rederived from the
// configured percentages.
func (e *Engine) orderLevels(sig signal.Signal) (stop, target float64) {
	stop, target = sig.StopLevel, sig.ProfitLevel

	switch sig.Direction {
	case signal.Long:
		if stop <= 0 || stop >= sig.Price {
			stop = sig.Price * (1 - e.cfg.StopPct)
		}
		if target <= sig.Price {
			target = sig.Price * (1 + e.cfg.TargetPct)
		}
	case signal.Short:
		if stop <= sig.Price {
			stop = sig.Price * (1 + e.cfg.StopPct)
		}
		if target <= 0 || target >= sig.Price {
			target = sig.Price * (1 - e.cfg.TargetPct)
		}
	}
	return stop, target
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
