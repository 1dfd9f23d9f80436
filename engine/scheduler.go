package engine

import (
	"context"
	"sync/atomic"

	"capbot/logger"
)

// State is the scheduler's observable phase.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateDeciding
	StateExecuting
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "FETCHING"
	case StateDeciding:
		return "DECIDING"
	case StateExecuting:
		return "EXECUTING"
	case StateSleeping:
		return "SLEEPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "IDLE"
	}
}

// stateFlag is the only state shared across goroutines: the current
// phase plus the running bit. Atomic, no locking.
type stateFlag struct {
	phase   atomic.Int32
	running atomic.Bool
}

func newStateFlag() *stateFlag {
	f := &stateFlag{}
	f.running.Store(true)
	return f
}

func (f *stateFlag) set(s State) { f.phase.Store(int32(s)) }
func (f *stateFlag) get() State  { return State(f.phase.Load()) }

// State reports the scheduler's current phase. Safe from any goroutine.
func (e *Engine) State() State { return e.state.get() }

// Stop requests a halt. Takes effect at the next cycle boundary; an
// in-flight broker call finishes under its own timeout.
func (e *Engine) Stop() { e.state.running.Store(false) }

// Run drives cycles sequentially until the context is canceled or Stop
// is called. Every cycle is fault-isolated: a failure is logged and the
// loop sleeps for the error cooldown instead of the normal interval
// before retrying. Fixed backoff, not exponential; the cycle frequency
// is low enough that anything smarter buys nothing. This is the only
// goroutine that touches the position table, so no two cycles ever
// overlap.
func (e *Engine) Run(ctx context.Context) {
	logger.Infow("engine started",
		"assets", e.assets.Len(),
		"interval", e.cfg.Interval,
		"error_cooldown", e.cfg.ErrorCooldown,
		"risk_per_trade", e.cfg.RiskPerTrade,
		"max_open_trades", e.cfg.MaxOpenTrades,
	)

	for e.state.running.Load() && ctx.Err() == nil {
		pause := e.cfg.Interval
		if err := e.Cycle(ctx); err != nil {
			logger.Errorw("cycle failed", "cycle", e.cycle, "err", err)
			pause = e.cfg.ErrorCooldown
		}

		if !e.state.running.Load() || ctx.Err() != nil {
			break
		}
		e.state.set(StateSleeping)
		e.sleep(ctx, pause)
	}

	e.state.set(StateStopped)
	logger.Infow("engine stopped", "cycles", e.cycle)
}
