package engine

import "capbot/journal"

// Outcome tags what happened to one execution attempt. Skips are
// expected, non-exceptional outcomes; only Failed carries an error.
type Outcome int

const (
	Executed Outcome = iota
	Skipped
	Failed
)

// Skip reasons. These are informational, not errors.
const (
	ReasonDuplicateExposure = "duplicate exposure"
	ReasonExposureCap       = "exposure cap reached"
	ReasonNoBalance         = "no tradable balance"
	ReasonHold              = "hold signal"
	ReasonTradeBudget       = "cycle trade budget used"
)

// Result of one Execute call. Exactly one of Trade, Reason, Err is
// meaningful, selected by Outcome.
type Result struct {
	Outcome Outcome
	Trade   *journal.TradeRecord
	Reason  string
	Err     error
}

func executed(rec journal.TradeRecord) Result {
	return Result{Outcome: Executed, Trade: &rec}
}

func skipped(reason string) Result {
	return Result{Outcome: Skipped, Reason: reason}
}

func failed(err error) Result {
	return Result{Outcome: Failed, Err: err}
}
