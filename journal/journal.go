package journal

import "time"

// TradeRecord is one confirmed execution. Append-only: rows are written
// once when the broker acknowledges an order and never mutated.
type TradeRecord struct {
	ID            string // ULID, time-sortable
	Symbol        string
	Epic          string
	Direction     string
	Size          float64
	EntryPrice    float64
	StopLevel     float64
	ProfitLevel   float64
	Leverage      float64
	DealReference string
	Rationale     string
	Time          time.Time
}

// EquitySnapshot is the account state at the top of a cycle.
type EquitySnapshot struct {
	Time       time.Time
	Balance    float64
	Available  float64
	ProfitLoss float64
	Currency   string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Noop discards everything. Used in tests and one-shot CLI commands.
type Noop struct{}

func (Noop) RecordTrade(TradeRecord) error     { return nil }
func (Noop) RecordEquity(EquitySnapshot) error { return nil }
func (Noop) Close() error                      { return nil }
