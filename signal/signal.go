package signal

import (
	"context"

	"capbot/market"
)

// Direction is the decision a source makes for one asset.
type Direction int

const (
	Hold Direction = iota
	Long
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "HOLD"
	}
}

// Signal is one asset's decision for the current cycle. Produced fresh
// every cycle, never persisted.
type Signal struct {
	Direction   Direction
	Price       float64 // reference price the levels are derived from
	Confidence  float64 // [0,1]
	StopLevel   float64
	ProfitLevel float64
	Rationale   string
}

// Source produces signals. The engine's correctness is independent of
// signal quality; tests inject fixed sources, production wires whatever
// strategy is in fashion.
type Source interface {
	Evaluate(ctx context.Context, asset market.Asset) (Signal, error)
}
