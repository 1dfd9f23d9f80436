package signal

import (
	"context"
	"math/rand"

	"capbot/market"
)

// priceRange is the band a simulated price is drawn from.
type priceRange struct {
	lo, hi float64
}

var simulatedPrices = map[string]priceRange{
	"BTC":    {65000, 70000},
	"ETH":    {3500, 4000},
	"SOL":    {140, 160},
	"XRP":    {0.4, 0.7},
	"DOGE":   {0.1, 0.2},
	"BNB":    {500, 650},
	"COPPER": {3.5, 4.5},
	"NATGAS": {2.0, 3.0},
}

// Simulated draws a random price per asset and picks a random direction.
// It stands in for a real strategy so the rest of the pipeline can run
// end to end; swap it out by providing another Source.
type Simulated struct {
	StopPct   float64 // stop distance as a fraction of price, e.g. 0.02
	TargetPct float64 // target distance as a fraction of price, e.g. 0.04
	rng       *rand.Rand
}

func NewSimulated(stopPct, targetPct float64, seed int64) *Simulated {
	return &Simulated{
		StopPct:   stopPct,
		TargetPct: targetPct,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulated) Evaluate(ctx context.Context, asset market.Asset) (Signal, error) {
	r, ok := simulatedPrices[asset.Symbol]
	if !ok {
		r = priceRange{1, 1000}
	}
	price := r.lo + s.rng.Float64()*(r.hi-r.lo)

	var dir Direction
	switch s.rng.Intn(3) {
	case 0:
		dir = Long
	case 1:
		dir = Short
	default:
		dir = Hold
	}

	sig := Signal{
		Direction:  dir,
		Price:      price,
		Confidence: s.rng.Float64(),
		Rationale:  "simulated",
	}

	switch dir {
	case Long:
		sig.StopLevel = price * (1 - s.StopPct)
		sig.ProfitLevel = price * (1 + s.TargetPct)
	case Short:
		sig.StopLevel = price * (1 + s.StopPct)
		sig.ProfitLevel = price * (1 - s.TargetPct)
	}

	return sig, nil
}
