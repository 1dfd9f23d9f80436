package risk

import (
	"fmt"
	"math"
)

// Inputs for one sizing computation. Balance is the authoritative
// account balance, not a converted or cached figure.
type Inputs struct {
	Balance      float64
	RiskFraction float64 // e.g. 0.1 risks 10% of balance per trade
	Leverage     float64
	Price        float64
	LotSize      float64
}

// Result of a sizing computation.
type Result struct {
	Quantity   float64 // lots actually ordered, a multiple of LotSize
	Notional   float64 // RiskAmount * Leverage
	RiskAmount float64 // Balance * RiskFraction
}

// Size converts a risk budget into an executable order quantity.
//
//	risk     = balance * riskFraction
//	notional = risk * leverage
//	raw      = notional / price
//	quantity = max(lot, floor(raw/lot) * lot)
//
// Rounding is always down so the computed risk is never exceeded by
// rounding; the lot floor exists because brokers reject orders below the
// minimum tradable size. When raw is already below one lot the minimum
// lot is returned, which can overshoot the risk budget slightly — the
// caller decides whether that is acceptable for the asset.
func Size(in Inputs) (Result, error) {
	if in.LotSize <= 0 {
		// Fail closed: a silent default here has masked configuration
		// bugs before.
		return Result{}, fmt.Errorf("invalid lot size %v", in.LotSize)
	}
	if in.Price <= 0 {
		return Result{}, fmt.Errorf("invalid price %v", in.Price)
	}
	if in.Balance < 0 || in.RiskFraction < 0 || in.Leverage <= 0 {
		return Result{}, fmt.Errorf("invalid sizing inputs: balance=%v riskFraction=%v leverage=%v",
			in.Balance, in.RiskFraction, in.Leverage)
	}

	riskAmount := in.Balance * in.RiskFraction
	notional := riskAmount * in.Leverage
	raw := notional / in.Price

	// The epsilon absorbs binary representation error in the division:
	// without it 0.57/0.01 floors to 56 lots, not 57.
	qty := math.Floor(raw/in.LotSize+1e-9) * in.LotSize
	if qty < in.LotSize {
		qty = in.LotSize
	}

	return Result{
		Quantity:   qty,
		Notional:   notional,
		RiskAmount: riskAmount,
	}, nil
}
