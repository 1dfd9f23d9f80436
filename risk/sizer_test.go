package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeWorkedExample(t *testing.T) {
	t.Parallel()

	// balance 10000, risk 10%, 2:1 leverage, BTC at 50000, lot 0.01
	got, err := Size(Inputs{
		Balance:      10000,
		RiskFraction: 0.1,
		Leverage:     2,
		Price:        50000,
		LotSize:      0.01,
	})

	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 2000.0, got.Notional, 1e-9)
	assert.InDelta(t, 0.04, got.Quantity, 1e-9)
}

func TestSizeQuantityIsLotMultiple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"btc", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 2, Price: 67432.19, LotSize: 0.001}},
		{"doge", Inputs{Balance: 2500, RiskFraction: 0.05, Leverage: 2, Price: 0.137, LotSize: 100}},
		{"copper", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 20, Price: 4.12, LotSize: 1}},
		{"awkward_lot", Inputs{Balance: 9999.99, RiskFraction: 0.033, Leverage: 5, Price: 123.45, LotSize: 0.01}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Size(tt.in)
			assert.NoError(t, err)

			lots := got.Quantity / tt.in.LotSize
			assert.InDelta(t, math.Round(lots), lots, 1e-6,
				"quantity %v is not a multiple of lot %v", got.Quantity, tt.in.LotSize)
			assert.GreaterOrEqual(t, got.Quantity, tt.in.LotSize)
		})
	}
}

func TestSizeNeverRoundsUp(t *testing.T) {
	t.Parallel()

	// raw quantity 5.7 lots must floor to 5 lots, not round to 6.
	got, err := Size(Inputs{
		Balance:      570,
		RiskFraction: 1,
		Leverage:     1,
		Price:        100,
		LotSize:      1,
	})

	assert.NoError(t, err)
	assert.InDelta(t, 5.0, got.Quantity, 1e-9)
}

func TestSizeLotFloor(t *testing.T) {
	t.Parallel()

	// Raw quantity below one lot: the minimum lot is ordered rather
	// than a size the broker would reject.
	got, err := Size(Inputs{
		Balance:      100,
		RiskFraction: 0.01,
		Leverage:     2,
		Price:        50000,
		LotSize:      0.001,
	})

	assert.NoError(t, err)
	assert.InDelta(t, 0.001, got.Quantity, 1e-12)
}

func TestSizeFailsClosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero_lot", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 2, Price: 50000, LotSize: 0}},
		{"negative_lot", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 2, Price: 50000, LotSize: -0.01}},
		{"zero_price", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 2, Price: 0, LotSize: 0.01}},
		{"negative_balance", Inputs{Balance: -1, RiskFraction: 0.1, Leverage: 2, Price: 50000, LotSize: 0.01}},
		{"zero_leverage", Inputs{Balance: 10000, RiskFraction: 0.1, Leverage: 0, Price: 50000, LotSize: 0.01}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Size(tt.in)
			assert.Error(t, err)
		})
	}
}
