package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capbot/broker"
)

func TestReconcileBuildsTableBySymbol(t *testing.T) {
	t.Parallel()

	table := Reconcile(testUniverse(), []broker.OpenPosition{
		{Epic: "BTCUSD", DealID: "d1", Direction: broker.Buy, Size: 0.04, OpenLevel: 67000, Profit: 12.5},
		{Epic: "ETHUSD", DealID: "d2", Direction: broker.Sell, Size: 0.5, OpenLevel: 3800, Profit: -3.1},
	})

	require.Len(t, table, 2)
	assert.Equal(t, "d1", table["BTC"].DealID)
	assert.Equal(t, broker.Sell, table["ETH"].Direction)
	assert.InDelta(t, 3800.0, table["ETH"].OpenLevel, 1e-9)
}

func TestReconcileDropsUnknownInstruments(t *testing.T) {
	t.Parallel()

	// The broker may list instruments outside the configured universe;
	// those are dropped, not errors.
	table := Reconcile(testUniverse(), []broker.OpenPosition{
		{Epic: "GOLD", DealID: "d9", Direction: broker.Buy, Size: 1},
		{Epic: "BTCUSD", DealID: "d1", Direction: broker.Buy, Size: 0.04},
	})

	require.Len(t, table, 1)
	assert.Contains(t, table, "BTC")
}

func TestReconcileDuplicateEpicLastWriteWins(t *testing.T) {
	t.Parallel()

	table := Reconcile(testUniverse(), []broker.OpenPosition{
		{Epic: "BTCUSD", DealID: "first", Direction: broker.Buy, Size: 0.02},
		{Epic: "BTCUSD", DealID: "second", Direction: broker.Buy, Size: 0.03},
	})

	require.Len(t, table, 1, "at most one entry per symbol")
	assert.Equal(t, "second", table["BTC"].DealID)
}

func TestReconcileEmptyListing(t *testing.T) {
	t.Parallel()

	table := Reconcile(testUniverse(), nil)
	assert.Empty(t, table)
}
