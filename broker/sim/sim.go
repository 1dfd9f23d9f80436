// Package sim is an in-memory broker used in demo mode and in tests. It
// mimics the real venue closely enough for the engine's invariants to
// hold: orders create positions that only become visible to the engine
// through the positions listing, exactly like the live broker.
package sim

import (
	"context"
	"sync"

	"capbot/broker"
	"capbot/pkg/id"
)

type Broker struct {
	mu        sync.Mutex
	account   broker.AccountSnapshot
	positions []broker.OpenPosition
	fills     int
}

// New creates a demo broker with the given starting balance.
func New(balance float64, currency string) *Broker {
	return &Broker{
		account: broker.AccountSnapshot{
			Balance:   balance,
			Available: balance,
			Currency:  currency,
		},
	}
}

func (b *Broker) GetAccount(ctx context.Context, accountID string) (broker.AccountSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.account, nil
}

func (b *Broker) GetPositions(ctx context.Context) ([]broker.OpenPosition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broker.OpenPosition, len(b.positions))
	copy(out, b.positions)
	return out, nil
}

func (b *Broker) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.DealConfirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref := id.New()
	b.fills++

	// Fill at the midpoint of stop and target; good enough for a demo
	// fill level, irrelevant for the engine's accounting.
	level := (req.StopLevel + req.ProfitLevel) / 2

	b.positions = append(b.positions, broker.OpenPosition{
		Epic:      req.Epic,
		DealID:    ref,
		Direction: req.Direction,
		Size:      req.Size,
		OpenLevel: level,
	})

	return broker.DealConfirmation{DealReference: ref}, nil
}

// Fills reports how many orders have been accepted. Test hook.
func (b *Broker) Fills() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fills
}
