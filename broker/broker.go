package broker

import (
	"context"
	"fmt"
)

// Direction is the broker-side order direction.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Broker is the engine's view of the trading venue. Implementations are
// the signed Capital.com REST client and the in-memory demo broker.
type Broker interface {
	GetAccount(ctx context.Context, accountID string) (AccountSnapshot, error)
	GetPositions(ctx context.Context) ([]OpenPosition, error)
	CreateMarketOrder(ctx context.Context, req MarketOrderRequest) (DealConfirmation, error)
}

// AccountSnapshot is the broker's balance view, fetched fresh each cycle
// and owned solely by that cycle. A failed fetch means "unknown balance";
// callers must never substitute zero or a default.
type AccountSnapshot struct {
	Balance    float64
	Available  float64
	ProfitLoss float64
	Currency   string
}

// OpenPosition is one broker-reported position. The reconciler maps the
// Epic back to a configured asset; the engine never trusts local state
// over this listing.
type OpenPosition struct {
	Epic      string
	DealID    string
	Direction Direction
	Size      float64
	OpenLevel float64
	Profit    float64
}

// MarketOrderRequest opens a position at market with attached stop and
// take-profit levels.
type MarketOrderRequest struct {
	Epic         string
	Direction    Direction
	Size         float64
	StopLevel    float64
	ProfitLevel  float64
	CurrencyCode string
}

// DealConfirmation is the broker acknowledgment for an accepted order.
type DealConfirmation struct {
	DealReference string
}

// TransportError covers network failures, timeouts, non-2xx responses
// and malformed payloads. The scheduler treats it as cycle-fatal and
// applies the error cooldown; it is never retried within a cycle.
type TransportError struct {
	Op     string // e.g. "GET /accounts/{id}"
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("broker: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("broker: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
