package engine

import (
	"capbot/broker"
	"capbot/logger"
	"capbot/market"
)

// Reconcile rebuilds the position table from the broker's listing. The
// result replaces the previous table wholesale — never merged — so a
// position closed out of band disappears the next cycle without any
// bookkeeping here.
//
// Positions whose epic is not in the universe are dropped with a
// warning; the broker may list instruments we never trade. Two entries
// resolving to the same symbol should not happen under correct broker
// semantics; when it does the last one processed wins and the anomaly is
// logged rather than silently accepted.
func Reconcile(assets *market.Universe, reported []broker.OpenPosition) map[string]Position {
	table := make(map[string]Position, len(reported))

	for _, p := range reported {
		asset, ok := assets.ByEpic(p.Epic)
		if !ok {
			logger.Warnw("position for unknown instrument dropped",
				"epic", p.Epic, "deal_id", p.DealID, "size", p.Size)
			continue
		}

		if prev, dup := table[asset.Symbol]; dup {
			logger.Warnw("duplicate position for symbol, keeping last",
				"symbol", asset.Symbol,
				"kept_deal_id", p.DealID,
				"dropped_deal_id", prev.DealID,
			)
		}

		table[asset.Symbol] = Position{
			Symbol:    asset.Symbol,
			DealID:    p.DealID,
			Direction: p.Direction,
			Size:      p.Size,
			OpenLevel: p.OpenLevel,
			Profit:    p.Profit,
		}
	}

	return table
}
