package market

// Class partitions the tradable universe for leverage purposes.
type Class string

const (
	Crypto    Class = "crypto"
	Commodity Class = "commodity"
)

// Asset describes one tradable instrument. The set of assets is built
// once at startup and never mutated afterwards.
type Asset struct {
	Symbol   string  // local name, e.g. "BTC"
	Epic     string  // broker instrument identifier, e.g. "BTCUSD"
	Class    Class
	Leverage float64 // notional multiple applied to risked capital
	LotSize  float64 // minimum incremental order quantity
	Currency string  // quote currency the instrument is denominated in
}

// defaultUniverse lists the instruments the bot trades, without leverage
// (leverage is a per-class config knob applied by DefaultAssets).
var defaultUniverse = []Asset{
	{Symbol: "BTC", Epic: "BTCUSD", Class: Crypto, LotSize: 0.001, Currency: "USD"},
	{Symbol: "ETH", Epic: "ETHUSD", Class: Crypto, LotSize: 0.01, Currency: "USD"},
	{Symbol: "SOL", Epic: "SOLUSD", Class: Crypto, LotSize: 0.1, Currency: "USD"},
	{Symbol: "XRP", Epic: "XRPUSD", Class: Crypto, LotSize: 10, Currency: "USD"},
	{Symbol: "DOGE", Epic: "DOGEUSD", Class: Crypto, LotSize: 100, Currency: "USD"},
	{Symbol: "BNB", Epic: "BNBUSD", Class: Crypto, LotSize: 0.1, Currency: "USD"},
	{Symbol: "COPPER", Epic: "COPPER", Class: Commodity, LotSize: 1, Currency: "USD"},
	{Symbol: "NATGAS", Epic: "NATGAS", Class: Commodity, LotSize: 1, Currency: "USD"},
}

// Universe is an immutable asset table with lookup by symbol or epic.
type Universe struct {
	bySymbol map[string]Asset
	byEpic   map[string]Asset
	ordered  []Asset
}

// DefaultAssets builds the default universe with the given per-class
// leverage multiples.
func DefaultAssets(cryptoLeverage, commodityLeverage float64) *Universe {
	u := &Universe{
		bySymbol: make(map[string]Asset, len(defaultUniverse)),
		byEpic:   make(map[string]Asset, len(defaultUniverse)),
	}
	for _, a := range defaultUniverse {
		switch a.Class {
		case Commodity:
			a.Leverage = commodityLeverage
		default:
			a.Leverage = cryptoLeverage
		}
		u.add(a)
	}
	return u
}

// NewUniverse builds a universe from an explicit asset list. Used by
// tests and by configs that override the default instrument set.
func NewUniverse(assets []Asset) *Universe {
	u := &Universe{
		bySymbol: make(map[string]Asset, len(assets)),
		byEpic:   make(map[string]Asset, len(assets)),
	}
	for _, a := range assets {
		u.add(a)
	}
	return u
}

func (u *Universe) add(a Asset) {
	u.bySymbol[a.Symbol] = a
	u.byEpic[a.Epic] = a
	u.ordered = append(u.ordered, a)
}

func (u *Universe) BySymbol(symbol string) (Asset, bool) {
	a, ok := u.bySymbol[symbol]
	return a, ok
}

// ByEpic resolves a broker instrument identifier to an asset. The broker
// may report instruments outside the configured universe; callers must
// treat a miss as "not ours", not as an error.
func (u *Universe) ByEpic(epic string) (Asset, bool) {
	a, ok := u.byEpic[epic]
	return a, ok
}

// All returns assets in declaration order, so cycles evaluate the
// universe deterministically.
func (u *Universe) All() []Asset {
	return u.ordered
}

func (u *Universe) Len() int { return len(u.ordered) }
