package capital

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capbot/broker"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("key-1", "topsecret", true)
	c.baseURL = srv.URL
	return c
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/accounts/acct-1", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-CAP-API-KEY"))
		assert.NotEmpty(t, r.Header.Get("X-SECURITY-TOKEN"))
		assert.NotEmpty(t, r.Header.Get("X-TIMESTAMP"))

		json.NewEncoder(w).Encode(map[string]any{
			"balance":    10000.0,
			"available":  9800.0,
			"profitLoss": -42.5,
			"currency":   "EUR",
		})
	})

	acct, err := c.GetAccount(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.InDelta(t, 10000.0, acct.Balance, 1e-9)
	assert.InDelta(t, 9800.0, acct.Available, 1e-9)
	assert.InDelta(t, -42.5, acct.ProfitLoss, 1e-9)
	assert.Equal(t, "EUR", acct.Currency)
}

func TestGetAccountMalformedResponse(t *testing.T) {
	t.Parallel()

	// A 200 with an empty object is still an unknown balance, not a
	// zero balance.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.GetAccount(context.Background(), "acct-1")

	var terr *broker.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestGetAccountNon2xx(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorCode":"error.invalid.api.key"}`, http.StatusUnauthorized)
	})

	_, err := c.GetAccount(context.Background(), "acct-1")

	var terr *broker.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.Status)
}

func TestGetPositions(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/positions", r.URL.Path)
		w.Write([]byte(`{
			"positions": [
				{"epic": "BTCUSD", "position": {"dealId": "d1", "direction": "BUY", "size": 0.04, "profit": 12.5, "openLevel": 67000}},
				{"epic": "NATGAS", "position": {"dealId": "d2", "direction": "SELL", "size": 3, "profit": -1.2, "openLevel": 2.41}}
			]
		}`))
	})

	got, err := c.GetPositions(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BTCUSD", got[0].Epic)
	assert.Equal(t, broker.Buy, got[0].Direction)
	assert.InDelta(t, 67000.0, got[0].OpenLevel, 1e-9)
	assert.Equal(t, broker.Sell, got[1].Direction)
}

func TestCreateMarketOrder(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/positions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BTCUSD", body["epic"])
		assert.Equal(t, "BUY", body["direction"])
		assert.Equal(t, "MARKET", body["orderType"])
		assert.Equal(t, "IMMEDIATE_OR_CANCEL", body["timeInForce"])
		assert.InDelta(t, 0.04, body["size"].(float64), 1e-9)
		assert.InDelta(t, 65660.0, body["stopLevel"].(float64), 1e-9)
		assert.InDelta(t, 69680.0, body["profitLevel"].(float64), 1e-9)
		assert.Equal(t, "USD", body["currencyCode"])

		w.Write([]byte(`{"dealReference": "ref-123"}`))
	})

	conf, err := c.CreateMarketOrder(context.Background(), broker.MarketOrderRequest{
		Epic:         "BTCUSD",
		Direction:    broker.Buy,
		Size:         0.04,
		StopLevel:    65660,
		ProfitLevel:  69680,
		CurrencyCode: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-123", conf.DealReference)
}

func TestCreateMarketOrderMissingDealReference(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.CreateMarketOrder(context.Background(), broker.MarketOrderRequest{
		Epic: "BTCUSD", Direction: broker.Buy, Size: 0.04,
	})

	var terr *broker.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestRequestTimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.GetPositions(ctx)

	var terr *broker.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
