package capital

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"capbot/broker"
)

const (
	// LiveURL is the production API endpoint.
	LiveURL = "https://api-capital.backend-capital.com"
	// DemoURL is the demo environment endpoint.
	DemoURL = "https://demo-api-capital.backend-capital.com"

	apiPrefix = "/api/v1"
)

// Client is a signed Capital.com REST client implementing broker.Broker.
// All calls are synchronous with a fixed 30s timeout; a timeout surfaces
// as a *broker.TransportError, never as an indefinite block.
type Client struct {
	baseURL    string
	apiKey     string
	signer     *signer
	httpClient *http.Client
}

// NewClient builds a client for the live or demo environment.
func NewClient(apiKey, apiSecret string, demo bool) *Client {
	baseURL := LiveURL
	if demo {
		baseURL = DemoURL
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		signer:  newSigner(apiSecret),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// accountResponse mirrors GET /accounts/{id}.
type accountResponse struct {
	Balance    float64 `json:"balance"`
	Available  float64 `json:"available"`
	ProfitLoss float64 `json:"profitLoss"`
	Currency   string  `json:"currency"`
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (broker.AccountSnapshot, error) {
	op := "GET /accounts/" + accountID

	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, "/accounts/"+accountID, nil, &resp, op); err != nil {
		return broker.AccountSnapshot{}, err
	}
	if resp.Currency == "" {
		return broker.AccountSnapshot{}, &broker.TransportError{
			Op:  op,
			Err: fmt.Errorf("response missing currency"),
		}
	}

	return broker.AccountSnapshot{
		Balance:    resp.Balance,
		Available:  resp.Available,
		ProfitLoss: resp.ProfitLoss,
		Currency:   resp.Currency,
	}, nil
}

// positionsResponse mirrors GET /positions.
type positionsResponse struct {
	Positions []struct {
		Epic     string `json:"epic"`
		Position struct {
			DealID    string  `json:"dealId"`
			Direction string  `json:"direction"`
			Size      float64 `json:"size"`
			Profit    float64 `json:"profit"`
			OpenLevel float64 `json:"openLevel"`
		} `json:"position"`
	} `json:"positions"`
}

func (c *Client) GetPositions(ctx context.Context) ([]broker.OpenPosition, error) {
	var resp positionsResponse
	if err := c.do(ctx, http.MethodGet, "/positions", nil, &resp, "GET /positions"); err != nil {
		return nil, err
	}

	out := make([]broker.OpenPosition, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		out = append(out, broker.OpenPosition{
			Epic:      p.Epic,
			DealID:    p.Position.DealID,
			Direction: broker.Direction(p.Position.Direction),
			Size:      p.Position.Size,
			Profit:    p.Position.Profit,
			OpenLevel: p.Position.OpenLevel,
		})
	}
	return out, nil
}

// orderRequest mirrors POST /positions. Market orders only, with
// attached stop/limit levels and immediate-or-cancel handling.
type orderRequest struct {
	Epic           string  `json:"epic"`
	Direction      string  `json:"direction"`
	Size           float64 `json:"size"`
	OrderType      string  `json:"orderType"`
	TimeInForce    string  `json:"timeInForce"`
	StopLevel      float64 `json:"stopLevel"`
	ProfitLevel    float64 `json:"profitLevel"`
	CurrencyCode   string  `json:"currencyCode"`
	GuaranteedStop bool    `json:"guaranteedStop"`
}

type orderResponse struct {
	DealReference string `json:"dealReference"`
}

func (c *Client) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.DealConfirmation, error) {
	op := "POST /positions"

	body := orderRequest{
		Epic:         req.Epic,
		Direction:    string(req.Direction),
		Size:         req.Size,
		OrderType:    "MARKET",
		TimeInForce:  "IMMEDIATE_OR_CANCEL",
		StopLevel:    req.StopLevel,
		ProfitLevel:  req.ProfitLevel,
		CurrencyCode: req.CurrencyCode,
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/positions", body, &resp, op); err != nil {
		return broker.DealConfirmation{}, err
	}
	if resp.DealReference == "" {
		return broker.DealConfirmation{}, &broker.TransportError{
			Op:  op,
			Err: fmt.Errorf("order accepted without dealReference"),
		}
	}

	return broker.DealConfirmation{DealReference: resp.DealReference}, nil
}

// do issues one signed request and decodes the JSON response into out.
// endpoint is the path after the /api/v1 prefix.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any, op string) error {
	path := apiPrefix + endpoint

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return &broker.TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
	}

	timestamp, signature := c.signer.sign(method, path, body)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &broker.TransportError{Op: op, Err: err}
	}
	req.Header.Set("X-CAP-API-KEY", c.apiKey)
	req.Header.Set("X-SECURITY-TOKEN", signature)
	req.Header.Set("X-TIMESTAMP", timestamp)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &broker.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &broker.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &broker.TransportError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", truncate(raw, 200)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &broker.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
