package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/Alias1177/Breakout/internal/platform/http"
	"github.com/Alias1177/Breakout/models"
)

// ibTimeLayout is the timestamp format the bridge expects on GTD orders.
const ibTimeLayout = "20060102 15:04:05"

// Bridge talks JSON over HTTP to the IB bridge sidecar. It implements
// MarketData, OrderGateway, ExecutionLedger, Fundamentals and SessionControl.
//
// Reads go through the retrying client path; Submit uses the single-shot
// path so a failed order is reported upward instead of resubmitted.
type Bridge struct {
	baseURL string
	client  *platformhttp.Client
	logger  zerolog.Logger
}

// NewBridge creates a bridge client rooted at baseURL.
func NewBridge(baseURL string, client *platformhttp.Client) *Bridge {
	return &Bridge{
		baseURL: baseURL,
		client:  client,
		logger:  log.With().Str("component", "bridge").Logger(),
	}
}

type barsResponse struct {
	Bars []models.Bar `json:"bars"`
}

type executionsResponse struct {
	Symbols []string `json:"symbols"`
}

type snapshotResponse struct {
	XML string `json:"xml"`
}

// wireOrder is the bridge's order payload. GoodTillDate travels as a venue
// local timestamp string, already converted by the order builder.
type wireOrder struct {
	ClientOrderID string  `json:"client_order_id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	OrderType     string  `json:"order_type"`
	StopPrice     float64 `json:"stop_price"`
	LimitPrice    float64 `json:"limit_price"`
	Quantity      int     `json:"quantity"`
	TimeInForce   string  `json:"tif"`
	GoodTillDate  string  `json:"good_till_date"`
	OutsideRTH    bool    `json:"outside_rth"`
}

// FetchRecentBars returns the session's one-minute bars for symbol.
func (b *Bridge) FetchRecentBars(ctx context.Context, symbol string) (models.BarWindow, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("duration", "1 D")
	q.Set("barSize", "1 min")

	var resp barsResponse
	if err := b.getJSON(ctx, "/bars", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch bars %s: %v: %w", symbol, err, ErrDataUnavailable)
	}
	return models.BarWindow(resp.Bars), nil
}

// FetchQuote returns the current best bid/ask for symbol.
func (b *Bridge) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var quote models.Quote
	if err := b.getJSON(ctx, "/quote", q, &quote); err != nil {
		return models.Quote{}, fmt.Errorf("fetch quote %s: %v: %w", symbol, err, ErrQuoteUnavailable)
	}
	return quote, nil
}

// SymbolsTradedToday returns the set of symbols with executions today.
func (b *Bridge) SymbolsTradedToday(ctx context.Context) (map[string]struct{}, error) {
	q := url.Values{}
	q.Set("day", time.Now().Format("20060102"))

	var resp executionsResponse
	if err := b.getJSON(ctx, "/executions", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch executions: %w", err)
	}

	traded := make(map[string]struct{}, len(resp.Symbols))
	for _, s := range resp.Symbols {
		traded[s] = struct{}{}
	}
	return traded, nil
}

// Submit transmits an order. Exactly one attempt is made.
func (b *Bridge) Submit(ctx context.Context, order models.OrderSpec) error {
	payload := wireOrder{
		ClientOrderID: order.ClientOrderID,
		Symbol:        order.Symbol,
		Side:          string(order.Side),
		OrderType:     "STP LMT",
		StopPrice:     order.StopPrice,
		LimitPrice:    order.LimitPrice,
		Quantity:      order.Quantity,
		TimeInForce:   order.TimeInForce,
		GoodTillDate:  order.GoodTillDate.Format(ibTimeLayout),
		OutsideRTH:    order.OutsideRTH,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order %s: %v: %w", order.Symbol, err, ErrSubmissionFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build order request %s: %v: %w", order.Symbol, err, ErrSubmissionFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.DoOnce(ctx, req)
	if err != nil {
		return fmt.Errorf("submit order %s: %v: %w", order.Symbol, err, ErrSubmissionFailed)
	}
	resp.Body.Close()

	b.logger.Info().
		Str("symbol", order.Symbol).
		Int("quantity", order.Quantity).
		Float64("stop", order.StopPrice).
		Float64("limit", order.LimitPrice).
		Str("tier", string(order.Tier)).
		Msg("entry order submitted")
	return nil
}

// FetchDailyBars returns up to days daily bars for symbol.
func (b *Bridge) FetchDailyBars(ctx context.Context, symbol string, days int) (models.BarWindow, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("duration", fmt.Sprintf("%d D", days))
	q.Set("barSize", "1 day")

	var resp barsResponse
	if err := b.getJSON(ctx, "/bars", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %v: %w", symbol, err, ErrDataUnavailable)
	}
	return models.BarWindow(resp.Bars), nil
}

// FetchSnapshot returns the fundamentals ReportSnapshot XML for symbol.
func (b *Bridge) FetchSnapshot(ctx context.Context, symbol string) (string, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("report", "ReportSnapshot")

	var resp snapshotResponse
	if err := b.getJSON(ctx, "/fundamentals", q, &resp); err != nil {
		return "", fmt.Errorf("fetch fundamentals %s: %w", symbol, err)
	}
	return resp.XML, nil
}

// Reconnect asks the sidecar to drop and re-establish its broker session.
func (b *Bridge) Reconnect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/session/reconnect", nil)
	if err != nil {
		return fmt.Errorf("build reconnect request: %w", err)
	}

	resp, err := b.client.DoOnce(ctx, req)
	if err != nil {
		return fmt.Errorf("reconnect: %v: %w", err, ErrSessionLost)
	}
	resp.Body.Close()
	return nil
}

func (b *Bridge) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := b.client.DoRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		b.logger.Error().Err(err).Str("path", path).Msg("error parsing bridge response")
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}
