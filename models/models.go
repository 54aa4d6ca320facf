package models

import (
	"time"
)

// Bar represents a single one-minute OHLCV bar. Bars arrive from the market
// data gateway and are never mutated after creation.
type Bar struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BarWindow is one symbol's session bars, ascending by timestamp.
type BarWindow []Bar

// Quote is a best bid/ask snapshot. A zero or negative side means that side
// was missing from the feed.
type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// FeatureVector is the fixed reduction of a BarWindow used by the classifier.
//
// PrevBarRangeRatio and LastFiveRangeRatio use 1.0 as a "no history" sentinel,
// so a genuinely flat observed ratio and an absent one look the same
// downstream. Kept that way on purpose: the classifier boundaries are tuned
// against the sentinel.
type FeatureVector struct {
	Open               float64 `json:"open"`
	High               float64 `json:"high"`
	Low                float64 `json:"low"`
	Close              float64 `json:"close"`
	Volume             int64   `json:"volume"`
	PrevBarRangeRatio  float64 `json:"prev_bar_range_ratio"`
	LastFiveRangeRatio float64 `json:"last_five_range_ratio"`
}

// RiskTier sizes an entry. Strong breakouts carry the larger dollar risk.
type RiskTier string

const (
	TierStrong RiskTier = "STRONG"
	TierMild   RiskTier = "MILD"
)

// TradeDecision is the classifier output. Enter=false means no trade; the
// remaining fields are meaningful only when Enter is true.
type TradeDecision struct {
	Enter          bool     `json:"enter"`
	Tier           RiskTier `json:"tier,omitempty"`
	ReferencePrice float64  `json:"reference_price,omitempty"`
}

// NoTrade is the zero decision.
var NoTrade = TradeDecision{}

// OrderSide is the side of an order. The scanner only ever buys.
type OrderSide string

const (
	SideBuy OrderSide = "BUY"
)

// OrderSpec is a fully specified stop-limit entry order.
type OrderSpec struct {
	ClientOrderID string    `json:"client_order_id"`
	Symbol        string    `json:"symbol"`
	Side          OrderSide `json:"side"`
	StopPrice     float64   `json:"stop_price"`
	LimitPrice    float64   `json:"limit_price"`
	Quantity      int       `json:"quantity"`
	TimeInForce   string    `json:"tif"` // always "GTD"
	GoodTillDate  time.Time `json:"good_till_date"`
	OutsideRTH    bool      `json:"outside_rth"`
	Tier          RiskTier  `json:"tier"`
}

// UniverseEntry is one row of the selected trading universe.
type UniverseEntry struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"market_cap"`
	AvgVolume   float64 `json:"volume"`
	FloatShares float64 `json:"float,omitempty"`
}
